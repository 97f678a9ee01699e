package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKuwaitPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"50012345", "50012345"},
		{" 5001 2345 ", "50012345"},
		{"+96550012345", "+96550012345"},
		{"+965 5001 2345", "+96550012345"},
		{"96550012345", "+96550012345"},
		{"+965-5001-2345", "+96550012345"},
	}
	for _, tc := range cases {
		got, err := NormalizeKuwaitPhone(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestNormalizeKuwaitPhoneRejects(t *testing.T) {
	for _, in := range []string{"", "1234", "123456789", "abc", "+965 12"} {
		_, err := NormalizeKuwaitPhone(in)
		assert.ErrorIs(t, err, ErrInvalidPhone, "input %q", in)
	}
}

func TestNormalizeKuwaitPhoneIdempotent(t *testing.T) {
	for _, in := range []string{"50012345", "+965 5001 2345"} {
		once, err := NormalizeKuwaitPhone(in)
		require.NoError(t, err)
		twice, err := NormalizeKuwaitPhone(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}
