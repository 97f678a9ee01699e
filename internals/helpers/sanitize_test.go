package helper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "hello", StripHTML("<b>hello</b>"))
	assert.Equal(t, "hello world", StripHTML("hello <script>evil()</script> world"))
	assert.Equal(t, "plain", StripHTML("  plain  "))
}

func TestSanitizeTextTruncatesRunes(t *testing.T) {
	long := strings.Repeat("م", 20)
	out := SanitizeText(long, 10)
	assert.Equal(t, 10, len([]rune(out)))

	assert.Equal(t, "short", SanitizeText("short", 100))
	assert.Equal(t, "no cap", SanitizeText("no cap", 0))
}

func TestValidHexColor(t *testing.T) {
	for _, ok := range []string{"#fff", "#FFF", "#3B82F6", "#00ff00"} {
		assert.True(t, ValidHexColor(ok), ok)
	}
	for _, bad := range []string{"", "fff", "#ff", "#fffff", "#gggggg", "#3B82F6A"} {
		assert.False(t, ValidHexColor(bad), bad)
	}
}

func TestValidIP(t *testing.T) {
	assert.True(t, ValidIP("192.168.1.1"))
	assert.True(t, ValidIP("::1"))
	assert.False(t, ValidIP(""))
	assert.False(t, ValidIP("not-an-ip"))
}
