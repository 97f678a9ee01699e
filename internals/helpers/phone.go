package helper

import (
	"errors"
	"strings"
	"unicode"
)

var ErrInvalidPhone = errors.New("invalid Kuwait phone number")

// NormalizeKuwaitPhone normalizes a raw phone into either an 8-digit local
// number or +965XXXXXXXX. Idempotent: feeding the output back in returns it
// unchanged.
//
//	"50012345"      → "50012345"
//	"+965 5001 2345" → "+96550012345"
//	"96550012345"   → "+96550012345"
func NormalizeKuwaitPhone(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	hasPlus := strings.HasPrefix(trimmed, "+965")

	var digits strings.Builder
	for _, r := range trimmed {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	if hasPlus || (strings.HasPrefix(d, "965") && len(d) >= 11) {
		if len(d) < 8 {
			return "", ErrInvalidPhone
		}
		return "+965" + d[len(d)-8:], nil
	}
	if len(d) == 8 {
		return d, nil
	}
	return "", ErrInvalidPhone
}
