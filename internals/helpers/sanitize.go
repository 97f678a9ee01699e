package helper

import (
	"net"
	"regexp"
	"strings"
)

var (
	htmlTagRe = regexp.MustCompile(`<[^>]*>`)
	colorRe   = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)
)

// StripHTML removes tags and collapses surrounding whitespace.
func StripHTML(s string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, ""))
}

// SanitizeText strips HTML then truncates to max runes.
func SanitizeText(s string, max int) string {
	clean := StripHTML(s)
	runes := []rune(clean)
	if max > 0 && len(runes) > max {
		return string(runes[:max])
	}
	return clean
}

// ValidIP accepts IPv4 or canonical IPv6.
func ValidIP(s string) bool {
	if s == "" {
		return false
	}
	return net.ParseIP(s) != nil
}

// ValidHexColor accepts #RGB or #RRGGBB.
func ValidHexColor(s string) bool {
	return colorRe.MatchString(s)
}
