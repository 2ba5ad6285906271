package domain_util

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// mojibakeMarkers are the byte sequences UTF-8 text shows after being decoded
// as Latin-1 ("Ã¨" for "è", "â\x80\x93" for an en dash, "Â " for a nbsp).
var mojibakeMarkers = []string{"Ã", "â\u0080", "Â"}

// FixMojibake repairs UTF-8 text that was decoded as Latin-1. Text without a
// marker is returned as is; text that does not round-trip cleanly is returned
// unchanged.
func FixMojibake(text string) string {
	if text == "" || !hasMojibakeMarker(text) {
		return text
	}
	raw, err := charmap.ISO8859_1.NewEncoder().String(text)
	if err != nil {
		return text
	}
	if !utf8.ValidString(raw) {
		return text
	}
	return raw
}

func hasMojibakeMarker(text string) bool {
	for _, m := range mojibakeMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
