package domain_util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CasingVariants returns the lower, Capitalized and UPPER spellings of s.
// Stored styles and instruments were written with inconsistent casing, so
// exact-match queries try all three.
// TODO: normalize casing at write time and migrate stored documents, then
// replace the variants with a collation-based match.
func CasingVariants(s string) []string {
	variants := []string{strings.ToLower(s), Capitalize(s), strings.ToUpper(s)}
	out := variants[:0]
	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
