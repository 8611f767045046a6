package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases the input, strips diacritical marks and trims
// surrounding whitespace. "Panadería" and "panaderia" normalize to the same
// string, which is what makes accent-insensitive matching work.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFKD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Tokens splits a normalized string into whitespace-separated terms.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}
