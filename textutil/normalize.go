package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// RemoveDiacritics converts "łódź" to "lodz". Characters that do not
// decompose to a base letter plus combining mark (notably Polish ł)
// are mapped explicitly.
func RemoveDiacritics(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case 'ł':
			return 'l'
		case 'Ł':
			return 'L'
		}
		return r
	}, s)
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize prepares free text for use in URLs and lookups: diacritics
// stripped, spaces replaced, optionally lowercased.
func Normalize(s string, lower bool, spaceReplacement string) string {
	s = RemoveDiacritics(strings.TrimSpace(s))
	if lower {
		s = strings.ToLower(s)
	}
	fields := strings.Fields(s)
	return strings.Join(fields, spaceReplacement)
}

// Slug lowercases and hyphenates free text for path segments.
func Slug(s string) string {
	return Normalize(s, true, "-")
}
