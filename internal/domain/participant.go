package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// isInitialsSeparator reports whether r splits a participant string into
// segments for Initials. Whitespace is the ECMAScript set: Unicode White_Space
// without U+0085, plus U+FEFF.
func isInitialsSeparator(r rune) bool {
	switch r {
	case '@', '.', '_', '-', '\ufeff':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}

// Initials derives the badge text shown next to a participant.
//
//	""                          -> "?"
//	"alice"                     -> "AL"
//	"alice.smith@example.com"   -> "AS"
//	"@@"                        -> "@"
func Initials(participant string) string {
	if participant == "" {
		return "?"
	}
	upper := cases.Upper(language.Und)
	parts := strings.FieldsFunc(participant, isInitialsSeparator)
	switch len(parts) {
	case 0:
		return upper.String(firstRunes(participant, 1))
	case 1:
		return upper.String(firstRunes(parts[0], 2))
	default:
		return upper.String(firstRunes(parts[0], 1) + firstRunes(parts[1], 1))
	}
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
