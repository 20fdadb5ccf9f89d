package schema

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// headerCleaner composes decomposed Cyrillic letters (й, ё exported as base
// letter plus combining mark), drops byte order marks and turns no-break
// spaces into plain spaces. Chains carry state, so each call builds its own.
func headerCleaner() transform.Transformer {
	return transform.Chain(
		norm.NFC,
		runes.Remove(runes.Predicate(func(r rune) bool { return r == '\ufeff' })),
		runes.Map(func(r rune) rune {
			switch r {
			case '\u00a0', '\u2007', '\u202f':
				return ' '
			}
			return r
		}),
	)
}

// Normalize canonicalises a raw column or table name for comparison.
func Normalize(name string) string {
	s, _, err := transform.String(headerCleaner(), name)
	if err != nil {
		s = name
	}
	return strings.ToLower(strings.TrimSpace(s))
}
