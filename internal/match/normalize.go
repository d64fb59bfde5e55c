package match

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// NormalizeName case-folds an option name in compatibility form and strips
// separators, so full-width or ligature spellings compare equal to ASCII.
func NormalizeName(s string) string {
	folded := folder.String(norm.NFKC.String(s))

	var b strings.Builder

	b.Grow(len(folded))

	for _, r := range folded {
		if !isSeparator(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// isSeparator returns true if the rune is a common separator.
func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}
