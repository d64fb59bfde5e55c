package document

import (
	"fmt"
	"strings"
)

// EscapeAll encodes every codepoint of s as a numeric unicode escape:
// \uXXXX inside the Basic Multilingual Plane, \UXXXXXXXX above it.
func EscapeAll(s string) string {
	var b strings.Builder

	b.Grow(len(s) * 6)

	for _, r := range s {
		writeEscape(&b, r)
	}

	return b.String()
}

// Quote returns s as a double-quoted YAML scalar. Printable ASCII is kept
// literally; everything else is escaped so that no raw line separator or
// invisible character reaches the output.
func Quote(s string) string {
	var b strings.Builder

	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		default:
			writeEscape(&b, r)
		}
	}

	b.WriteByte('"')

	return b.String()
}

func writeEscape(b *strings.Builder, r rune) {
	if r < 0x10000 {
		fmt.Fprintf(b, `\u%04x`, r)
		return
	}

	fmt.Fprintf(b, `\U%08x`, r)
}
