// Package scalar hides string literals behind numeric unicode escapes.
//
// Obfuscate only marks nodes; the escaping itself happens when the tree is
// written with document.EmitCompact, which also drops every optional
// whitespace character.
package scalar

import "apobfuscate/internal/document"

// Options controls which scalars are escaped.
type Options struct {
	// EscapeKeys also escapes string mapping keys. Key values are unchanged
	// either way; only their written form differs.
	EscapeKeys bool
}

// Obfuscate marks every string scalar under root for escaped emission and
// returns root. Integers, floats, booleans, and nulls are left alone.
func Obfuscate(root *document.Node, opts Options) *document.Node {
	document.Walk(root, func(n *document.Node, isKey bool) bool {
		if !n.IsString() {
			return true
		}

		if isKey && !opts.EscapeKeys {
			return true
		}

		n.Style = document.StyleEscaped

		return true
	})

	return root
}

// Escape returns the escaped form of s as it appears between the quotes of
// an obfuscated scalar.
func Escape(s string) string {
	return document.EscapeAll(s)
}

// Count returns how many string scalars under root are marked escaped.
func Count(root *document.Node) int {
	count := 0

	document.Walk(root, func(n *document.Node, _ bool) bool {
		if n.IsString() && n.Style == document.StyleEscaped {
			count++
		}

		return true
	})

	return count
}
