package document

import (
	"fmt"
	"strconv"
)

// Equal reports whether a and b have the same shape and scalar values.
// Mapping order and string styles are ignored.
func Equal(a, b *Node) bool {
	return Diff(a, b) == ""
}

// Diff describes the first difference between a and b, or returns "" when
// they are equal.
func Diff(a, b *Node) string {
	return diff("$", a, b)
}

func diff(path string, a, b *Node) string {
	switch {
	case a == nil && b == nil:
		return ""
	case a == nil || b == nil:
		return fmt.Sprintf("%s: one side is nil", path)
	case a.Kind != b.Kind:
		return fmt.Sprintf("%s: kind %s != %s", path, a.Kind, b.Kind)
	}

	switch a.Kind {
	case KindMapping:
		if len(a.Pairs) != len(b.Pairs) {
			return fmt.Sprintf("%s: %d keys != %d keys", path, len(a.Pairs), len(b.Pairs))
		}

		index := make(map[string]*Node, len(b.Pairs))
		for _, p := range b.Pairs {
			index[p.Key.Canonical()] = p.Value
		}

		for _, p := range a.Pairs {
			other, ok := index[p.Key.Canonical()]
			if !ok {
				return fmt.Sprintf("%s: key %q missing", path, p.Key.Value)
			}

			if d := diff(path+"."+strconv.Quote(p.Key.Value), p.Value, other); d != "" {
				return d
			}
		}

	case KindSequence:
		if len(a.Items) != len(b.Items) {
			return fmt.Sprintf("%s: %d items != %d items", path, len(a.Items), len(b.Items))
		}

		for i := range a.Items {
			if d := diff(fmt.Sprintf("%s[%d]", path, i), a.Items[i], b.Items[i]); d != "" {
				return d
			}
		}

	case KindScalar:
		if a.Canonical() != b.Canonical() {
			return fmt.Sprintf("%s: %q != %q", path, a.Canonical(), b.Canonical())
		}
	}

	return ""
}
