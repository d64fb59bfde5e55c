package document

import (
	"strconv"
	"strings"

	"apobfuscate/internal/common"
)

// Kind is the structural kind of a Node.
type Kind int

const (
	KindMapping Kind = iota
	KindSequence
	KindScalar
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindScalar:
		return "scalar"
	default:
		return common.UnknownStr
	}
}

// ScalarKind is the resolved type of a scalar leaf.
type ScalarKind int

const (
	ScalarString ScalarKind = iota
	ScalarInt
	ScalarFloat
	ScalarBool
	ScalarNull
	// ScalarOther holds timestamps and explicitly tagged scalars.
	ScalarOther
)

// String returns a human-readable scalar kind name.
func (k ScalarKind) String() string {
	switch k {
	case ScalarString:
		return "string"
	case ScalarInt:
		return "int"
	case ScalarFloat:
		return "float"
	case ScalarBool:
		return "bool"
	case ScalarNull:
		return "null"
	case ScalarOther:
		return "other"
	default:
		return common.UnknownStr
	}
}

// Style controls how a string scalar is written by EmitCompact.
type Style int

const (
	// StylePlain writes the string double-quoted with only required escapes.
	StylePlain Style = iota
	// StyleEscaped writes every codepoint as a numeric unicode escape.
	StyleEscaped
)

// Pair is a single mapping entry.
type Pair struct {
	Key   *Node
	Value *Node
}

// Node is a mapping, sequence, or scalar in a parsed document.
type Node struct {
	Kind Kind

	// Pairs holds mapping entries in document order.
	Pairs []Pair
	// Items holds sequence elements.
	Items []*Node

	// Scalar is the resolved type of a scalar node.
	Scalar ScalarKind
	// Value is the decoded text of a scalar. For non-string scalars this
	// is the source text, which re-resolves to the same value.
	Value string
	// Style is only meaningful for string scalars.
	Style Style
	// Tag is the short tag of a ScalarOther node, e.g. "!!timestamp".
	Tag string
}

// NewMapping creates an empty mapping node.
func NewMapping() *Node {
	return &Node{Kind: KindMapping}
}

// NewSequence creates a sequence node holding items.
func NewSequence(items ...*Node) *Node {
	return &Node{Kind: KindSequence, Items: items}
}

// NewString creates a string scalar.
func NewString(s string) *Node {
	return &Node{Kind: KindScalar, Scalar: ScalarString, Value: s}
}

// NewInt creates an integer scalar.
func NewInt(v int64) *Node {
	return &Node{Kind: KindScalar, Scalar: ScalarInt, Value: strconv.FormatInt(v, 10)}
}

// NewBool creates a boolean scalar.
func NewBool(v bool) *Node {
	return &Node{Kind: KindScalar, Scalar: ScalarBool, Value: strconv.FormatBool(v)}
}

// NewNull creates a null scalar.
func NewNull() *Node {
	return &Node{Kind: KindScalar, Scalar: ScalarNull, Value: "null"}
}

// IsMapping reports whether n is a mapping.
func (n *Node) IsMapping() bool { return n != nil && n.Kind == KindMapping }

// IsSequence reports whether n is a sequence.
func (n *Node) IsSequence() bool { return n != nil && n.Kind == KindSequence }

// IsScalar reports whether n is a scalar.
func (n *Node) IsScalar() bool { return n != nil && n.Kind == KindScalar }

// IsString reports whether n is a string scalar.
func (n *Node) IsString() bool { return n.IsScalar() && n.Scalar == ScalarString }

// Int returns the integer value of an int scalar.
func (n *Node) Int() (int64, bool) {
	if !n.IsScalar() || n.Scalar != ScalarInt {
		return 0, false
	}

	v, err := strconv.ParseInt(strings.ReplaceAll(n.Value, "_", ""), 0, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

// Bool returns the value of a bool scalar.
func (n *Node) Bool() (bool, bool) {
	if !n.IsScalar() || n.Scalar != ScalarBool {
		return false, false
	}

	v, ok := yaml11Bools[n.Value]

	return v, ok
}

// Canonical returns a comparable representation of a scalar's value.
// Two scalars with equal Canonical values resolve to the same value.
func (n *Node) Canonical() string {
	if !n.IsScalar() {
		return ""
	}

	switch n.Scalar {
	case ScalarBool:
		v, _ := n.Bool()
		return "!!bool " + strconv.FormatBool(v)
	case ScalarNull:
		return "!!null"
	case ScalarInt:
		if v, ok := n.Int(); ok {
			return "!!int " + strconv.FormatInt(v, 10)
		}

		return "!!int " + n.Value
	case ScalarFloat:
		return "!!float " + n.Value
	case ScalarOther:
		return n.Tag + " " + n.Value
	default:
		return "!!str " + n.Value
	}
}

// Text returns the value a consumer would compare against when the scalar
// is used as an option result: the string itself, or the scalar source text.
func (n *Node) Text() string {
	if !n.IsScalar() {
		return ""
	}

	if n.Scalar == ScalarBool {
		v, _ := n.Bool()
		return strconv.FormatBool(v)
	}

	return n.Value
}

// Len returns the number of mapping pairs or sequence items.
func (n *Node) Len() int {
	switch {
	case n.IsMapping():
		return len(n.Pairs)
	case n.IsSequence():
		return len(n.Items)
	default:
		return 0
	}
}

// Index returns the position of key in a mapping, or -1.
func (n *Node) Index(key string) int {
	if !n.IsMapping() {
		return -1
	}

	for i, p := range n.Pairs {
		if p.Key.Value == key {
			return i
		}
	}

	return -1
}

// Get returns the value stored under key in a mapping.
func (n *Node) Get(key string) (*Node, bool) {
	i := n.Index(key)
	if i < 0 {
		return nil, false
	}

	return n.Pairs[i].Value, true
}

// Has reports whether a mapping contains key.
func (n *Node) Has(key string) bool {
	return n.Index(key) >= 0
}

// Set stores value under a string key, replacing an existing entry in place
// or appending a new one.
func (n *Node) Set(key string, value *Node) {
	if i := n.Index(key); i >= 0 {
		n.Pairs[i].Value = value
		return
	}

	n.Pairs = append(n.Pairs, Pair{Key: NewString(key), Value: value})
}

// SetNode stores value under an arbitrary scalar key node.
func (n *Node) SetNode(key, value *Node) {
	for i := range n.Pairs {
		if n.Pairs[i].Key.Canonical() == key.Canonical() {
			n.Pairs[i].Value = value
			return
		}
	}

	n.Pairs = append(n.Pairs, Pair{Key: key, Value: value})
}

// InsertBefore stores a new entry immediately before the entry keyed by
// anchor, or appends it when anchor is absent.
func (n *Node) InsertBefore(anchor, key string, value *Node) {
	i := n.Index(anchor)
	if i < 0 {
		n.Set(key, value)
		return
	}

	n.Pairs = append(n.Pairs, Pair{})
	copy(n.Pairs[i+1:], n.Pairs[i:])
	n.Pairs[i] = Pair{Key: NewString(key), Value: value}
}

// Delete removes key from a mapping and reports whether it was present.
func (n *Node) Delete(key string) bool {
	i := n.Index(key)
	if i < 0 {
		return false
	}

	n.Pairs = append(n.Pairs[:i], n.Pairs[i+1:]...)

	return true
}

// Keys returns the mapping keys in document order.
func (n *Node) Keys() []string {
	if !n.IsMapping() {
		return nil
	}

	keys := make([]string, 0, len(n.Pairs))
	for _, p := range n.Pairs {
		keys = append(keys, p.Key.Value)
	}

	return keys
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	c := *n
	if n.Pairs != nil {
		c.Pairs = make([]Pair, len(n.Pairs))
		for i, p := range n.Pairs {
			c.Pairs[i] = Pair{Key: p.Key.Clone(), Value: p.Value.Clone()}
		}
	}

	if n.Items != nil {
		c.Items = make([]*Node, len(n.Items))
		for i, it := range n.Items {
			c.Items[i] = it.Clone()
		}
	}

	return &c
}

// Walk visits n and every descendant depth-first. Mapping keys are visited
// with isKey set. Returning false from fn stops descent into that node.
func Walk(n *Node, fn func(n *Node, isKey bool) bool) {
	if n == nil {
		return
	}

	if !fn(n, false) {
		return
	}

	switch n.Kind {
	case KindMapping:
		for _, p := range n.Pairs {
			fn(p.Key, true)
			Walk(p.Value, fn)
		}
	case KindSequence:
		for _, it := range n.Items {
			Walk(it, fn)
		}
	case KindScalar:
	}
}

// AllKeys collects every mapping key in the tree, at any depth.
func AllKeys(n *Node) map[string]struct{} {
	keys := map[string]struct{}{}

	Walk(n, func(n *Node, isKey bool) bool {
		if isKey {
			keys[n.Value] = struct{}{}
		}

		return true
	})

	return keys
}
