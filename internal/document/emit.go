package document

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// DocumentSeparator joins documents in a compact stream.
const DocumentSeparator = "\n---\n"

const emitIndent = 2

// yaml11Implicit matches plain scalars that a YAML 1.1 reader resolves to
// ints (including base 60), floats, nulls, timestamps, or the merge and
// value keys.
var yaml11Implicit = regexp.MustCompile(`^(?:` +
	`[-+]?0b[0-1_]+|[-+]?0[0-7_]+|[-+]?(?:0|[1-9][0-9_]*)|[-+]?0x[0-9a-fA-F_]+|[-+]?[1-9][0-9_]*(?::[0-5]?[0-9])+` +
	`|[-+]?[0-9][0-9_]*\.[0-9_]*(?:[eE][-+][0-9]+)?|\.[0-9_]+(?:[eE][-+][0-9]+)?` +
	`|[-+]?[0-9][0-9_]*(?::[0-5]?[0-9])+\.[0-9_]*|[-+]?\.(?:inf|Inf|INF)|\.(?:nan|NaN|NAN)` +
	`|~|null|Null|NULL|<<|=` +
	`|[0-9]{4}-[0-9]{1,2}-[0-9]{1,2}(?:(?:[Tt]|[ \t]+).*)?` +
	`)$`)

// Emit writes docs as readable block-style YAML.
func Emit(docs []*Node) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(emitIndent)

	for i, d := range docs {
		yn, err := toYAML(d)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}

		err = enc.Encode(yn)
		if err != nil {
			return nil, fmt.Errorf("encoding document %d: %w", i, err)
		}
	}

	err := enc.Close()
	if err != nil {
		return nil, fmt.Errorf("closing encoder: %w", err)
	}

	return buf.Bytes(), nil
}

func toYAML(n *Node) (*yaml.Node, error) {
	if n == nil {
		return nil, fmt.Errorf("nil node")
	}

	switch n.Kind {
	case KindMapping:
		yn := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

		for _, p := range n.Pairs {
			k, err := toYAML(p.Key)
			if err != nil {
				return nil, err
			}

			v, err := toYAML(p.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p.Key.Value, err)
			}

			yn.Content = append(yn.Content, k, v)
		}

		return yn, nil

	case KindSequence:
		yn := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}

		for i, it := range n.Items {
			v, err := toYAML(it)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}

			yn.Content = append(yn.Content, v)
		}

		return yn, nil

	case KindScalar:
		return scalarToYAML(n), nil

	default:
		return nil, fmt.Errorf("unsupported node kind %s", n.Kind)
	}
}

func scalarToYAML(n *Node) *yaml.Node {
	yn := &yaml.Node{Kind: yaml.ScalarNode, Value: n.Value}

	switch n.Scalar {
	case ScalarString:
		yn.Tag = "!!str"
		if needsQuoting(n.Value) {
			yn.Style = yaml.DoubleQuotedStyle
		}
	case ScalarInt:
		yn.Tag = "!!int"
	case ScalarFloat:
		yn.Tag = "!!float"
	case ScalarBool:
		v, _ := n.Bool()
		yn.Tag = "!!bool"
		yn.Value = fmt.Sprint(v)
	case ScalarNull:
		yn.Tag = "!!null"
		yn.Value = "null"
	case ScalarOther:
		yn.Tag = n.Tag
	}

	return yn
}

// needsQuoting reports strings that must not reach the encoder as plain
// or block scalars, either because a YAML 1.1 reader would retype them or
// because they carry characters outside printable ASCII.
func needsQuoting(s string) bool {
	if _, ok := yaml11Bools[s]; ok {
		return true
	}

	if s == "" || yaml11Implicit.MatchString(s) {
		return true
	}

	for _, r := range s {
		if r < 0x20 || r >= 0x7f {
			return true
		}
	}

	return false
}

// EmitCompact writes docs as flow-style YAML with no optional whitespace.
func EmitCompact(docs []*Node) ([]byte, error) {
	var b strings.Builder

	for i, d := range docs {
		if i > 0 {
			b.WriteString(DocumentSeparator)
		}

		err := writeCompact(&b, d)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
	}

	b.WriteByte('\n')

	return []byte(b.String()), nil
}

func writeCompact(b *strings.Builder, n *Node) error {
	if n == nil {
		return fmt.Errorf("nil node")
	}

	switch n.Kind {
	case KindMapping:
		b.WriteByte('{')

		for i, p := range n.Pairs {
			if i > 0 {
				b.WriteByte(',')
			}

			writeCompactScalar(b, p.Key)

			// A flow mapping accepts ':' right after a quoted key; plain keys
			// need a separating space.
			if p.Key.Scalar == ScalarString {
				b.WriteByte(':')
			} else {
				b.WriteString(": ")
			}

			err := writeCompact(b, p.Value)
			if err != nil {
				return fmt.Errorf("%s: %w", p.Key.Value, err)
			}
		}

		b.WriteByte('}')

	case KindSequence:
		b.WriteByte('[')

		for i, it := range n.Items {
			if i > 0 {
				b.WriteByte(',')
			}

			err := writeCompact(b, it)
			if err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}

		b.WriteByte(']')

	case KindScalar:
		writeCompactScalar(b, n)

	default:
		return fmt.Errorf("unsupported node kind %s", n.Kind)
	}

	return nil
}

func writeCompactScalar(b *strings.Builder, n *Node) {
	switch n.Scalar {
	case ScalarString:
		if n.Style == StyleEscaped {
			b.WriteByte('"')
			b.WriteString(EscapeAll(n.Value))
			b.WriteByte('"')

			return
		}

		b.WriteString(Quote(n.Value))
	case ScalarBool:
		v, _ := n.Bool()
		fmt.Fprint(b, v)
	case ScalarNull:
		b.WriteString("null")
	case ScalarInt, ScalarFloat:
		b.WriteString(n.Value)
	case ScalarOther:
		if n.Tag == "!!timestamp" {
			b.WriteString(n.Value)
			return
		}

		b.WriteString(n.Tag)
		b.WriteByte(' ')
		b.WriteString(Quote(n.Value))
	}
}
