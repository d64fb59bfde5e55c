package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"apobfuscate/internal/common"
)

// maxNodes bounds the tree size after alias expansion.
const maxNodes = 1 << 22

// yaml11Bools lists the plain scalars a YAML 1.1 reader resolves to booleans.
// yaml.v3 resolves only true/false, but player profiles are consumed by a
// YAML 1.1 loader.
var yaml11Bools = map[string]bool{
	"true": true, "True": true, "TRUE": true,
	"false": false, "False": false, "FALSE": false,
	"yes": true, "Yes": true, "YES": true,
	"no": false, "No": false, "NO": false,
	"on": true, "On": true, "ON": true,
	"off": false, "Off": false, "OFF": false,
}

// Parse parses a YAML stream into one Node per document.
// Empty input yields no documents.
func Parse(data []byte) ([]*Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var docs []*Node

	for {
		var yn yaml.Node

		err := dec.Decode(&yn)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, &ParseError{Doc: len(docs), Err: err}
		}

		c := &converter{}

		n, err := c.convert(&yn)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Doc = len(docs)
			}

			return nil, err
		}

		docs = append(docs, n)
	}

	return docs, nil
}

// ParseOne parses data that must hold at most one document.
// Empty input yields an empty mapping.
func ParseOne(data []byte) (*Node, error) {
	docs, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if common.IsEmpty(docs) {
		return NewMapping(), nil
	}

	if !common.IsSingle(docs) {
		return nil, &ParseError{Doc: 1, Err: fmt.Errorf("expected a single document, got %d", len(docs))}
	}

	doc, _ := common.First(docs)

	return doc, nil
}

type converter struct {
	count    int
	visiting map[*yaml.Node]struct{}
}

func (c *converter) errorf(yn *yaml.Node, format string, args ...any) error {
	return &ParseError{Line: yn.Line, Column: yn.Column, Err: fmt.Errorf(format, args...)}
}

func (c *converter) convert(yn *yaml.Node) (*Node, error) {
	c.count++
	if c.count > maxNodes {
		return nil, c.errorf(yn, "document exceeds %d nodes after alias expansion", maxNodes)
	}

	switch yn.Kind {
	case yaml.DocumentNode:
		if len(yn.Content) == 0 {
			return NewNull(), nil
		}

		return c.convert(yn.Content[0])

	case yaml.AliasNode:
		if c.visiting == nil {
			c.visiting = map[*yaml.Node]struct{}{}
		}

		if _, ok := c.visiting[yn.Alias]; ok {
			return nil, c.errorf(yn, "recursive alias %q", yn.Value)
		}

		c.visiting[yn.Alias] = struct{}{}
		defer delete(c.visiting, yn.Alias)

		return c.convert(yn.Alias)

	case yaml.ScalarNode:
		return convertScalar(yn), nil

	case yaml.SequenceNode:
		n := &Node{Kind: KindSequence, Items: make([]*Node, 0, len(yn.Content))}

		for _, item := range yn.Content {
			child, err := c.convert(item)
			if err != nil {
				return nil, err
			}

			n.Items = append(n.Items, child)
		}

		return n, nil

	case yaml.MappingNode:
		return c.convertMapping(yn)

	default:
		return nil, c.errorf(yn, "unsupported node kind %v", yn.Kind)
	}
}

func (c *converter) convertMapping(yn *yaml.Node) (*Node, error) {
	n := NewMapping()
	explicit := map[string]int{}

	var merged []Pair

	for i := 0; i+1 < len(yn.Content); i += 2 {
		kn, vn := yn.Content[i], yn.Content[i+1]

		key, err := c.convert(kn)
		if err != nil {
			return nil, err
		}

		if !key.IsScalar() {
			return nil, c.errorf(kn, "mapping key must be a scalar, got %s", key.Kind)
		}

		value, err := c.convert(vn)
		if err != nil {
			return nil, err
		}

		if kn.ShortTag() == "!!merge" {
			pairs, err := c.mergeSources(vn, value)
			if err != nil {
				return nil, err
			}

			merged = append(merged, pairs...)

			continue
		}

		canon := key.Canonical()
		if line, ok := explicit[canon]; ok {
			return nil, c.errorf(kn, "mapping key %q already defined at line %d", key.Value, line)
		}

		explicit[canon] = kn.Line
		n.Pairs = append(n.Pairs, Pair{Key: key, Value: value})
	}

	// Explicit keys override merged ones; earlier merge sources win.
	for _, p := range merged {
		canon := p.Key.Canonical()
		if _, ok := explicit[canon]; ok {
			continue
		}

		explicit[canon] = 0
		n.Pairs = append(n.Pairs, p)
	}

	return n, nil
}

func (c *converter) mergeSources(yn *yaml.Node, value *Node) ([]Pair, error) {
	switch {
	case value.IsMapping():
		return value.Pairs, nil
	case value.IsSequence():
		var pairs []Pair

		for _, item := range value.Items {
			if !item.IsMapping() {
				return nil, c.errorf(yn, "merge sequence must contain mappings, got %s", item.Kind)
			}

			pairs = append(pairs, item.Pairs...)
		}

		return pairs, nil
	default:
		return nil, c.errorf(yn, "merge value must be a mapping or a sequence of mappings")
	}
}

func convertScalar(yn *yaml.Node) *Node {
	n := &Node{Kind: KindScalar, Value: yn.Value}

	switch yn.ShortTag() {
	case "!!str":
		n.Scalar = ScalarString
		if yn.Style == 0 {
			if _, ok := yaml11Bools[yn.Value]; ok {
				n.Scalar = ScalarBool
			}
		}
	case "!!int":
		n.Scalar = ScalarInt
	case "!!float":
		n.Scalar = ScalarFloat
	case "!!bool":
		n.Scalar = ScalarBool
	case "!!null":
		n.Scalar = ScalarNull
		n.Value = "null"
	default:
		n.Scalar = ScalarOther
		n.Tag = yn.ShortTag()
	}

	return n
}
