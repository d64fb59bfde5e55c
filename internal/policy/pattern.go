package policy

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const prefixWildcard = "*"

// Pattern matches option keys either exactly or by prefix.
type Pattern struct {
	Name   string `yaml:"name"`
	Prefix bool   `yaml:"prefix,omitempty"`
}

// Exact returns a pattern matching only name.
func Exact(name string) Pattern { return Pattern{Name: name} }

// PrefixOf returns a pattern matching every key starting with prefix.
func PrefixOf(prefix string) Pattern { return Pattern{Name: prefix, Prefix: true} }

// ParsePattern reads "name" as an exact pattern and "name*" as a prefix.
func ParsePattern(s string) Pattern {
	if strings.HasSuffix(s, prefixWildcard) {
		return PrefixOf(strings.TrimSuffix(s, prefixWildcard))
	}

	return Exact(s)
}

// Match reports whether key matches the pattern.
func (p Pattern) Match(key string) bool {
	if p.Prefix {
		return strings.HasPrefix(key, p.Name)
	}

	return key == p.Name
}

// String returns the pattern in its short textual form.
func (p Pattern) String() string {
	if p.Prefix {
		return p.Name + prefixWildcard
	}

	return p.Name
}

// UnmarshalYAML accepts either the short form ("start_*") or a mapping
// ({name: start_, prefix: true}).
func (p *Pattern) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string

		err := node.Decode(&s)
		if err != nil {
			return err
		}

		*p = ParsePattern(s)

	case yaml.MappingNode:
		type plain Pattern

		var raw plain

		err := node.Decode(&raw)
		if err != nil {
			return err
		}

		*p = Pattern(raw)

	default:
		return fmt.Errorf("line %d: expected pattern string or mapping, got %v", node.Line, node.Kind)
	}

	if p.Name == "" {
		return errors.New("empty pattern")
	}

	return nil
}

// MarshalYAML writes the short form.
func (p Pattern) MarshalYAML() (any, error) {
	return p.String(), nil
}

func matchAny(patterns []Pattern, key string) (Pattern, bool) {
	for _, p := range patterns {
		if p.Match(key) {
			return p, true
		}
	}

	return Pattern{}, false
}
