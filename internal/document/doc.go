// Package document adapts gopkg.in/yaml.v3 to a small tree of mapping,
// sequence, and scalar nodes that the obfuscation passes mutate in place.
//
// Parsing expands aliases and merge keys, rejects duplicate and non-scalar
// keys, and resolves plain YAML 1.1 booleans (yes/no/on/off) the way the
// profile consumer does.
//
// Two emitters are provided:
//   - Emit writes readable block YAML through the yaml.v3 encoder.
//   - EmitCompact writes flow YAML with no optional whitespace; string
//     scalars marked StyleEscaped are written as unicode escapes.
package document
