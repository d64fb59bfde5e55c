package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the only policy file version understood.
const CurrentVersion = "1"

// File is the on-disk form of a policy extension.
type File struct {
	Version string `yaml:"version"`
	// Replace discards the built-in patterns instead of extending them.
	Replace bool      `yaml:"replace,omitempty"`
	Ignore  []Pattern `yaml:"ignore,omitempty"`
	Plando  []Pattern `yaml:"plando,omitempty"`
}

// LoadFile loads and parses a YAML policy file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse policy YAML: %w", err)
	}

	applyDefaults(&f)

	if f.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported policy version %q (expected %q)", f.Version, CurrentVersion)
	}

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = CurrentVersion
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// Table builds the classification table described by f.
func (f *File) Table() *Table {
	if f == nil {
		return Default()
	}

	if f.Replace {
		return New(f.Ignore, f.Plando)
	}

	ignore := append(append([]Pattern{}, DefaultIgnored...), f.Ignore...)
	plando := append(append([]Pattern{}, DefaultPlando...), f.Plando...)

	return New(ignore, plando)
}

// Load returns the table for the policy file at path, or the default table
// when path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	return f.Table(), nil
}
