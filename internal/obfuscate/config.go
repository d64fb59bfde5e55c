package obfuscate

import (
	"log"

	"apobfuscate/internal/indirect"
	"apobfuscate/internal/policy"
)

// Config holds configuration for a pipeline run.
type Config struct {
	// Indirect moves option weights behind trigger chains.
	Indirect bool
	// EscapeScalars writes every string value as unicode escapes.
	EscapeScalars bool
	// EscapeKeys escapes mapping keys as well. Only used with EscapeScalars.
	EscapeKeys bool
	// Compact selects minimal flow-style output instead of block YAML.
	Compact bool

	// Engine configures the indirection pass. Its Logger defaults to Logger.
	Engine indirect.Config
	// Policy selects the options the indirection pass leaves alone. Nil uses
	// policy.Default.
	Policy *policy.Table

	// Verify rolls each document this many times before and after the
	// transform and fails when the distributions differ. Zero disables it.
	Verify int

	// Logger receives progress and debug output. Nil discards it.
	Logger *log.Logger
	// Verbose dumps the transformed trees to Logger.
	Verbose bool
}

// DefaultConfig returns the full transform: indirection, escaping, and
// compact output.
func DefaultConfig() Config {
	return Config{
		Indirect:      true,
		EscapeScalars: true,
		Compact:       true,
		Engine:        indirect.DefaultConfig(),
	}
}
