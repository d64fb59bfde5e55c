package cli

import (
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// StdioPath selects standard input or output instead of a file.
const StdioPath = "-"

// Config holds command configuration.
type Config struct {
	Input  string
	Output string

	// Seed is kept as text so an unset seed can be told apart from zero.
	Seed        string `env:"APOBFUSCATE_SEED"`
	Iterations  int    `env:"APOBFUSCATE_ITERATIONS"   envDefault:"2"`
	Policy      string `env:"APOBFUSCATE_POLICY"`
	Plain       bool   `env:"APOBFUSCATE_PLAIN"`
	ScalarsOnly bool   `env:"APOBFUSCATE_SCALARS_ONLY"`
	EscapeKeys  bool   `env:"APOBFUSCATE_ESCAPE_KEYS"`
	DebugNames  bool   `env:"APOBFUSCATE_DEBUG_NAMES"`
	Verify      int    `env:"APOBFUSCATE_VERIFY"`
	Verbose     bool   `env:"APOBFUSCATE_VERBOSE"`
}

// ParseConfig reads environment defaults, then flags and the optional
// input and output arguments.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Seed, "seed", cfg.Seed, "seed for generated names (random when empty)")
	fs.IntVar(&cfg.Iterations, "iterations", cfg.Iterations, "number of indirection rounds")
	fs.StringVar(&cfg.Policy, "policy", cfg.Policy, "path to a policy file extending the ignore and plando lists")
	fs.BoolVar(&cfg.Plain, "plain", cfg.Plain, "write readable block YAML without escaping")
	fs.BoolVar(&cfg.ScalarsOnly, "scalars-only", cfg.ScalarsOnly, "only escape strings, keep weights in place")
	fs.BoolVar(&cfg.EscapeKeys, "escape-keys", cfg.EscapeKeys, "escape mapping keys as well")
	fs.BoolVar(&cfg.DebugNames, "debug-names", cfg.DebugNames, "generate readable names instead of invisible ones")
	fs.IntVar(&cfg.Verify, "verify", cfg.Verify, "roll input and output this many times and compare (0 disables)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if fs.NArg() > 2 {
		return Config{}, fmt.Errorf("expected at most input and output paths, got %d arguments", fs.NArg())
	}

	cfg.Input = argOr(fs, 0, StdioPath)
	cfg.Output = argOr(fs, 1, StdioPath)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func argOr(fs *flag.FlagSet, i int, def string) string {
	if v := fs.Arg(i); v != "" {
		return v
	}

	return def
}

func (c Config) validate() error {
	if c.Iterations < 1 {
		return errors.New("iterations must be at least 1")
	}

	if c.Verify < 0 {
		return errors.New("verify must not be negative")
	}

	if _, _, err := c.seed(); err != nil {
		return err
	}

	return nil
}

// seed returns the configured seed and whether one was given.
func (c Config) seed() (int64, bool, error) {
	if c.Seed == "" {
		return 0, false, nil
	}

	v, err := strconv.ParseInt(c.Seed, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid seed %q: %w", c.Seed, err)
	}

	return v, true, nil
}
