package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"apobfuscate/internal/diagnostic"
	"apobfuscate/internal/indirect"
	"apobfuscate/internal/obfuscate"
	"apobfuscate/internal/policy"
)

// Run reads a profile, transforms it, and writes the result. Standard input
// and output are used when the configured path is StdioPath.
func Run(ctx context.Context, cfg Config, in io.Reader, out, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	if errOut == nil {
		errOut = io.Discard
	}

	logger := log.New(errOut, "", 0)

	pcfg, err := pipelineConfig(cfg, logger)
	if err != nil {
		return err
	}

	data, err := readInput(cfg.Input, in)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	result, err := obfuscate.Run(data, pcfg)
	if err != nil {
		return err
	}

	least := diagnostic.DiagnosticWarning
	if cfg.Verbose {
		least = diagnostic.DiagnosticInfo
	}

	diags := result.Diagnostics()
	for _, d := range diags.All(least) {
		logger.Printf("%s: %s", d.Severity, d)
	}

	if !cfg.ScalarsOnly {
		logger.Printf("seed: %d", result.Seed)
	}

	if result.Verified > 0 {
		logger.Printf("verified: distributions match over %d rolls", result.Verified)
	}

	return writeOutput(cfg.Output, out, result.Data)
}

func pipelineConfig(cfg Config, logger *log.Logger) (obfuscate.Config, error) {
	table, err := policy.Load(cfg.Policy)
	if err != nil {
		return obfuscate.Config{}, fmt.Errorf("loading policy: %w", err)
	}

	seed, seeded, err := cfg.seed()
	if err != nil {
		return obfuscate.Config{}, err
	}

	pcfg := obfuscate.DefaultConfig()
	pcfg.Policy = table
	pcfg.Indirect = !cfg.ScalarsOnly
	pcfg.EscapeScalars = !cfg.Plain
	pcfg.Compact = !cfg.Plain
	pcfg.EscapeKeys = cfg.EscapeKeys
	pcfg.Verify = cfg.Verify
	pcfg.Verbose = cfg.Verbose

	pcfg.Engine.Seed = seed
	pcfg.Engine.Seeded = seeded
	pcfg.Engine.Iterations = cfg.Iterations

	if cfg.DebugNames {
		pcfg.Engine.Alphabet = indirect.ReadableAlphabet
		pcfg.Engine.MinNameLen = 6
		pcfg.Engine.MaxNameLen = 6
	}

	if cfg.Verbose {
		pcfg.Logger = logger
	}

	return pcfg, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == StdioPath {
		if stdin == nil {
			return nil, nil
		}

		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading standard input: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	return data, nil
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == StdioPath {
		_, err := stdout.Write(data)
		if err != nil {
			return fmt.Errorf("writing standard output: %w", err)
		}

		return nil
	}

	err := os.WriteFile(path, data, 0o644)
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}
