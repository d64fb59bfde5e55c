package cli

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apobfuscate/internal/document"
)

const profile = `name: Player
game: Game
Game:
  weapon:
    sword: 1
    bow: 1
  goal: ganon
`

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("apobfuscate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	return fs
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(newFlagSet(), nil)
	require.NoError(t, err)

	assert.Equal(t, StdioPath, cfg.Input)
	assert.Equal(t, StdioPath, cfg.Output)
	assert.Equal(t, 2, cfg.Iterations)
	assert.Empty(t, cfg.Seed)
	assert.False(t, cfg.Plain)
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("APOBFUSCATE_SEED", "7")
	t.Setenv("APOBFUSCATE_ITERATIONS", "3")
	t.Setenv("APOBFUSCATE_VERBOSE", "true")

	cfg, err := ParseConfig(newFlagSet(), []string{"-iterations", "4", "-escape-keys", "in.yaml", "out.yaml"})
	require.NoError(t, err)

	assert.Equal(t, "7", cfg.Seed)
	assert.Equal(t, 4, cfg.Iterations, "flags override the environment")
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.EscapeKeys)
	assert.Equal(t, "in.yaml", cfg.Input)
	assert.Equal(t, "out.yaml", cfg.Output)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"too many paths", []string{"a", "b", "c"}},
		{"bad seed", []string{"-seed", "abc"}},
		{"zero iterations", []string{"-iterations", "0"}},
		{"negative verify", []string{"-verify", "-1"}},
		{"unknown flag", []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(newFlagSet(), tt.args)
			assert.Error(t, err)
		})
	}
}

func TestParseConfigBadEnv(t *testing.T) {
	t.Setenv("APOBFUSCATE_VERIFY", "lots")

	_, err := ParseConfig(newFlagSet(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func runWith(t *testing.T, args []string, stdin string) (string, string) {
	t.Helper()

	cfg, err := ParseConfig(newFlagSet(), args)
	require.NoError(t, err)

	var out, errOut bytes.Buffer

	err = Run(context.Background(), cfg, strings.NewReader(stdin), &out, &errOut)
	require.NoError(t, err, errOut.String())

	return out.String(), errOut.String()
}

func TestRunStdio(t *testing.T) {
	out, logs := runWith(t, []string{"-seed", "5", "-verify", "2000"}, profile)

	assert.True(t, strings.HasPrefix(out, "{"))
	assert.NotContains(t, out, "sword")
	assert.Contains(t, logs, "seed: 5")
	assert.Contains(t, logs, "verified")

	again, _ := runWith(t, []string{"-seed", "5"}, profile)
	assert.Equal(t, out, again)
}

func TestRunScalarsOnlyKeepsStructure(t *testing.T) {
	out, logs := runWith(t, []string{"-scalars-only"}, profile)
	assert.NotContains(t, logs, "seed:")

	got, err := document.ParseOne([]byte(out))
	require.NoError(t, err)

	want, err := document.ParseOne([]byte(profile))
	require.NoError(t, err)
	assert.Empty(t, document.Diff(want, got))
}

func TestRunPlainDebugNames(t *testing.T) {
	out, _ := runWith(t, []string{"-plain", "-debug-names", "-seed", "1"}, profile)

	assert.Contains(t, out, "\n")
	assert.Contains(t, out, "option_category: Game")
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.yaml")
	outPath := filepath.Join(dir, "out.yaml")
	policyPath := filepath.Join(dir, "policy.yaml")

	require.NoError(t, os.WriteFile(in, []byte(profile), 0o644))
	require.NoError(t, os.WriteFile(policyPath, []byte("version: \"1\"\nignore: [goal]\n"), 0o644))

	stdout, _ := runWith(t, []string{"-policy", policyPath, in, outPath}, "")
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	doc, err := document.ParseOne(data)
	require.NoError(t, err)

	game, ok := doc.Get("Game")
	require.True(t, ok)

	goal, _ := game.Get("goal")
	assert.Equal(t, "ganon", goal.Value, "ignored by the policy file")
}

func TestRunErrors(t *testing.T) {
	var out, errOut bytes.Buffer

	cfg, err := ParseConfig(newFlagSet(), []string{filepath.Join(t.TempDir(), "missing.yaml")})
	require.NoError(t, err)
	assert.Error(t, Run(context.Background(), cfg, nil, &out, &errOut))

	cfg, err = ParseConfig(newFlagSet(), []string{"-policy", filepath.Join(t.TempDir(), "missing.yaml")})
	require.NoError(t, err)
	assert.Error(t, Run(context.Background(), cfg, strings.NewReader(profile), &out, &errOut))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg, err = ParseConfig(newFlagSet(), nil)
	require.NoError(t, err)
	assert.ErrorIs(t, Run(ctx, cfg, strings.NewReader(profile), &out, &errOut), context.Canceled)
}
