package obfuscate

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apobfuscate/internal/document"
	"apobfuscate/internal/indirect"
)

const profile = `name: Player
game: Game
requires:
  version: 0.5.0
Game:
  weapon:
    sword: 2
    shield: 1
    bow: 1
  difficulty: hard
  start_inventory:
    Bow: 1
`

func seeded(seed int64) Config {
	cfg := DefaultConfig()
	cfg.Engine.Seed = seed
	cfg.Engine.Seeded = true

	return cfg
}

func TestRunDefault(t *testing.T) {
	var logs bytes.Buffer

	cfg := seeded(3)
	cfg.Logger = log.New(&logs, "", 0)
	cfg.Verify = 4000

	out, err := Run([]byte(profile), cfg)
	require.NoError(t, err)

	assert.Equal(t, int64(3), out.Seed)
	assert.Equal(t, 1, out.Documents)
	assert.Equal(t, 4000, out.Verified)
	require.Len(t, out.Results, 1)
	assert.ElementsMatch(t, []string{"weapon", "difficulty"}, out.Results[0].Wrapped["Game"])
	assert.Positive(t, out.Escaped)

	text := string(out.Data)
	assert.True(t, strings.HasPrefix(text, "{"), text)
	assert.NotContains(t, text, "sword")
	assert.NotContains(t, text, "Player")
	assert.NotContains(t, text, "\n  ")
	assert.Contains(t, logs.String(), "document 1:")
}

func TestRunHidesWeightsInOutput(t *testing.T) {
	src := "game: G\nG:\n  items:\n    sword: 10\n    shield: 5\n    bow: 5\n"
	weights := map[string]int64{"sword": 10, "shield": 5, "bow": 5}

	for name, plain := range map[string]bool{"compact": false, "plain": true} {
		t.Run(name, func(t *testing.T) {
			cfg := seeded(4)
			cfg.Compact = !plain
			cfg.EscapeScalars = !plain

			out, err := Run([]byte(src), cfg)
			require.NoError(t, err)

			doc, err := document.ParseOne(out.Data)
			require.NoError(t, err)

			document.Walk(doc, func(n *document.Node, isKey bool) bool {
				if isKey || !n.IsMapping() {
					return true
				}

				for _, p := range n.Pairs {
					want, labelled := weights[p.Key.Value]
					got, weighted := p.Value.Int()
					assert.False(t, labelled && weighted && got == want,
						"%s still carries weight %d", p.Key.Value, got)
				}

				return true
			})

			game, _ := doc.Get("G")
			items, _ := game.Get("items")
			assert.True(t, items.IsString(), "items names its wrapper")
		})
	}
}

func TestRunReproducible(t *testing.T) {
	a, err := Run([]byte(profile), seeded(8))
	require.NoError(t, err)

	b, err := Run([]byte(profile), seeded(8))
	require.NoError(t, err)

	assert.Equal(t, string(a.Data), string(b.Data))
}

func TestRunScalarsOnly(t *testing.T) {
	cfg := seeded(1)
	cfg.Indirect = false

	out, err := Run([]byte(profile), cfg)
	require.NoError(t, err)
	assert.Empty(t, out.Results)

	docs, err := document.Parse(out.Data)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	original, err := document.ParseOne([]byte(profile))
	require.NoError(t, err)
	assert.Empty(t, document.Diff(original, docs[0]))
}

func TestRunPlain(t *testing.T) {
	cfg := seeded(1)
	cfg.EscapeScalars = false
	cfg.Compact = false

	out, err := Run([]byte(profile), cfg)
	require.NoError(t, err)

	assert.Contains(t, string(out.Data), "\n")
	assert.Zero(t, out.Escaped)
	assert.Contains(t, string(out.Data), "sword", "labels stay readable inside triggers")
}

func TestRunMultipleDocuments(t *testing.T) {
	out, err := Run([]byte(profile+"---\n"+profile), seeded(2))
	require.NoError(t, err)

	assert.Equal(t, 2, out.Documents)
	assert.Equal(t, 1, strings.Count(string(out.Data), document.DocumentSeparator))
}

func TestRunErrors(t *testing.T) {
	_, err := Run([]byte("a: [1"), seeded(1))
	assert.ErrorIs(t, err, document.ErrParse)

	plando := "game: G\nG:\n  plando_items:\n    - {item: Bow, location: Home}\n"
	_, err = Run([]byte(plando), seeded(1))
	assert.ErrorIs(t, err, indirect.ErrUnsupportedStructure)
}

func TestRunVerifyNeedsRollableProfile(t *testing.T) {
	cfg := seeded(1)
	cfg.Verify = 10

	_, err := Run([]byte("Game:\n  a: x\n"), cfg)
	assert.Error(t, err)
}

func TestRunVerbose(t *testing.T) {
	var logs bytes.Buffer

	cfg := seeded(1)
	cfg.Logger = log.New(&logs, "", 0)
	cfg.Verbose = true

	_, err := Run([]byte(profile), cfg)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "transformed documents")
	assert.Contains(t, logs.String(), "debug:")
}

func TestCheckRoundTrip(t *testing.T) {
	doc := document.NewMapping()
	doc.Set("a", document.NewInt(1))

	assert.NoError(t, checkRoundTrip([]byte("{\"a\":1}\n"), []*document.Node{doc}))

	err := checkRoundTrip([]byte("{\"a\":2}\n"), []*document.Node{doc})

	var rt *RoundTripError
	require.ErrorAs(t, err, &rt)
	assert.Equal(t, 1, rt.Doc)
	assert.ErrorIs(t, err, ErrRoundTrip)

	err = checkRoundTrip([]byte("{\"a\":1}\n---\n{}\n"), []*document.Node{doc})
	assert.ErrorIs(t, err, ErrRoundTrip)
}

func TestTolerance(t *testing.T) {
	assert.Equal(t, 1.0, Tolerance(0))
	assert.Less(t, Tolerance(10000), Tolerance(100))
}
