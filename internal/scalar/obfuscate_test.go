package scalar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apobfuscate/internal/document"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Link", `\u004c\u0069\u006e\u006b`},
		{"", ""},
		{"\u00e9", `\u00e9`},
		{"\U0001F600", `\U0001f600`},
		{"a b", `\u0061\u0020\u0062`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Escape(tt.input))
		})
	}
}

func TestEscapeDecodesBack(t *testing.T) {
	for _, s := range []string{"Link", "", "A Link to the Past", "caf\u00e9 \U0001F600", "\u2028\ufeff", `quote" back\slash`} {
		out := `v: "` + Escape(s) + `"`

		doc, err := document.ParseOne([]byte(out))
		require.NoError(t, err)

		v, ok := doc.Get("v")
		require.True(t, ok)
		assert.Equal(t, s, v.Value)
		assert.Equal(t, document.ScalarString, v.Scalar)
	}
}

func TestObfuscate(t *testing.T) {
	src := `
name: Link
game: A Link to the Past
A Link to the Past:
  accessibility: items
  weights: {sword: 10, shield: 5}
  flag: true
  list: [bow, 3, null]
`
	doc, err := document.ParseOne([]byte(src))
	require.NoError(t, err)

	orig := doc.Clone()

	Obfuscate(doc, Options{})

	name, _ := doc.Get("name")
	assert.Equal(t, document.StyleEscaped, name.Style)
	assert.Equal(t, "Link", name.Value, "decoded value is unchanged")

	for _, p := range doc.Pairs {
		assert.Equal(t, document.StylePlain, p.Key.Style, "keys are not touched by default")
	}

	// name, game, accessibility, bow
	assert.Equal(t, 4, Count(doc))

	out, err := document.EmitCompact([]*document.Node{doc})
	require.NoError(t, err)

	text := string(out)
	assert.NotContains(t, text, ": ")
	assert.NotContains(t, text, ", ")
	assert.NotContains(t, text, "\n  ")
	assert.NotContains(t, text, `"Link"`)
	assert.Contains(t, text, `"name":"\u004c\u0069\u006e\u006b"`)
	assert.Contains(t, text, `"flag":true`)

	back, err := document.ParseOne(out)
	require.NoError(t, err)
	assert.Empty(t, document.Diff(orig, back))
}

func TestObfuscateEscapeKeys(t *testing.T) {
	doc, err := document.ParseOne([]byte("Link: 1\n"))
	require.NoError(t, err)

	Obfuscate(doc, Options{EscapeKeys: true})

	out, err := document.EmitCompact([]*document.Node{doc})
	require.NoError(t, err)
	assert.Equal(t, `{"\u004c\u0069\u006e\u006b":1}`, strings.TrimSpace(string(out)))

	back, err := document.ParseOne(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Link"}, back.Keys())
}

func TestObfuscateEmptyString(t *testing.T) {
	doc, err := document.ParseOne([]byte(`a: ""`))
	require.NoError(t, err)

	Obfuscate(doc, Options{})

	out, err := document.EmitCompact([]*document.Node{doc})
	require.NoError(t, err)
	assert.Equal(t, `{"a":""}`, strings.TrimSpace(string(out)))
}
