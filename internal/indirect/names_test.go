package indirect

import (
	mathrand "math/rand"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamerLengthAndAlphabet(t *testing.T) {
	cfg := DefaultConfig().normalize()
	n := newNamer(mathrand.New(mathrand.NewSource(1)), cfg)

	allowed := map[rune]bool{}
	for _, r := range InvisibleAlphabet {
		allowed[r] = true
	}

	for range 200 {
		name, err := n.next()
		require.NoError(t, err)

		length := utf8.RuneCountInString(name)
		assert.GreaterOrEqual(t, length, cfg.MinNameLen)

		for _, r := range name {
			assert.True(t, allowed[r], "rune %U outside alphabet", r)
		}
	}
}

func TestNamerAvoidsReserved(t *testing.T) {
	cfg := Config{MinNameLen: 1, MaxNameLen: 1, Alphabet: "ab"}.normalize()
	n := newNamer(mathrand.New(mathrand.NewSource(1)), cfg)
	n.reserve(map[string]struct{}{"a": {}, "b": {}})

	seen := map[string]bool{}

	for range 50 {
		name, err := n.next()
		require.NoError(t, err)

		assert.NotEqual(t, "a", name)
		assert.NotEqual(t, "b", name)
		assert.False(t, seen[name], "duplicate name %q", name)
		seen[name] = true
	}
}

func TestInitRNG(t *testing.T) {
	a, seed := InitRNG(42, true)
	assert.Equal(t, int64(42), seed)

	b, _ := InitRNG(42, true)
	assert.Equal(t, a.Int63(), b.Int63())

	_, s1 := InitRNG(0, false)
	_, s2 := InitRNG(0, false)
	assert.NotEqual(t, s1, s2)
}
