package indirect

import (
	"fmt"
	mathrand "math/rand"
	"strings"
)

// maxNameAttempts bounds the search for a fresh name.
const maxNameAttempts = 100000

// namer draws unique names from an alphabet.
type namer struct {
	rng      *mathrand.Rand
	alphabet []rune
	minLen   int
	maxLen   int
	taken    map[string]struct{}
}

func newNamer(rng *mathrand.Rand, cfg Config) *namer {
	return &namer{
		rng:      rng,
		alphabet: []rune(cfg.Alphabet),
		minLen:   cfg.MinNameLen,
		maxLen:   cfg.MaxNameLen,
		taken:    map[string]struct{}{},
	}
}

// reserve marks names as unavailable.
func (n *namer) reserve(names map[string]struct{}) {
	for name := range names {
		n.taken[name] = struct{}{}
	}
}

// next returns a name that was neither reserved nor returned before.
// A colliding candidate is extended with one more random rune until it is
// unique.
func (n *namer) next() (string, error) {
	var b strings.Builder

	length := n.minLen + n.rng.Intn(n.maxLen-n.minLen+1)
	for range length {
		b.WriteRune(n.pick())
	}

	for range maxNameAttempts {
		name := b.String()
		if _, ok := n.taken[name]; !ok {
			n.taken[name] = struct{}{}
			return name, nil
		}

		b.WriteRune(n.pick())
	}

	return "", fmt.Errorf("%w after %d attempts", ErrNameSpaceExhausted, maxNameAttempts)
}

func (n *namer) pick() rune {
	return n.alphabet[n.rng.Intn(len(n.alphabet))]
}
