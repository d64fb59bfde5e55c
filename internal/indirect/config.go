package indirect

import (
	crand "crypto/rand"
	"encoding/binary"
	"io"
	"log"
	mathrand "math/rand"
	"time"
)

// InvisibleAlphabet is made of whitespace and zero-width characters, so
// generated names carry no readable hint about what they wrap.
const InvisibleAlphabet = "" +
	"\u0020" +
	"\u00a0" +
	"\u2000" +
	"\u2001" +
	"\u2002" +
	"\u2003" +
	"\u2004" +
	"\u2005" +
	"\u2006" +
	"\u2007" +
	"\u2008" +
	"\u2009" +
	"\u200a" +
	"\u2028" +
	"\u2029" +
	"\u202f" +
	"\u205f" +
	"\u3000" +
	"\u180e" +
	"\u200b" +
	"\u200d" +
	"\u2060" +
	"\ufeff"

// ReadableAlphabet produces names that are easy to tell apart when
// debugging a transform.
const ReadableAlphabet = "abcdefghijklmnopqrstuvwxyz"

// Config holds configuration for the indirection pass.
type Config struct {
	// Seed drives name generation when Seeded is true.
	Seed   int64
	Seeded bool
	// Iterations is how many wrapping rounds are applied to every option.
	Iterations int
	// MinNameLen and MaxNameLen bound the length of generated names in runes.
	MinNameLen int
	MaxNameLen int
	// Alphabet is the set of runes generated names are drawn from.
	Alphabet string
	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

// DefaultConfig returns the default indirection configuration.
func DefaultConfig() Config {
	return Config{
		Iterations: 2,
		MinNameLen: 20,
		MaxNameLen: 50,
		Alphabet:   InvisibleAlphabet,
	}
}

// normalize fills zero fields from DefaultConfig.
func (c Config) normalize() Config {
	def := DefaultConfig()

	if c.Iterations <= 0 {
		c.Iterations = def.Iterations
	}

	if c.MinNameLen <= 0 {
		c.MinNameLen = def.MinNameLen
	}

	if c.MaxNameLen < c.MinNameLen {
		c.MaxNameLen = c.MinNameLen
	}

	if c.Alphabet == "" {
		c.Alphabet = def.Alphabet
	}

	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}

	return c
}

// InitRNG returns a generator seeded with seed when seeded is true, and
// otherwise with a fresh random seed. The seed in use is returned so a run
// can be reproduced.
func InitRNG(seed int64, seeded bool) (*mathrand.Rand, int64) {
	if !seeded {
		var b [8]byte
		if _, err := crand.Read(b[:]); err == nil {
			seed = int64(binary.BigEndian.Uint64(b[:]))
		} else {
			seed = time.Now().UnixNano()
		}
	}

	return mathrand.New(mathrand.NewSource(seed)), seed
}
