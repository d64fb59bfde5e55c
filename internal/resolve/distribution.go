package resolve

import (
	"fmt"
	"math"
	mathrand "math/rand"
	"slices"
	"strings"

	"apobfuscate/internal/document"
)

// OptionKey names one option of one game.
type OptionKey struct {
	Game   string
	Option string
}

func (k OptionKey) String() string { return k.Game + "/" + k.Option }

// Distribution counts rolled values over many rolls of a profile.
type Distribution struct {
	Rolls   int
	Games   map[string]int
	Options map[OptionKey]map[string]int
}

// Sample rolls doc n times with a generator seeded by seed.
func Sample(doc *document.Node, n int, seed int64) (*Distribution, error) {
	rng := mathrand.New(mathrand.NewSource(seed))

	d := &Distribution{
		Games:   map[string]int{},
		Options: map[OptionKey]map[string]int{},
	}

	for i := range n {
		s, err := Roll(doc, rng)
		if err != nil {
			return nil, fmt.Errorf("roll %d: %w", i+1, err)
		}

		d.add(s)
	}

	return d, nil
}

func (d *Distribution) add(s *Settings) {
	d.Rolls++
	d.Games[s.Game]++

	for option, value := range s.Options {
		key := OptionKey{Game: s.Game, Option: option}
		if d.Options[key] == nil {
			d.Options[key] = map[string]int{}
		}

		d.Options[key][value]++
	}
}

// Frequency returns the share of rolls in which option of game took value,
// given as a canonical scalar.
func (d *Distribution) Frequency(game, option, value string) float64 {
	if d.Rolls == 0 {
		return 0
	}

	return float64(d.Options[OptionKey{Game: game, Option: option}][value]) / float64(d.Rolls)
}

// Compare reports every game and option of d whose frequencies differ from
// other by more than tolerance. Options only other knows about are not
// reported.
func (d *Distribution) Compare(other *Distribution, tolerance float64) []string {
	var out []string

	for _, game := range sortedKeys(d.Games) {
		a := share(d.Games[game], d.Rolls)
		b := share(other.Games[game], other.Rolls)

		if math.Abs(a-b) > tolerance {
			out = append(out, fmt.Sprintf("game %q: %.3f != %.3f", game, a, b))
		}
	}

	keys := make([]OptionKey, 0, len(d.Options))
	for k := range d.Options {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(x, y OptionKey) int {
		return strings.Compare(x.String(), y.String())
	})

	for _, k := range keys {
		values := map[string]int{}
		for v := range d.Options[k] {
			values[v]++
		}

		for v := range other.Options[k] {
			values[v]++
		}

		for _, v := range sortedKeys(values) {
			a := share(d.Options[k][v], d.Rolls)
			b := share(other.Options[k][v], other.Rolls)

			if math.Abs(a-b) > tolerance {
				out = append(out, fmt.Sprintf("%s = %s: %.3f != %.3f", k, v, a, b))
			}
		}
	}

	return out
}

func share(count, total int) float64 {
	if total == 0 {
		return 0
	}

	return float64(count) / float64(total)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
