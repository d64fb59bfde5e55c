package resolve

import (
	"errors"
	"fmt"
	mathrand "math/rand"
	"strings"

	"apobfuscate/internal/document"
	"apobfuscate/internal/policy"
)

const defaultPercentage = 100

var (
	// ErrNotProfile is returned for documents whose root is not a mapping.
	ErrNotProfile = errors.New("document is not a profile")
	// ErrInvalidTrigger is returned for triggers the generator would reject.
	ErrInvalidTrigger = errors.New("invalid trigger")
)

// Settings is the outcome of rolling a profile once.
type Settings struct {
	Game string
	// Options maps every option of the chosen game to the canonical form of
	// its rolled value.
	Options map[string]string
}

// Roll resolves doc once. The document is not modified.
func Roll(doc *document.Node, rng *mathrand.Rand) (*Settings, error) {
	if !doc.IsMapping() {
		return nil, ErrNotProfile
	}

	weights := doc.Clone()

	err := rollTriggers(weights, triggerList(weights), rng)
	if err != nil {
		return nil, fmt.Errorf("root triggers: %w", err)
	}

	g, _, err := choose(weights, policy.KeyGame, rng)
	if err != nil {
		return nil, fmt.Errorf("rolling game: %w", err)
	}

	if g == nil || !g.IsScalar() {
		return nil, fmt.Errorf("%w: no game selected", ErrNotProfile)
	}

	game := g.Text()

	section, ok := weights.Get(game)
	if !ok || !section.IsMapping() {
		return nil, fmt.Errorf("%w: no section for game %q", ErrNotProfile, game)
	}

	err = rollTriggers(weights, triggerList(section), rng)
	if err != nil {
		return nil, fmt.Errorf("triggers of %q: %w", game, err)
	}

	section, _ = weights.Get(game)

	settings := &Settings{Game: game, Options: make(map[string]string, section.Len())}

	for _, p := range section.Pairs {
		if p.Key.Value == policy.KeyTriggers {
			continue
		}

		settings.Options[p.Key.Value] = rollValue(p.Value, rng)
	}

	return settings, nil
}

func triggerList(n *document.Node) []*document.Node {
	list, ok := n.Get(policy.KeyTriggers)
	if !ok || !list.IsSequence() {
		return nil
	}

	return list.Items
}

// rollValue rolls an option value and returns its canonical form. Values
// that cannot be rolled are described by their kind.
func rollValue(v *document.Node, rng *mathrand.Rand) string {
	holder := document.NewMapping()
	holder.Set("v", v)

	c, _, err := choose(holder, "v", rng)
	if err != nil {
		return v.Kind.String()
	}

	if c == nil {
		return document.NewNull().Canonical()
	}

	if !c.IsScalar() {
		return c.Kind.String()
	}

	return c.Canonical()
}

// choose rolls root[key]. A sequence yields one of its items, a weight
// table one of its keys, and any other value itself. An empty table
// yields nil. The second result reports whether key is present.
func choose(root *document.Node, key string, rng *mathrand.Rand) (*document.Node, bool, error) {
	v, ok := root.Get(key)
	if !ok {
		return nil, false, nil
	}

	switch {
	case v.IsSequence():
		if v.Len() == 0 {
			return nil, true, fmt.Errorf("%q is an empty list", key)
		}

		return v.Items[rng.Intn(v.Len())], true, nil

	case !v.IsMapping():
		return v, true, nil

	case v.Len() == 0:
		return nil, true, nil
	}

	var total int64

	weights := make([]int64, len(v.Pairs))
	for i, p := range v.Pairs {
		w, ok := p.Value.Int()
		if !ok {
			return nil, true, fmt.Errorf("weight of %q in %q is not an integer", p.Key.Value, key)
		}

		weights[i] = w
		total += w
	}

	if total <= 0 {
		return nil, true, fmt.Errorf("all weights of %q are zero", key)
	}

	pick := rng.Int63n(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}

		if pick < w {
			return v.Pairs[i].Key, true, nil
		}

		pick -= w
	}

	return v.Pairs[len(v.Pairs)-1].Key, true, nil
}

func rollTriggers(weights *document.Node, triggers []*document.Node, rng *mathrand.Rand) error {
	for i, t := range triggers {
		err := rollTrigger(weights, t, rng)
		if err != nil {
			return fmt.Errorf("%w: trigger %d: %w", ErrInvalidTrigger, i+1, err)
		}
	}

	return nil
}

func rollTrigger(weights, t *document.Node, rng *mathrand.Rand) error {
	if !t.IsMapping() {
		return fmt.Errorf("trigger is a %s", t.Kind)
	}

	target, err := category(weights, t.Pairs, policy.KeyOptionCategory)
	if err != nil {
		return err
	}

	keyNode, _, err := choose(t, policy.KeyOptionName, rng)
	if err != nil {
		return err
	}

	if keyNode == nil || !target.Has(keyNode.Text()) {
		return nil
	}

	key := keyNode.Text()

	want, _, err := choose(t, policy.KeyOptionResult, rng)
	if err != nil {
		return err
	}

	got, _, err := choose(target, key, rng)
	if err != nil {
		return err
	}

	if got == nil {
		got = document.NewNull()
	}

	target.Set(key, got)

	if !sameValue(got, want) {
		return nil
	}

	hit, err := rollPercentage(t, rng)
	if err != nil || !hit {
		return err
	}

	options, ok := t.Get(policy.KeyOptions)
	if !ok || !options.IsMapping() {
		return fmt.Errorf("trigger has no options mapping")
	}

	for _, p := range options.Pairs {
		dest := weights
		if !falsy(p.Key) {
			dest, ok = weights.Get(p.Key.Text())
			if !ok || !dest.IsMapping() {
				return fmt.Errorf("unknown category %q", p.Key.Text())
			}
		}

		err := updateWeights(dest, p.Value)
		if err != nil {
			return fmt.Errorf("updating %q: %w", p.Key.Text(), err)
		}
	}

	return nil
}

// category returns the mapping a trigger reads from.
func category(weights *document.Node, pairs []document.Pair, key string) (*document.Node, error) {
	for _, p := range pairs {
		if p.Key.Value != key {
			continue
		}

		if falsy(p.Value) {
			return weights, nil
		}

		c, ok := weights.Get(p.Value.Text())
		if !ok || !c.IsMapping() {
			return nil, fmt.Errorf("unknown category %q", p.Value.Text())
		}

		return c, nil
	}

	return weights, nil
}

func rollPercentage(t *document.Node, rng *mathrand.Rand) (bool, error) {
	percentage := int64(defaultPercentage)

	p, _, err := choose(t, policy.KeyPercentage, rng)
	if err != nil {
		return false, err
	}

	if p != nil {
		v, ok := p.Int()
		if !ok {
			return false, fmt.Errorf("percentage %q is not an integer", p.Value)
		}

		percentage = v
	}

	return rng.Float64() < float64(percentage)/100, nil
}

// updateWeights applies a trigger's options to one category.
func updateWeights(weights, updates *document.Node) error {
	if !updates.IsMapping() {
		return fmt.Errorf("options are a %s, not a mapping", updates.Kind)
	}

	cleaned := document.NewMapping()

	for _, p := range updates.Pairs {
		option := p.Key.Text()
		name := strings.TrimLeft(option, "+-")
		current, exists := weights.Get(name)

		switch {
		case strings.HasPrefix(option, "+") && exists:
			merged, err := merge(current, p.Value, 1)
			if err != nil {
				return fmt.Errorf("%s: %w", option, err)
			}

			cleaned.Set(name, merged)

		case strings.HasPrefix(option, "-") && exists:
			merged, err := merge(current, p.Value, -1)
			if err != nil {
				return fmt.Errorf("%s: %w", option, err)
			}

			cleaned.Set(name, merged)

		case name == option:
			cleaned.SetNode(p.Key.Clone(), p.Value.Clone())

		default:
			cleaned.Set(name, p.Value.Clone())
		}
	}

	for _, p := range cleaned.Pairs {
		weights.SetNode(p.Key, p.Value)
	}

	return nil
}

// merge adds delta to current when sign is positive and removes it
// otherwise. Lists are extended or pruned; weight tables are summed and
// lose entries that drop to zero or below.
func merge(current, delta *document.Node, sign int64) (*document.Node, error) {
	switch {
	case current.IsSequence() && delta.IsSequence():
		out := current.Clone()

		for _, d := range delta.Items {
			if sign > 0 {
				out.Items = append(out.Items, d.Clone())
				continue
			}

			for i, it := range out.Items {
				if document.Equal(it, d) {
					out.Items = append(out.Items[:i], out.Items[i+1:]...)
					break
				}
			}
		}

		return out, nil

	case current.IsMapping() && delta.IsMapping():
		out := document.NewMapping()
		sums := map[string]int64{}

		for _, src := range []struct {
			n    *document.Node
			sign int64
		}{{current, 1}, {delta, sign}} {
			for _, p := range src.n.Pairs {
				w, ok := p.Value.Int()
				if !ok {
					return nil, fmt.Errorf("weight of %q is not an integer", p.Key.Value)
				}

				k := p.Key.Canonical()
				if _, seen := sums[k]; !seen {
					out.Pairs = append(out.Pairs, document.Pair{Key: p.Key.Clone()})
				}

				sums[k] += src.sign * w
			}
		}

		kept := out.Pairs[:0]
		for _, p := range out.Pairs {
			if w := sums[p.Key.Canonical()]; w > 0 {
				p.Value = document.NewInt(w)
				kept = append(kept, p)
			}
		}

		out.Pairs = kept

		return out, nil

	default:
		return nil, fmt.Errorf("cannot merge %s into %s", delta.Kind, current.Kind)
	}
}

// sameValue compares a rolled value with a trigger's expected result.
func sameValue(got, want *document.Node) bool {
	switch {
	case want == nil:
		return got == nil || (got.IsScalar() && got.Scalar == document.ScalarNull)
	case got.IsScalar() && want.IsScalar():
		return got.Canonical() == want.Canonical()
	default:
		return document.Equal(got, want)
	}
}

func falsy(n *document.Node) bool {
	if !n.IsScalar() {
		return n == nil || n.Len() == 0
	}

	switch n.Scalar {
	case document.ScalarNull:
		return true
	case document.ScalarString:
		return n.Value == ""
	case document.ScalarBool:
		v, _ := n.Bool()
		return !v
	case document.ScalarInt:
		v, _ := n.Int()
		return v == 0
	default:
		return false
	}
}
