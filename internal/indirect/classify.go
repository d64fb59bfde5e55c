package indirect

import (
	"math"

	"apobfuscate/internal/document"
)

// choice is one label of a weighted option.
type choice struct {
	label  *document.Node
	weight int64
}

// weightedOption is an option value that resolves to one of its labels.
type weightedOption struct {
	choices []choice
	total   int64
	// single is set for a bare scalar, which behaves as a one-label table.
	single bool
}

// classify decides whether value is a weighted option. When it is not,
// the returned reason says why.
func classify(value *document.Node) (weightedOption, string, bool) {
	switch {
	case value.IsMapping():
		return classifyTable(value)

	case value.IsScalar():
		switch value.Scalar {
		case document.ScalarString, document.ScalarInt, document.ScalarBool:
			return weightedOption{
				choices: []choice{{label: value, weight: 1}},
				total:   1,
				single:  true,
			}, "", true
		default:
			return weightedOption{}, "scalar of type " + value.Scalar.String() + " is not a choice", false
		}

	default:
		return weightedOption{}, value.Kind.String() + " is not a weight table", false
	}
}

func classifyTable(value *document.Node) (weightedOption, string, bool) {
	if value.Len() == 0 {
		return weightedOption{}, "empty mapping", false
	}

	w := weightedOption{choices: make([]choice, 0, value.Len())}

	for _, p := range value.Pairs {
		weight, ok := p.Value.Int()
		if !ok {
			return weightedOption{}, "value of " + p.Key.Value + " is not an integer weight", false
		}

		if weight < 0 {
			return weightedOption{}, "negative weight for " + p.Key.Value, false
		}

		if weight > math.MaxInt64-w.total {
			return weightedOption{}, "weights overflow a 64-bit total", false
		}

		w.choices = append(w.choices, choice{label: p.Key, weight: weight})
		w.total += weight
	}

	if w.total == 0 {
		return weightedOption{}, "all weights are zero", false
	}

	return w, "", true
}

// looksWeighted reports values that would be rewritten if they were not
// excluded by policy. Bare scalars do not count.
func looksWeighted(value *document.Node) bool {
	if !value.IsMapping() {
		return false
	}

	_, _, ok := classifyTable(value)

	return ok
}
