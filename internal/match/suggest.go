package match

import "slices"

// DefaultMinScore is the similarity below which no suggestion is made.
const DefaultMinScore = 0.6

// Suggest returns the candidate closest to name after normalization. Ties
// go to the candidate that sorts first. It reports false when no candidate
// scores at least minScore.
func Suggest(name string, candidates []string, minScore float64) (string, bool) {
	sorted := slices.Clone(candidates)
	slices.Sort(sorted)

	norm := NormalizeName(name)
	best, bestScore := "", -1.0

	for _, c := range sorted {
		score := Similarity(norm, NormalizeName(c))
		if score > bestScore {
			best, bestScore = c, score
		}
	}

	if bestScore < minScore {
		return "", false
	}

	return best, true
}
