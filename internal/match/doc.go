// Package match finds the closest known option name for a misspelled one.
//
// Names are compared after normalization (case-folded, separators removed)
// with a rune-based Levenshtein similarity, so "Progression-Balancing" and
// "progression_balancing" are the same name.
package match
