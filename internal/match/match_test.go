package match

import (
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"hello", "hello", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"a", "ab", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},

		// Runes, not bytes
		{"é", "e", 1},
		{"café", "cafe", 1},

		// Option names
		{"accesibility", "accessibility", 1},
		{"progression_balancing", "progresion_balancing", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := Levenshtein(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}

			if reverse := Levenshtein(tt.b, tt.a); reverse != result {
				t.Errorf("Levenshtein is not symmetric for (%q, %q): %d vs %d", tt.a, tt.b, result, reverse)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected float64
	}{
		{"", "", 1.0},
		{"hello", "hello", 1.0},
		{"abc", "xyz", 0.0},
		{"kitten", "sitting", 1.0 - 3.0/7.0},
		{"abc", "ab", 1.0 - 1.0/3.0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := Similarity(tt.a, tt.b)
			if diff := result - tt.expected; diff < -0.001 || diff > 0.001 {
				t.Errorf("Similarity(%q, %q) = %f, want %f", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"progression_balancing", "progressionbalancing"},
		{"Progression-Balancing", "progressionbalancing"},
		{"death link", "deathlink"},
		{"\uff27\uff4f\uff41\uff4c", "goal"},
		{"STRASSE", "strasse"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := NormalizeName(tt.input); result != tt.expected {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSuggest(t *testing.T) {
	candidates := []string{"accessibility", "progression_balancing", "goal", "death_link"}

	tests := []struct {
		name     string
		expected string
		found    bool
	}{
		{"accesibility", "accessibility", true},
		{"ProgressionBalancing", "progression_balancing", true},
		{"deathlink", "death_link", true},
		{"zzzzzz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Suggest(tt.name, candidates, DefaultMinScore)
			if ok != tt.found || got != tt.expected {
				t.Errorf("Suggest(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.expected, tt.found)
			}
		})
	}

	if _, ok := Suggest("goal", nil, DefaultMinScore); ok {
		t.Error("Suggest with no candidates must not find anything")
	}
}

func BenchmarkLevenshtein(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Levenshtein("progression_balancing", "progresion_balancing")
	}
}
