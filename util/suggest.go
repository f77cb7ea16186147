package util

import (
	"sort"

	"github.com/xrash/smetrics"
)

// LevenshteinRatio returns the similarity of `s` and `t` between 0 and 1,
// using an edit distance where substitutions cost two.
func LevenshteinRatio(s, t string) float64 {
	lensum := float64(len(s) + len(t))
	if lensum == 0 {
		return 1.0
	}

	dist := float64(smetrics.WagnerFischer(s, t, 1, 1, 2))
	return (lensum - dist) / lensum
}

// Similar returns all `candidates` with a LevenshteinRatio of at least
// `minRatio` to `word`, the most similar first.
func Similar(word string, candidates []string, minRatio float64) []string {
	type scored struct {
		name  string
		score float64
	}

	similars := []scored{}
	for _, candidate := range candidates {
		if score := LevenshteinRatio(word, candidate); score >= minRatio {
			similars = append(similars, scored{name: candidate, score: score})
		}
	}

	sort.SliceStable(similars, func(i, j int) bool {
		return similars[i].score > similars[j].score
	})

	names := make([]string, 0, len(similars))
	for _, similar := range similars {
		names = append(names, similar.name)
	}

	return names
}
