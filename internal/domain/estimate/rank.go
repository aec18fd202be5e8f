package estimate

import "sort"

// RankSuggestions orders suggestions by confidence, highest first. Ties keep their input order.
func RankSuggestions(suggestions []Suggestion) []Suggestion {
	ranked := make([]Suggestion, len(suggestions))
	copy(ranked, suggestions)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	return ranked
}
