package pricing

import "sort"

// RankQuotes orders worker quotes cheapest first. Ties keep their input order.
func RankQuotes(quotes []WorkerQuote) []WorkerQuote {
	ranked := make([]WorkerQuote, len(quotes))
	copy(ranked, quotes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Breakdown.Total < ranked[j].Breakdown.Total
	})
	return ranked
}
