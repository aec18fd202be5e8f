package quote

import (
	"time"

	"github.com/yanqian/wirequote/internal/domain/estimate"
	"github.com/yanqian/wirequote/internal/domain/pricing"
)

// Priority labels.
const (
	PriorityStandard  = "standard"
	PriorityEmergency = "emergency"
	StatusPending     = "pending"
)

// JobRequest is the payload accepted by every quoting flow.
type JobRequest struct {
	JobDescription string `json:"jobDescription"`
	IsEmergency    bool   `json:"isEmergency"`
	CustomerEmail  string `json:"customerEmail,omitempty"`
}

// Degradation is embedded in every response so callers can tell fallback output apart.
type Degradation struct {
	Degraded        bool     `json:"degraded"`
	DegradedReasons []string `json:"degradedReasons,omitempty"`
}

func (d *Degradation) add(degraded bool, reason string) {
	if !degraded {
		return
	}
	d.Degraded = true
	d.DegradedReasons = append(d.DegradedReasons, reason)
}

// AnalysisResponse is a single estimate priced at house rates.
type AnalysisResponse struct {
	QuoteID            string                 `json:"quoteId"`
	JobDescription     string                 `json:"jobDescription"`
	EstimatedHours     float64                `json:"estimatedHours"`
	CalculatedPrice    float64                `json:"calculatedPrice"`
	Complexity         estimate.Complexity    `json:"jobComplexity"`
	Reasoning          string                 `json:"aiReasoning"`
	RecommendedActions []string               `json:"recommendedActions"`
	Priority           string                 `json:"priority"`
	Status             string                 `json:"status"`
	Currency           string                 `json:"currency"`
	Breakdown          pricing.QuoteBreakdown `json:"breakdown"`
	PriceSummary       pricing.PriceSummary   `json:"priceSummary"`
	CreatedAt          time.Time              `json:"createdAt"`
	Degradation
}

// SuggestionQuote is one priced interpretation of the job.
type SuggestionQuote struct {
	estimate.Suggestion
	CalculatedPrice float64                `json:"calculatedPrice"`
	Breakdown       pricing.QuoteBreakdown `json:"breakdown"`
	PriceSummary    pricing.PriceSummary   `json:"priceSummary"`
}

// QuickEstimateResponse lists priced suggestions, most confident first.
type QuickEstimateResponse struct {
	QuoteID             string            `json:"quoteId"`
	OriginalDescription string            `json:"originalDescription"`
	Priority            string            `json:"priority"`
	Currency            string            `json:"currency"`
	Suggestions         []SuggestionQuote `json:"suggestions"`
	TotalSuggestions    int               `json:"totalSuggestions"`
	CreatedAt           time.Time         `json:"createdAt"`
	Degradation
}

// WorkerQuotesResponse lists one quote per active worker, cheapest first.
type WorkerQuotesResponse struct {
	QuoteID             string                `json:"quoteId"`
	OriginalDescription string                `json:"originalDescription"`
	Priority            string                `json:"priority"`
	Currency            string                `json:"currency"`
	EstimatedHours      float64               `json:"estimatedHours"`
	Complexity          estimate.Complexity   `json:"jobComplexity"`
	Reasoning           string                `json:"aiReasoning"`
	WorkerQuotes        []pricing.WorkerQuote `json:"workerQuotes"`
	TotalWorkers        int                   `json:"totalWorkers"`
	CreatedAt           time.Time             `json:"createdAt"`
	Degradation
}

// WorkerQuoteResponse is the quote of a single named worker.
type WorkerQuoteResponse struct {
	QuoteID             string               `json:"quoteId"`
	OriginalDescription string               `json:"originalDescription"`
	Priority            string               `json:"priority"`
	Currency            string               `json:"currency"`
	Reasoning           string               `json:"aiReasoning"`
	Quote               pricing.WorkerQuote  `json:"quote"`
	PriceSummary        pricing.PriceSummary `json:"priceSummary"`
	CreatedAt           time.Time            `json:"createdAt"`
	Degradation
}

// Config controls the quoting flows.
type Config struct {
	Currency    string
	Concurrency int
}

func priorityOf(emergency bool) string {
	if emergency {
		return PriorityEmergency
	}
	return PriorityStandard
}
