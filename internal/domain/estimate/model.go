package estimate

import "time"

// Complexity grades how involved a job is.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Bounds and defaults applied to every estimate before it is priced.
const (
	MinHours               = 0.5
	MaxHours               = 100.0
	DefaultHours           = 2.0
	MinConfidence          = 0.0
	MaxConfidence          = 100.0
	DefaultConfidence      = 80.0
	MaxEstimateActions     = 5
	MaxSuggestionActions   = 4
	MaxSuggestions         = 4
	MaxFallbackSuggestions = 3

	DefaultReasoning   = "Standard electrical work estimate"
	DefaultTitle       = "Electrical Work"
	DefaultMatchReason = "Based on job description"
)

// Estimate is one bounded interpretation of a job's duration and complexity.
type Estimate struct {
	Hours              float64    `json:"estimatedHours"`
	Complexity         Complexity `json:"jobComplexity"`
	Reasoning          string     `json:"reasoning"`
	RecommendedActions []string   `json:"recommendedActions"`
}

// Suggestion is a titled, confidence-scored interpretation returned in multi mode.
type Suggestion struct {
	Title              string     `json:"jobTitle"`
	Description        string     `json:"jobDescription"`
	Hours              float64    `json:"estimatedHours"`
	Complexity         Complexity `json:"jobComplexity"`
	Confidence         float64    `json:"confidenceScore"`
	MatchReason        string     `json:"matchReason"`
	RecommendedActions []string   `json:"recommendedActions"`
}

// Estimate projects the suggestion onto the fields the calculator consumes.
func (s Suggestion) Estimate() Estimate {
	return Estimate{
		Hours:              s.Hours,
		Complexity:         s.Complexity,
		Reasoning:          s.MatchReason,
		RecommendedActions: s.RecommendedActions,
	}
}

// Analysis is the single-mode result. Degraded is set when the fallback produced it.
type Analysis struct {
	Estimate Estimate
	Degraded bool
	Reason   string
}

// SuggestionSet is the multi-mode result, ranked by confidence.
type SuggestionSet struct {
	Suggestions []Suggestion
	Degraded    bool
	Reason      string
}

// Config carries the model settings for both analysis modes.
type Config struct {
	Model             string
	Timeout           time.Duration
	SinglePrompt      string
	MultiPrompt       string
	SingleTemperature float32
	MultiTemperature  float32
	SingleMaxTokens   int
	MultiMaxTokens    int
}
