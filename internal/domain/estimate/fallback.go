package estimate

import (
	"regexp"
	"strings"
)

// FallbackReasoning marks estimates produced without the language model.
const FallbackReasoning = "Estimate based on job description keywords (AI service temporarily unavailable)"

var (
	simpleKeywords  = []string{"socket", "plug", "light", "bulb", "switch"}
	complexKeywords = []string{"rewire", "consumer unit", "fuse box", "panel"}
	socketKeywords  = []string{"socket", "plug", "outlet"}
	// "led" alone would match "installed", so it is matched as a word.
	lightingKeywords = []string{"light", "lighting", "downlight"}
	ledWord          = regexp.MustCompile(`\bled\b`)
)

// FallbackEstimate classifies the description by keyword.
func FallbackEstimate(jobDescription string) Estimate {
	text := strings.ToLower(jobDescription)

	hours, complexity := 3.5, ComplexityModerate
	switch {
	case containsAny(text, simpleKeywords):
		hours, complexity = 1.5, ComplexitySimple
	case containsAny(text, complexKeywords):
		hours, complexity = 12.0, ComplexityComplex
	}
	return Estimate{
		Hours:      hours,
		Complexity: complexity,
		Reasoning:  FallbackReasoning,
		RecommendedActions: []string{
			"Site visit recommended for accurate quote",
			"Electrical safety testing required",
		},
	}
}

// FallbackSuggestions builds up to MaxFallbackSuggestions suggestions, ending with a general one.
func FallbackSuggestions(jobDescription string) []Suggestion {
	text := strings.ToLower(jobDescription)
	out := make([]Suggestion, 0, MaxFallbackSuggestions)

	if containsAny(text, socketKeywords) {
		out = append(out, Suggestion{
			Title:              "Power Socket Replacement",
			Description:        "Replace or install power sockets",
			Hours:              1.5,
			Complexity:         ComplexitySimple,
			Confidence:         85,
			MatchReason:        "Job mentions sockets/plugs",
			RecommendedActions: []string{"Check circuit capacity", "Test after installation"},
		})
	}
	if containsAny(text, lightingKeywords) || ledWord.MatchString(text) {
		out = append(out, Suggestion{
			Title:              "Lighting Installation/Upgrade",
			Description:        "Install or upgrade lighting fixtures",
			Hours:              3.0,
			Complexity:         ComplexityModerate,
			Confidence:         80,
			MatchReason:        "Job involves lighting work",
			RecommendedActions: []string{"Verify ceiling access", "Check compatibility", "Schedule testing"},
		})
	}
	out = append(out, Suggestion{
		Title:              "General Electrical Work",
		Description:        jobDescription,
		Hours:              3.5,
		Complexity:         ComplexityModerate,
		Confidence:         70,
		MatchReason:        DefaultReasoning,
		RecommendedActions: []string{"Site visit recommended", "Safety testing required"},
	})

	if len(out) > MaxFallbackSuggestions {
		out = out[:MaxFallbackSuggestions]
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
