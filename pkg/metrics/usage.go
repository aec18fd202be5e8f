package metrics

// TokenUsage is the token accounting reported by one model call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// IsZero reports whether the provider returned no usage block.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// byKind splits usage into the label values of wirequote_llm_tokens_total.
// Providers that only report a total are counted under "total".
func (u TokenUsage) byKind() map[string]int {
	if u.PromptTokens == 0 && u.CompletionTokens == 0 {
		return map[string]int{"total": u.TotalTokens}
	}
	return map[string]int{
		"prompt":     u.PromptTokens,
		"completion": u.CompletionTokens,
	}
}
