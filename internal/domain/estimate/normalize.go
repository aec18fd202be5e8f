package estimate

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrNoSuggestions is returned when a multi-mode payload carries no usable suggestion list.
var ErrNoSuggestions = errors.New("payload has no suggestions")

type rawEstimate struct {
	EstimatedHours     json.RawMessage `json:"estimated_hours"`
	Hours              json.RawMessage `json:"hours"`
	JobComplexity      json.RawMessage `json:"job_complexity"`
	Complexity         json.RawMessage `json:"complexity"`
	Reasoning          json.RawMessage `json:"reasoning"`
	RecommendedActions json.RawMessage `json:"recommended_actions"`
	ActionsAlias       json.RawMessage `json:"recommendedActions"`
}

type rawSuggestion struct {
	JobTitle           json.RawMessage `json:"job_title"`
	Title              json.RawMessage `json:"title"`
	RefinedDescription json.RawMessage `json:"refined_description"`
	Description        json.RawMessage `json:"description"`
	EstimatedHours     json.RawMessage `json:"estimated_hours"`
	Hours              json.RawMessage `json:"hours"`
	JobComplexity      json.RawMessage `json:"job_complexity"`
	Complexity         json.RawMessage `json:"complexity"`
	ConfidenceScore    json.RawMessage `json:"confidence_score"`
	Confidence         json.RawMessage `json:"confidence"`
	MatchReasonSnake   json.RawMessage `json:"match_reason"`
	MatchReason        json.RawMessage `json:"matchReason"`
	RecommendedActions json.RawMessage `json:"recommended_actions"`
	ActionsAlias       json.RawMessage `json:"recommendedActions"`
}

// NormalizeEstimate turns a single-mode model payload into a bounded Estimate.
// It fails only when the payload is not a JSON object.
func NormalizeEstimate(payload string) (Estimate, error) {
	var raw rawEstimate
	if err := decodeObject(payload, &raw); err != nil {
		return Estimate{}, err
	}
	return raw.normalize(), nil
}

func (r rawEstimate) normalize() Estimate {
	hours, ok := coerceNumber(firstPresent(r.EstimatedHours, r.Hours))
	if !ok {
		hours = DefaultHours
	}
	reasoning, ok := coerceString(r.Reasoning)
	if !ok {
		reasoning = DefaultReasoning
	}
	return Estimate{
		Hours:              normalizeHours(hours),
		Complexity:         normalizeComplexity(firstPresent(r.JobComplexity, r.Complexity)),
		Reasoning:          reasoning,
		RecommendedActions: coerceActions(firstPresent(r.RecommendedActions, r.ActionsAlias), MaxEstimateActions),
	}
}

// NormalizeSuggestions turns a multi-mode model payload into at most MaxSuggestions
// bounded suggestions ranked by confidence. jobDescription fills missing descriptions.
func NormalizeSuggestions(payload, jobDescription string) ([]Suggestion, error) {
	var envelope struct {
		Suggestions json.RawMessage `json:"suggestions"`
	}
	if err := decodeObject(payload, &envelope); err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(envelope.Suggestions, &items); err != nil || len(items) == 0 {
		return nil, ErrNoSuggestions
	}
	if len(items) > MaxSuggestions {
		items = items[:MaxSuggestions]
	}

	out := make([]Suggestion, 0, len(items))
	for _, item := range items {
		var raw rawSuggestion
		if err := json.Unmarshal(item, &raw); err != nil {
			raw = rawSuggestion{}
		}
		out = append(out, raw.normalize(jobDescription))
	}
	return RankSuggestions(out), nil
}

func (r rawSuggestion) normalize(jobDescription string) Suggestion {
	hours, ok := coerceNumber(firstPresent(r.EstimatedHours, r.Hours))
	if !ok {
		hours = DefaultHours
	}
	confidence, ok := coerceNumber(firstPresent(r.ConfidenceScore, r.Confidence))
	if !ok {
		confidence = DefaultConfidence
	}
	title, ok := coerceString(firstPresent(r.JobTitle, r.Title))
	if !ok {
		title = DefaultTitle
	}
	description, ok := coerceString(firstPresent(r.RefinedDescription, r.Description))
	if !ok {
		description = jobDescription
	}
	matchReason, ok := coerceString(firstPresent(r.MatchReasonSnake, r.MatchReason))
	if !ok {
		matchReason = DefaultMatchReason
	}
	return Suggestion{
		Title:              title,
		Description:        description,
		Hours:              normalizeHours(hours),
		Complexity:         normalizeComplexity(firstPresent(r.JobComplexity, r.Complexity)),
		Confidence:         round(clamp(confidence, MinConfidence, MaxConfidence), 1),
		MatchReason:        matchReason,
		RecommendedActions: coerceActions(firstPresent(r.RecommendedActions, r.ActionsAlias), MaxSuggestionActions),
	}
}

// decodeObject strips markdown fences and decodes a JSON object into dst.
func decodeObject(payload string, dst any) error {
	sanitized := strings.TrimSpace(payload)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	sanitized = strings.TrimSpace(sanitized)
	if !strings.HasPrefix(sanitized, "{") {
		return errors.New("payload is not a JSON object")
	}
	return json.Unmarshal([]byte(sanitized), dst)
}

func firstPresent(values ...json.RawMessage) json.RawMessage {
	for _, v := range values {
		if !isAbsent(v) {
			return v
		}
	}
	return nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

// coerceNumber accepts JSON numbers and numeric strings. Only NaN is rejected; infinities clamp.
func coerceNumber(raw json.RawMessage) (float64, bool) {
	if isAbsent(raw) {
		return 0, false
	}
	var text string
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		text = num.String()
	} else if err := json.Unmarshal(raw, &text); err != nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	// Out-of-range values come back as ±Inf (or 0) and are left to clamp.
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(value) {
		return 0, false
	}
	return value, true
}

// coerceString returns the trimmed string value, rejecting blanks and non-strings.
func coerceString(raw json.RawMessage) (string, bool) {
	if isAbsent(raw) {
		return "", false
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", false
	}
	text = strings.TrimSpace(text)
	return text, text != ""
}

// coerceActions accepts a list or a lone string, keeps non-blank strings and caps the result.
func coerceActions(raw json.RawMessage, limit int) []string {
	out := make([]string, 0, limit)
	if isAbsent(raw) {
		return out
	}
	if single, ok := coerceString(raw); ok {
		return append(out, single)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, item := range items {
		if len(out) == limit {
			break
		}
		if action, ok := coerceString(item); ok {
			out = append(out, action)
		}
	}
	return out
}

func normalizeComplexity(raw json.RawMessage) Complexity {
	text, ok := coerceString(raw)
	if !ok {
		return ComplexityModerate
	}
	switch c := Complexity(strings.ToLower(text)); c {
	case ComplexitySimple, ComplexityModerate, ComplexityComplex:
		return c
	default:
		return ComplexityModerate
	}
}

func normalizeHours(hours float64) float64 {
	return round(clamp(hours, MinHours, MaxHours), 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
