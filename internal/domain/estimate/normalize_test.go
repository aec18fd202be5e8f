package estimate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeEstimateReadsAliases(t *testing.T) {
	est, err := NormalizeEstimate(`{"hours":"3.25","complexity":" Complex ","reasoning":"Two circuits","recommendedActions":["Isolate supply"," ","Test RCD"]}`)
	require.NoError(t, err)
	require.Equal(t, 3.3, est.Hours)
	require.Equal(t, ComplexityComplex, est.Complexity)
	require.Equal(t, "Two circuits", est.Reasoning)
	require.Equal(t, []string{"Isolate supply", "Test RCD"}, est.RecommendedActions)
}

func TestNormalizeEstimateDefaults(t *testing.T) {
	est, err := NormalizeEstimate(`{"estimated_hours":null,"job_complexity":"epic","reasoning":42,"recommended_actions":{"a":1}}`)
	require.NoError(t, err)
	require.Equal(t, DefaultHours, est.Hours)
	require.Equal(t, ComplexityModerate, est.Complexity)
	require.Equal(t, DefaultReasoning, est.Reasoning)
	require.NotNil(t, est.RecommendedActions)
	require.Empty(t, est.RecommendedActions)
}

func TestNormalizeEstimateClampsHours(t *testing.T) {
	cases := map[string]float64{
		`{"estimated_hours":0.3}`:     MinHours,
		`{"estimated_hours":-4}`:      MinHours,
		`{"estimated_hours":250}`:     MaxHours,
		`{"estimated_hours":"NaN"}`:   DefaultHours,
		`{"estimated_hours":"abc"}`:   DefaultHours,
		`{"estimated_hours":true}`:    DefaultHours,
		`{"estimated_hours":7.04}`:    7.0,
		`{"estimated_hours":1e400}`:   MaxHours,
		`{"estimated_hours":-1e400}`:  MinHours,
		`{"estimated_hours":"1e400"}`: MaxHours,
		`{"estimated_hours":"inf"}`:   MaxHours,
		`{"estimated_hours":"-Inf"}`:  MinHours,
		`{"estimated_hours":1e-400}`:  MinHours,
	}
	for payload, want := range cases {
		est, err := NormalizeEstimate(payload)
		require.NoError(t, err, payload)
		require.Equal(t, want, est.Hours, payload)
		require.GreaterOrEqual(t, est.Hours, MinHours)
		require.LessOrEqual(t, est.Hours, MaxHours)
	}
}

func TestNormalizeEstimateCapsActions(t *testing.T) {
	est, err := NormalizeEstimate(`{"recommended_actions":["a","b","c","d","e","f","g"]}`)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, est.RecommendedActions)

	est, err = NormalizeEstimate(`{"recommended_actions":"Book a site visit"}`)
	require.NoError(t, err)
	require.Equal(t, []string{"Book a site visit"}, est.RecommendedActions)
}

func TestNormalizeEstimateStripsFences(t *testing.T) {
	est, err := NormalizeEstimate("```json\n{\"estimated_hours\":1.5,\"job_complexity\":\"simple\"}\n```")
	require.NoError(t, err)
	require.Equal(t, 1.5, est.Hours)
	require.Equal(t, ComplexitySimple, est.Complexity)
}

func TestNormalizeEstimateRejectsNonObject(t *testing.T) {
	for _, payload := range []string{"", "sorry, I cannot help", "[1,2]", `"text"`, `{"estimated_hours":`} {
		_, err := NormalizeEstimate(payload)
		require.Error(t, err, payload)
	}
}

func TestNormalizeSuggestionsBoundsAndOrder(t *testing.T) {
	payload := `{"suggestions":[
		{"job_title":"Low","estimated_hours":0.1,"job_complexity":"SIMPLE","confidence_score":-10,"recommended_actions":["a","b","c","d","e"]},
		{"title":"High","hours":500,"confidence":"150"},
		7,
		{"job_title":"Mid","confidence_score":80.04,"match_reason":"Mentions sockets"},
		{"job_title":"Dropped","confidence_score":99}
	]}`

	got, err := NormalizeSuggestions(payload, "Replace two sockets in the kitchen")
	require.NoError(t, err)
	require.Len(t, got, MaxSuggestions)

	require.Equal(t, "High", got[0].Title)
	require.Equal(t, MaxConfidence, got[0].Confidence)
	require.Equal(t, MaxHours, got[0].Hours)

	// default-confidence entry (80) precedes "Mid" (80.0 after rounding) by encounter order.
	require.Equal(t, DefaultTitle, got[1].Title)
	require.Equal(t, DefaultConfidence, got[1].Confidence)
	require.Equal(t, "Replace two sockets in the kitchen", got[1].Description)
	require.Equal(t, DefaultMatchReason, got[1].MatchReason)

	require.Equal(t, "Mid", got[2].Title)
	require.Equal(t, 80.0, got[2].Confidence)
	require.Equal(t, "Mentions sockets", got[2].MatchReason)

	require.Equal(t, "Low", got[3].Title)
	require.Equal(t, MinConfidence, got[3].Confidence)
	require.Equal(t, MinHours, got[3].Hours)
	require.Equal(t, ComplexitySimple, got[3].Complexity)
	require.Len(t, got[3].RecommendedActions, MaxSuggestionActions)

	for i := 1; i < len(got); i++ {
		require.GreaterOrEqual(t, got[i-1].Confidence, got[i].Confidence)
	}
}

func TestNormalizeSuggestionsClampsOverflowingConfidence(t *testing.T) {
	payload := `{"suggestions":[
		{"job_title":"Sure","confidence_score":1e400},
		{"job_title":"Doubtful","confidence_score":-1e400},
		{"job_title":"Textual","confidence":"inf"}
	]}`

	got, err := NormalizeSuggestions(payload, "Fit an outdoor light")
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "Sure", got[0].Title)
	require.Equal(t, MaxConfidence, got[0].Confidence)
	require.Equal(t, "Textual", got[1].Title)
	require.Equal(t, MaxConfidence, got[1].Confidence)
	require.Equal(t, "Doubtful", got[2].Title)
	require.Equal(t, MinConfidence, got[2].Confidence)
}

func TestNormalizeSuggestionsWithoutList(t *testing.T) {
	for _, payload := range []string{`{}`, `{"suggestions":[]}`, `{"suggestions":"none"}`} {
		_, err := NormalizeSuggestions(payload, "job")
		require.ErrorIs(t, err, ErrNoSuggestions, payload)
	}
}
