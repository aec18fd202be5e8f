package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/wirequote/internal/domain/estimate"
	"github.com/yanqian/wirequote/internal/domain/pricing"
	apperrors "github.com/yanqian/wirequote/pkg/errors"
	"github.com/yanqian/wirequote/pkg/logger"
)

type stubEstimator struct {
	analysis estimate.Analysis
	set      estimate.SuggestionSet
}

func (s *stubEstimator) Analyze(ctx context.Context, jobDescription string, emergency bool) estimate.Analysis {
	return s.analysis
}

func (s *stubEstimator) Suggest(ctx context.Context, jobDescription string, emergency bool) estimate.SuggestionSet {
	return s.set
}

type stubRateCards struct {
	snapshot pricing.Snapshot
	err      error
}

func (s *stubRateCards) Load(ctx context.Context) (pricing.Snapshot, error) {
	return s.snapshot, s.err
}

func (s *stubRateCards) Find(ctx context.Context, ref string) (pricing.RateCard, pricing.Snapshot, error) {
	if s.err != nil {
		return pricing.RateCard{}, pricing.Snapshot{}, s.err
	}
	card, ok := s.snapshot.Find(ref)
	if !ok {
		return pricing.RateCard{}, s.snapshot, pricing.ErrWorkerNotFound
	}
	return card, s.snapshot, nil
}

func (s *stubRateCards) Default() pricing.RateCard {
	return houseCard
}

func (s *stubRateCards) Info() pricing.Info {
	return pricing.Info{BaseHourlyRate: 100, CalloutFee: 65, MinimumCharge: 65, EmergencyUpliftPercent: 50, Currency: "GBP"}
}

var houseCard = pricing.RateCard{
	ID:              pricing.DefaultWorkerID,
	Name:            pricing.DefaultWorkerName,
	HourlyRate:      100,
	CalloutFee:      65,
	MinimumCharge:   65,
	EmergencyUplift: 0.5,
}

func newTestService(est *stubEstimator, cards *stubRateCards) *service {
	svc := NewService(Config{Currency: "GBP", Concurrency: 2}, est, cards, nil, logger.Discard()).(*service)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "quote-1" }
	return svc
}

func TestAnalyzePricesAtHouseRates(t *testing.T) {
	est := &stubEstimator{analysis: estimate.Analysis{Estimate: estimate.Estimate{
		Hours:              2.0,
		Complexity:         estimate.ComplexityModerate,
		Reasoning:          "Two circuits",
		RecommendedActions: []string{"Isolate supply"},
	}}}
	svc := newTestService(est, &stubRateCards{})

	resp, err := svc.Analyze(context.Background(), JobRequest{JobDescription: "Add two circuits to the garage", IsEmergency: true})
	require.NoError(t, err)
	require.Equal(t, "quote-1", resp.QuoteID)
	require.Equal(t, PriorityEmergency, resp.Priority)
	require.Equal(t, StatusPending, resp.Status)
	require.Equal(t, "GBP", resp.Currency)
	require.Equal(t, 365.00, resp.CalculatedPrice)
	require.NotNil(t, resp.Breakdown.EmergencyUplift)
	require.Equal(t, "£100.00 (50% uplift)", resp.PriceSummary.EmergencyUplift)
	require.False(t, resp.Degraded)
	require.Empty(t, resp.DegradedReasons)
}

func TestAnalyzeReportsDegradation(t *testing.T) {
	est := &stubEstimator{analysis: estimate.Analysis{
		Estimate: estimate.FallbackEstimate("replace socket in hall"),
		Degraded: true,
		Reason:   estimate.ReasonModelUnavailable,
	}}
	svc := newTestService(est, &stubRateCards{})

	resp, err := svc.Analyze(context.Background(), JobRequest{JobDescription: "replace socket in hall"})
	require.NoError(t, err)
	require.True(t, resp.Degraded)
	require.Equal(t, []string{estimate.ReasonModelUnavailable}, resp.DegradedReasons)
	require.Equal(t, 1.5, resp.EstimatedHours)
	require.Equal(t, 215.00, resp.CalculatedPrice)
	require.Nil(t, resp.Breakdown.EmergencyUplift)
}

func TestAnalyzeRejectsShortDescription(t *testing.T) {
	svc := newTestService(&stubEstimator{}, &stubRateCards{})
	_, err := svc.Analyze(context.Background(), JobRequest{JobDescription: "fix"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestQuickEstimateRanksSuggestions(t *testing.T) {
	est := &stubEstimator{set: estimate.SuggestionSet{Suggestions: []estimate.Suggestion{
		{Title: "Low", Hours: 1, Complexity: estimate.ComplexitySimple, Confidence: 40},
		{Title: "High", Hours: 3, Complexity: estimate.ComplexityModerate, Confidence: 95},
	}}}
	svc := newTestService(est, &stubRateCards{})

	resp, err := svc.QuickEstimate(context.Background(), JobRequest{JobDescription: "Kitchen lights keep flickering"})
	require.NoError(t, err)
	require.Equal(t, 2, resp.TotalSuggestions)
	require.Equal(t, "High", resp.Suggestions[0].Title)
	require.Equal(t, 365.00, resp.Suggestions[0].CalculatedPrice)
	require.Equal(t, "Low", resp.Suggestions[1].Title)
	require.Equal(t, 165.00, resp.Suggestions[1].CalculatedPrice)
	require.Equal(t, PriorityStandard, resp.Priority)
}

func TestWorkerQuotesCheapestFirst(t *testing.T) {
	cards := []pricing.RateCard{
		{ID: "pricey", HourlyRate: 120, CalloutFee: 80, MinimumCharge: 80, EmergencyUplift: 0.5},
		{ID: "cheap", HourlyRate: 60, CalloutFee: 30, MinimumCharge: 50, EmergencyUplift: 0.25},
		{ID: "middle", HourlyRate: 90, CalloutFee: 40, MinimumCharge: 60, EmergencyUplift: 0.5},
	}
	est := &stubEstimator{analysis: estimate.Analysis{Estimate: estimate.Estimate{Hours: 2, Complexity: estimate.ComplexityModerate}}}
	svc := newTestService(est, &stubRateCards{snapshot: pricing.Snapshot{Cards: cards}})

	resp, err := svc.WorkerQuotes(context.Background(), JobRequest{JobDescription: "Install an outdoor socket"})
	require.NoError(t, err)
	require.Equal(t, 3, resp.TotalWorkers)
	ids := []pricing.WorkerID{resp.WorkerQuotes[0].WorkerID, resp.WorkerQuotes[1].WorkerID, resp.WorkerQuotes[2].WorkerID}
	require.Equal(t, []pricing.WorkerID{"cheap", "middle", "pricey"}, ids)
	for i := 1; i < len(resp.WorkerQuotes); i++ {
		require.LessOrEqual(t, resp.WorkerQuotes[i-1].Breakdown.Total, resp.WorkerQuotes[i].Breakdown.Total)
	}
	require.Equal(t, 150.00, resp.WorkerQuotes[0].Breakdown.Total)
	require.Equal(t, 85.0, resp.WorkerQuotes[0].MatchScore)
}

func TestWorkerQuotesNoProviders(t *testing.T) {
	est := &stubEstimator{analysis: estimate.Analysis{Estimate: estimate.Estimate{Hours: 2}}}
	svc := newTestService(est, &stubRateCards{err: pricing.ErrNoProviders})

	_, err := svc.WorkerQuotes(context.Background(), JobRequest{JobDescription: "Install an outdoor socket"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNoProviders))
	require.ErrorIs(t, err, pricing.ErrNoProviders)
}

func TestWorkerQuotesDegradedSources(t *testing.T) {
	est := &stubEstimator{analysis: estimate.Analysis{
		Estimate: estimate.FallbackEstimate("Install an outdoor socket"),
		Degraded: true,
		Reason:   estimate.ReasonModelUnavailable,
	}}
	cards := &stubRateCards{snapshot: pricing.Snapshot{
		Cards:    []pricing.RateCard{houseCard},
		Degraded: true,
		Reason:   pricing.ReasonSourceUnavailable,
	}}
	svc := newTestService(est, cards)

	resp, err := svc.WorkerQuotes(context.Background(), JobRequest{JobDescription: "Install an outdoor socket"})
	require.NoError(t, err)
	require.True(t, resp.Degraded)
	require.Equal(t, []string{estimate.ReasonModelUnavailable, pricing.ReasonSourceUnavailable}, resp.DegradedReasons)
	require.Equal(t, pricing.DefaultWorkerID, resp.WorkerQuotes[0].WorkerID)
}

func TestWorkerQuotesSurfacesContractViolation(t *testing.T) {
	est := &stubEstimator{analysis: estimate.Analysis{Estimate: estimate.Estimate{Hours: 2}}}
	cards := &stubRateCards{snapshot: pricing.Snapshot{Cards: []pricing.RateCard{{ID: "bad", HourlyRate: -1}}}}
	svc := newTestService(est, cards)

	_, err := svc.WorkerQuotes(context.Background(), JobRequest{JobDescription: "Install an outdoor socket"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInternal))
}

func TestWorkerQuoteByEmail(t *testing.T) {
	cards := &stubRateCards{snapshot: pricing.Snapshot{Cards: []pricing.RateCard{
		{ID: "w1", Email: "amp@example.com", HourlyRate: 80, CalloutFee: 40, MinimumCharge: 60},
	}}}
	est := &stubEstimator{analysis: estimate.Analysis{Estimate: estimate.Estimate{Hours: 1.5, Complexity: estimate.ComplexitySimple}}}
	svc := newTestService(est, cards)

	resp, err := svc.WorkerQuote(context.Background(), "AMP@example.com", JobRequest{JobDescription: "Swap a light switch"})
	require.NoError(t, err)
	require.Equal(t, pricing.WorkerID("w1"), resp.Quote.WorkerID)
	require.Equal(t, 160.00, resp.Quote.Breakdown.Total)
	require.Equal(t, "£160.00", resp.PriceSummary.Total)

	_, err = svc.WorkerQuote(context.Background(), "w2", JobRequest{JobDescription: "Swap a light switch"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeWorkerNotFound))

	_, err = svc.WorkerQuote(context.Background(), "  ", JobRequest{JobDescription: "Swap a light switch"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestWorkerQuoteSourceError(t *testing.T) {
	est := &stubEstimator{analysis: estimate.Analysis{Estimate: estimate.Estimate{Hours: 1}}}
	svc := newTestService(est, &stubRateCards{err: errors.New("boom")})

	_, err := svc.WorkerQuote(context.Background(), "w1", JobRequest{JobDescription: "Swap a light switch"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInternal))
}

func TestPricingInfo(t *testing.T) {
	svc := newTestService(&stubEstimator{}, &stubRateCards{})
	require.Equal(t, 50.0, svc.PricingInfo().EmergencyUpliftPercent)
}
