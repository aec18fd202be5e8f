package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/wirequote/internal/domain/estimate"
)

var houseCard = RateCard{
	ID:              DefaultWorkerID,
	HourlyRate:      100,
	CalloutFee:      65,
	MinimumCharge:   65,
	EmergencyUplift: 0.5,
}

func TestCalculateStandardJob(t *testing.T) {
	got := Calculate(estimate.Estimate{Hours: 2.0}, houseCard, false)
	require.Equal(t, 200.00, got.LabourCost)
	require.Equal(t, 265.00, got.TotalBeforeMinimum)
	require.Equal(t, 265.00, got.Total)
	require.Nil(t, got.EmergencyUplift)
	require.False(t, got.MinimumChargeApplied)
}

func TestCalculateEmergencyJob(t *testing.T) {
	got := Calculate(estimate.Estimate{Hours: 2.0}, houseCard, true)
	require.NotNil(t, got.EmergencyUplift)
	require.Equal(t, 100.00, *got.EmergencyUplift)
	require.Equal(t, 365.00, got.Total)
}

func TestCalculateAppliesMinimumCharge(t *testing.T) {
	est, err := estimate.NormalizeEstimate(`{"estimated_hours":0.3}`)
	require.NoError(t, err)
	require.Equal(t, 0.5, est.Hours)

	card := RateCard{HourlyRate: 65, CalloutFee: 10, MinimumCharge: 65}
	got := Calculate(est, card, false)
	require.Equal(t, 32.50, got.LabourCost)
	require.Equal(t, 42.50, got.TotalBeforeMinimum)
	require.Equal(t, 65.00, got.Total)
	require.True(t, got.MinimumChargeApplied)
}

func TestCalculateUpliftPresentOnlyForEmergency(t *testing.T) {
	zeroUplift := houseCard
	zeroUplift.EmergencyUplift = 0

	got := Calculate(estimate.Estimate{Hours: 1}, zeroUplift, true)
	require.NotNil(t, got.EmergencyUplift)
	require.Equal(t, 0.0, *got.EmergencyUplift)

	got = Calculate(estimate.Estimate{Hours: 1}, houseCard, false)
	require.Nil(t, got.EmergencyUplift)
}

func TestCalculateIsPure(t *testing.T) {
	est := estimate.Estimate{Hours: 3.7}
	card := RateCard{HourlyRate: 72.35, CalloutFee: 49.99, MinimumCharge: 80, EmergencyUplift: 0.35}
	first := Calculate(est, card, true)
	second := Calculate(est, card, true)
	require.Equal(t, first, second)
	require.GreaterOrEqual(t, first.Total, card.MinimumCharge)
}

func TestCalculateTotalNeverBelowMinimum(t *testing.T) {
	for _, hours := range []float64{0.5, 1, 2.5, 10, 100} {
		for _, card := range []RateCard{
			{HourlyRate: 0, CalloutFee: 0, MinimumCharge: 90},
			{HourlyRate: 45, CalloutFee: 20, MinimumCharge: 120, EmergencyUplift: 1},
			houseCard,
		} {
			for _, emergency := range []bool{false, true} {
				got := Calculate(estimate.Estimate{Hours: hours}, card, emergency)
				require.GreaterOrEqual(t, got.Total, card.MinimumCharge)
				require.Equal(t, emergency, got.EmergencyUplift != nil)
			}
		}
	}
}

func TestCalculatePanicsOnContractViolation(t *testing.T) {
	require.Panics(t, func() { Calculate(estimate.Estimate{Hours: -1}, houseCard, false) })
	require.Panics(t, func() {
		Calculate(estimate.Estimate{Hours: 1}, RateCard{HourlyRate: -5}, false)
	})
	require.Panics(t, func() {
		Calculate(estimate.Estimate{Hours: 1}, RateCard{HourlyRate: 5, EmergencyUplift: 1.5}, true)
	})
}

func TestRankQuotesCheapestFirstStable(t *testing.T) {
	quotes := []WorkerQuote{
		{WorkerID: "a", Breakdown: QuoteBreakdown{Total: 300}},
		{WorkerID: "b", Breakdown: QuoteBreakdown{Total: 150}},
		{WorkerID: "c", Breakdown: QuoteBreakdown{Total: 300}},
		{WorkerID: "d", Breakdown: QuoteBreakdown{Total: 150}},
	}
	ranked := RankQuotes(quotes)
	ids := make([]WorkerID, 0, len(ranked))
	for _, q := range ranked {
		ids = append(ids, q.WorkerID)
	}
	require.Equal(t, []WorkerID{"b", "d", "a", "c"}, ids)
	require.Equal(t, WorkerID("a"), quotes[0].WorkerID)
}

func TestQuoteWorkerCarriesIdentity(t *testing.T) {
	card := houseCard
	card.Name = "Sparks Ltd"
	est := estimate.Estimate{Hours: 2, Complexity: estimate.ComplexitySimple, RecommendedActions: []string{"Test"}}

	got := QuoteWorker(est, card, false)
	require.Equal(t, "Sparks Ltd", got.WorkerName)
	require.Equal(t, defaultMatchScore, got.MatchScore)
	require.Equal(t, estimate.ComplexitySimple, got.Complexity)
	require.Equal(t, 265.00, got.Breakdown.Total)
}

func TestSummarize(t *testing.T) {
	got := Summarize(Calculate(estimate.Estimate{Hours: 2}, houseCard, true), houseCard)
	require.Equal(t, "£65.00", got.CalloutFee)
	require.Equal(t, "£200.00 (2.0h × £100.00)", got.Labour)
	require.Equal(t, "£100.00 (50% uplift)", got.EmergencyUplift)
	require.Equal(t, "£365.00", got.Total)
	require.Empty(t, got.MinimumCharge)

	small := RateCard{HourlyRate: 65, CalloutFee: 10, MinimumCharge: 65}
	got = Summarize(Calculate(estimate.Estimate{Hours: 0.5}, small, false), small)
	require.Empty(t, got.EmergencyUplift)
	require.Equal(t, "£65.00 minimum charge applied", got.MinimumCharge)
}
