package pricing

import (
	"fmt"
	"math"

	"github.com/yanqian/wirequote/internal/domain/estimate"
)

// defaultMatchScore is reported for every worker quote.
// TODO: derive the score from worker fit once rate-card sources expose skills and coverage areas.
const defaultMatchScore = 85.0

// Calculate prices an estimate against a rate card. It is pure; negative or
// non-finite inputs and uplift fractions outside [0,1] are programming errors and panic.
func Calculate(est estimate.Estimate, card RateCard, emergency bool) QuoteBreakdown {
	mustNonNegative("hours", est.Hours)
	mustNonNegative("hourly rate", card.HourlyRate)
	mustNonNegative("call-out fee", card.CalloutFee)
	mustNonNegative("minimum charge", card.MinimumCharge)
	mustNonNegative("emergency uplift", card.EmergencyUplift)
	if card.EmergencyUplift > 1 {
		panic(fmt.Sprintf("pricing: emergency uplift %v exceeds 1", card.EmergencyUplift))
	}

	labour := est.Hours * card.HourlyRate
	subtotal := card.CalloutFee + labour

	var uplift *float64
	if emergency {
		amount := labour * card.EmergencyUplift
		subtotal += amount
		rounded := roundMoney(amount)
		uplift = &rounded
	}

	total := math.Max(subtotal, card.MinimumCharge)
	return QuoteBreakdown{
		HourlyRate:           roundMoney(card.HourlyRate),
		CalloutFee:           roundMoney(card.CalloutFee),
		EstimatedHours:       math.Round(est.Hours*10) / 10,
		LabourCost:           roundMoney(labour),
		EmergencyUplift:      uplift,
		TotalBeforeMinimum:   roundMoney(subtotal),
		Total:                roundMoney(total),
		MinimumChargeApplied: subtotal < card.MinimumCharge,
	}
}

// QuoteWorker prices an estimate for one worker.
func QuoteWorker(est estimate.Estimate, card RateCard, emergency bool) WorkerQuote {
	return WorkerQuote{
		WorkerID:           card.ID,
		WorkerName:         card.Name,
		WorkerEmail:        card.Email,
		WorkerLocation:     card.Location,
		WorkerDescription:  card.Description,
		Breakdown:          Calculate(est, card, emergency),
		Complexity:         est.Complexity,
		MatchScore:         defaultMatchScore,
		RecommendedActions: est.RecommendedActions,
	}
}

func mustNonNegative(field string, v float64) {
	if !(v >= 0) || math.IsInf(v, 1) {
		panic(fmt.Sprintf("pricing: %s must be a non-negative finite number, got %v", field, v))
	}
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
