package pricing

import (
	"fmt"
	"math"
	"strconv"
)

// PriceSummary is the human readable rendering of a QuoteBreakdown.
type PriceSummary struct {
	CalloutFee      string `json:"calloutFee"`
	Labour          string `json:"labour"`
	EmergencyUplift string `json:"emergencyUplift,omitempty"`
	MinimumCharge   string `json:"minimumCharge,omitempty"`
	Total           string `json:"total"`
}

// FormatCurrency renders an amount in pounds with two decimals. GBP is the only configurable currency.
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("£%.2f", amount)
}

// Summarize renders a breakdown priced with card.
func Summarize(b QuoteBreakdown, card RateCard) PriceSummary {
	summary := PriceSummary{
		CalloutFee: FormatCurrency(b.CalloutFee),
		Labour:     fmt.Sprintf("%s (%.1fh × %s)", FormatCurrency(b.LabourCost), b.EstimatedHours, FormatCurrency(b.HourlyRate)),
		Total:      FormatCurrency(b.Total),
	}
	if b.EmergencyUplift != nil {
		summary.EmergencyUplift = fmt.Sprintf("%s (%s%% uplift)", FormatCurrency(*b.EmergencyUplift),
			strconv.FormatFloat(upliftPercent(card.EmergencyUplift), 'f', -1, 64))
	}
	if b.MinimumChargeApplied {
		summary.MinimumCharge = fmt.Sprintf("%s minimum charge applied", FormatCurrency(b.Total))
	}
	return summary
}

func upliftPercent(fraction float64) float64 {
	return math.Round(fraction*100*100) / 100
}
