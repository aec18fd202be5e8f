package ratecard

import (
	"math"
	"strings"

	"github.com/yanqian/wirequote/internal/domain/pricing"
)

// Defaults for fields a worker record leaves out.
const (
	defaultHourlyRate      = 100.0
	defaultCalloutFee      = 65.0
	defaultMinimumCharge   = 65.0
	defaultUpliftPercent   = 50.0
	defaultWorkerName      = "Unknown Worker"
	maxEmergencyUpliftPerc = 100.0
)

// record is a worker as stored upstream. Emergency uplift is a percentage.
type record struct {
	ElectricianID   pricing.WorkerID `json:"electricianId"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Location        string           `json:"location"`
	Description     string           `json:"description"`
	HourlyRate      *float64         `json:"hourlyRate"`
	CallOutFee      *float64         `json:"callOutFee"`
	MinimumCharge   *float64         `json:"minimumCharge"`
	EmergencyUplift *float64         `json:"emergencyUplift"`
	IsActive        *bool            `json:"isActive"`
}

func (r record) active() bool {
	return r.IsActive != nil && *r.IsActive
}

// toRateCard applies defaults and clamps values so the card satisfies the calculator contract.
func (r record) toRateCard() pricing.RateCard {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = defaultWorkerName
	}
	uplift := clamp(valueOr(r.EmergencyUplift, defaultUpliftPercent), 0, maxEmergencyUpliftPerc) / 100
	return pricing.RateCard{
		ID:              r.ElectricianID,
		Name:            name,
		Email:           strings.TrimSpace(r.Email),
		Location:        strings.TrimSpace(r.Location),
		Description:     strings.TrimSpace(r.Description),
		HourlyRate:      money(r.HourlyRate, defaultHourlyRate),
		CalloutFee:      money(r.CallOutFee, defaultCalloutFee),
		MinimumCharge:   money(r.MinimumCharge, defaultMinimumCharge),
		EmergencyUplift: uplift,
	}
}

// activeCards keeps active records in their source order.
func activeCards(records []record) []pricing.RateCard {
	cards := make([]pricing.RateCard, 0, len(records))
	for _, rec := range records {
		if !rec.active() {
			continue
		}
		cards = append(cards, rec.toRateCard())
	}
	return cards
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return fallback
	}
	return *v
}

func money(v *float64, fallback float64) float64 {
	return math.Max(0, valueOr(v, fallback))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
