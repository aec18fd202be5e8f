package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yanqian/wirequote/internal/domain/estimate"
)

// WorkerID is the canonical worker identifier. Sources send it as a string,
// a number or a {"$oid": "..."} document.
type WorkerID string

// UnmarshalJSON accepts every identifier shape a source may emit.
func (id *WorkerID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*id = ""
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = WorkerID(strings.TrimSpace(s))
	case trimmed[0] == '{':
		var doc struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return err
		}
		*id = WorkerID(strings.TrimSpace(doc.OID))
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("unsupported worker id %s", string(trimmed))
		}
		*id = WorkerID(n.String())
	}
	return nil
}

func (id WorkerID) String() string {
	return string(id)
}

// RateCard holds one worker's pricing attributes. EmergencyUplift is a fraction in [0,1].
type RateCard struct {
	ID              WorkerID `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
	HourlyRate      float64  `json:"hourlyRate"`
	CalloutFee      float64  `json:"calloutFee"`
	MinimumCharge   float64  `json:"minimumCharge"`
	EmergencyUplift float64  `json:"emergencyUplift"`
}

// QuoteBreakdown is the itemized price of one estimate against one rate card.
// EmergencyUplift is nil unless the job was flagged as an emergency.
type QuoteBreakdown struct {
	HourlyRate           float64  `json:"hourlyRate"`
	CalloutFee           float64  `json:"calloutFee"`
	EstimatedHours       float64  `json:"estimatedHours"`
	LabourCost           float64  `json:"labourCost"`
	EmergencyUplift      *float64 `json:"emergencyUplift,omitempty"`
	TotalBeforeMinimum   float64  `json:"totalBeforeMinimum"`
	Total                float64  `json:"total"`
	MinimumChargeApplied bool     `json:"minimumChargeApplied"`
}

// WorkerQuote pairs a worker with the price they would charge.
type WorkerQuote struct {
	WorkerID           WorkerID            `json:"workerId"`
	WorkerName         string              `json:"workerName"`
	WorkerEmail        string              `json:"workerEmail"`
	WorkerLocation     string              `json:"workerLocation"`
	WorkerDescription  string              `json:"workerDescription"`
	Breakdown          QuoteBreakdown      `json:"breakdown"`
	Complexity         estimate.Complexity `json:"jobComplexity"`
	MatchScore         float64             `json:"matchScore"`
	RecommendedActions []string            `json:"recommendedActions"`
}

// Config carries the house rates used for the built-in default card.
type Config struct {
	BaseHourlyRate  float64
	CalloutFee      float64
	MinimumCharge   float64
	EmergencyUplift float64
	Currency        string
	Timeout         time.Duration
}

// Info is the public pricing sheet.
type Info struct {
	BaseHourlyRate         float64 `json:"baseHourlyRate"`
	CalloutFee             float64 `json:"calloutFee"`
	MinimumCharge          float64 `json:"minimumCharge"`
	EmergencyUpliftPercent float64 `json:"emergencyUpliftPercent"`
	Currency               string  `json:"currency"`
}
