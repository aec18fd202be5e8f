package pricing

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/yanqian/wirequote/pkg/metrics"
)

// Identity of the built-in card used when the rate-card source is unavailable.
const (
	DefaultWorkerID          WorkerID = "default-001"
	DefaultWorkerName                 = "Default Electrician"
	DefaultWorkerEmail                = "default@wirequote.com"
	DefaultWorkerLocation             = "London"
	DefaultWorkerDescription          = "Experienced electrician available for all types of electrical work"
)

// Reasons attached to degraded snapshots.
const (
	ReasonSourceDisabled    = "rate card source not configured"
	ReasonSourceUnavailable = "rate card source unavailable"
)

var (
	// ErrNoProviders means the source answered but no worker is active.
	ErrNoProviders = errors.New("no active providers")
	// ErrWorkerNotFound means no loaded card matches the requested worker.
	ErrWorkerNotFound = errors.New("worker not found")
)

// RateCardSource returns the active rate cards. Implementations exclude inactive
// workers and clamp out-of-range values before returning.
type RateCardSource interface {
	FetchRateCards(ctx context.Context) ([]RateCard, error)
}

// Snapshot is the set of rate cards used for one request.
type Snapshot struct {
	Cards    []RateCard
	Degraded bool
	Reason   string
}

// Find returns the card whose id matches ref, or whose email matches ref case-insensitively.
func (s Snapshot) Find(ref string) (RateCard, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return RateCard{}, false
	}
	for _, card := range s.Cards {
		if string(card.ID) == ref || strings.EqualFold(card.Email, ref) {
			return card, true
		}
	}
	return RateCard{}, false
}

// Registry loads rate cards from a source and substitutes the default card on failure.
type Registry struct {
	cfg      Config
	source   RateCardSource
	recorder *metrics.Recorder
	logger   *slog.Logger
}

// NewRegistry builds a registry. A nil source always yields the default card.
func NewRegistry(cfg Config, source RateCardSource, recorder *metrics.Recorder, logger *slog.Logger) *Registry {
	return &Registry{
		cfg:      cfg,
		source:   source,
		recorder: recorder,
		logger:   logger.With("component", "pricing.registry"),
	}
}

// Default returns the house rate card. Its minimum charge is the call-out fee.
func (r *Registry) Default() RateCard {
	return RateCard{
		ID:              DefaultWorkerID,
		Name:            DefaultWorkerName,
		Email:           DefaultWorkerEmail,
		Location:        DefaultWorkerLocation,
		Description:     DefaultWorkerDescription,
		HourlyRate:      r.cfg.BaseHourlyRate,
		CalloutFee:      r.cfg.CalloutFee,
		MinimumCharge:   r.cfg.CalloutFee,
		EmergencyUplift: r.cfg.EmergencyUplift,
	}
}

// Info reports the house rates.
func (r *Registry) Info() Info {
	return Info{
		BaseHourlyRate:         r.cfg.BaseHourlyRate,
		CalloutFee:             r.cfg.CalloutFee,
		MinimumCharge:          r.cfg.MinimumCharge,
		EmergencyUpliftPercent: upliftPercent(r.cfg.EmergencyUplift),
		Currency:               r.cfg.Currency,
	}
}

// Load fetches the active cards within the configured timeout. Any source error
// degrades to exactly one default card; an empty active list is ErrNoProviders.
func (r *Registry) Load(ctx context.Context) (Snapshot, error) {
	if r.source == nil {
		return r.degraded(ReasonSourceDisabled, nil), nil
	}
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	cards, err := r.source.FetchRateCards(ctx)
	if err != nil {
		return r.degraded(ReasonSourceUnavailable, err), nil
	}
	if len(cards) == 0 {
		r.logger.Warn("rate card source returned no active workers")
		return Snapshot{}, ErrNoProviders
	}
	r.logger.Debug("rate cards loaded", "count", len(cards))
	return Snapshot{Cards: cards}, nil
}

// Find loads the cards and returns the one matching ref by id or email.
func (r *Registry) Find(ctx context.Context, ref string) (RateCard, Snapshot, error) {
	snapshot, err := r.Load(ctx)
	if err != nil {
		return RateCard{}, snapshot, err
	}
	card, ok := snapshot.Find(ref)
	if !ok {
		return RateCard{}, snapshot, ErrWorkerNotFound
	}
	return card, snapshot, nil
}

func (r *Registry) degraded(reason string, err error) Snapshot {
	r.logger.Warn("rate card fallback used", "reason", reason, "error", err)
	r.recorder.Fallback("rate_cards")
	return Snapshot{
		Cards:    []RateCard{r.Default()},
		Degraded: true,
		Reason:   reason,
	}
}
