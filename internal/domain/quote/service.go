package quote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yanqian/wirequote/internal/domain/estimate"
	"github.com/yanqian/wirequote/internal/domain/pricing"
	apperrors "github.com/yanqian/wirequote/pkg/errors"
	"github.com/yanqian/wirequote/pkg/metrics"
	"github.com/yanqian/wirequote/pkg/util"
)

const defaultConcurrency = 8

// Service exposes the quoting flows.
type Service interface {
	Analyze(ctx context.Context, req JobRequest) (AnalysisResponse, error)
	QuickEstimate(ctx context.Context, req JobRequest) (QuickEstimateResponse, error)
	WorkerQuotes(ctx context.Context, req JobRequest) (WorkerQuotesResponse, error)
	WorkerQuote(ctx context.Context, workerRef string, req JobRequest) (WorkerQuoteResponse, error)
	PricingInfo() pricing.Info
}

// RateCards is the registry behaviour the quoting flows depend on.
type RateCards interface {
	Load(ctx context.Context) (pricing.Snapshot, error)
	Find(ctx context.Context, ref string) (pricing.RateCard, pricing.Snapshot, error)
	Default() pricing.RateCard
	Info() pricing.Info
}

type service struct {
	cfg       Config
	estimator estimate.Service
	rateCards RateCards
	recorder  *metrics.Recorder
	logger    *slog.Logger
	now       util.Clock
	newID     func() string
}

// NewService wires the quoting flows.
func NewService(cfg Config, estimator estimate.Service, rateCards RateCards, recorder *metrics.Recorder, logger *slog.Logger) Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &service{
		cfg:       cfg,
		estimator: estimator,
		rateCards: rateCards,
		recorder:  recorder,
		logger:    logger.With("component", "quote.service"),
		now:       util.NowUTC,
		newID:     uuid.NewString,
	}
}

func (s *service) Analyze(ctx context.Context, req JobRequest) (AnalysisResponse, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return AnalysisResponse{}, err
	}

	analysis := s.estimator.Analyze(ctx, req.JobDescription, req.IsEmergency)
	card := s.rateCards.Default()
	breakdown, err := calculate(analysis.Estimate, card, req.IsEmergency)
	if err != nil {
		return AnalysisResponse{}, err
	}
	s.recorder.QuotesPriced("analyze", 1)

	resp := AnalysisResponse{
		QuoteID:            s.newID(),
		JobDescription:     req.JobDescription,
		EstimatedHours:     analysis.Estimate.Hours,
		CalculatedPrice:    breakdown.Total,
		Complexity:         analysis.Estimate.Complexity,
		Reasoning:          analysis.Estimate.Reasoning,
		RecommendedActions: analysis.Estimate.RecommendedActions,
		Priority:           priorityOf(req.IsEmergency),
		Status:             StatusPending,
		Currency:           s.cfg.Currency,
		Breakdown:          breakdown,
		PriceSummary:       pricing.Summarize(breakdown, card),
		CreatedAt:          s.now(),
	}
	resp.add(analysis.Degraded, analysis.Reason)
	s.logger.Info("job analyzed", "quoteId", resp.QuoteID, "hours", resp.EstimatedHours, "total", resp.CalculatedPrice, "degraded", resp.Degraded)
	return resp, nil
}

func (s *service) QuickEstimate(ctx context.Context, req JobRequest) (QuickEstimateResponse, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return QuickEstimateResponse{}, err
	}

	set := s.estimator.Suggest(ctx, req.JobDescription, req.IsEmergency)
	card := s.rateCards.Default()
	suggestions := make([]SuggestionQuote, 0, len(set.Suggestions))
	for _, suggestion := range estimate.RankSuggestions(set.Suggestions) {
		breakdown, err := calculate(suggestion.Estimate(), card, req.IsEmergency)
		if err != nil {
			return QuickEstimateResponse{}, err
		}
		suggestions = append(suggestions, SuggestionQuote{
			Suggestion:      suggestion,
			CalculatedPrice: breakdown.Total,
			Breakdown:       breakdown,
			PriceSummary:    pricing.Summarize(breakdown, card),
		})
	}
	s.recorder.QuotesPriced("quick_estimate", len(suggestions))

	resp := QuickEstimateResponse{
		QuoteID:             s.newID(),
		OriginalDescription: req.JobDescription,
		Priority:            priorityOf(req.IsEmergency),
		Currency:            s.cfg.Currency,
		Suggestions:         suggestions,
		TotalSuggestions:    len(suggestions),
		CreatedAt:           s.now(),
	}
	resp.add(set.Degraded, set.Reason)
	s.logger.Info("quick estimate produced", "quoteId", resp.QuoteID, "suggestions", resp.TotalSuggestions, "degraded", resp.Degraded)
	return resp, nil
}

func (s *service) WorkerQuotes(ctx context.Context, req JobRequest) (WorkerQuotesResponse, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return WorkerQuotesResponse{}, err
	}

	var (
		analysis estimate.Analysis
		snapshot pricing.Snapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		analysis = s.estimator.Analyze(gctx, req.JobDescription, req.IsEmergency)
		return nil
	})
	g.Go(func() error {
		var loadErr error
		snapshot, loadErr = s.rateCards.Load(gctx)
		return loadErr
	})
	if err := g.Wait(); err != nil {
		return WorkerQuotesResponse{}, mapRateCardError(err)
	}

	quotes, err := s.priceAll(ctx, analysis.Estimate, snapshot.Cards, req.IsEmergency)
	if err != nil {
		return WorkerQuotesResponse{}, err
	}
	s.recorder.QuotesPriced("worker_quotes", len(quotes))

	resp := WorkerQuotesResponse{
		QuoteID:             s.newID(),
		OriginalDescription: req.JobDescription,
		Priority:            priorityOf(req.IsEmergency),
		Currency:            s.cfg.Currency,
		EstimatedHours:      analysis.Estimate.Hours,
		Complexity:          analysis.Estimate.Complexity,
		Reasoning:           analysis.Estimate.Reasoning,
		WorkerQuotes:        quotes,
		TotalWorkers:        len(quotes),
		CreatedAt:           s.now(),
	}
	resp.add(analysis.Degraded, analysis.Reason)
	resp.add(snapshot.Degraded, snapshot.Reason)
	s.logger.Info("worker quotes produced", "quoteId", resp.QuoteID, "workers", resp.TotalWorkers, "degraded", resp.Degraded)
	return resp, nil
}

func (s *service) WorkerQuote(ctx context.Context, workerRef string, req JobRequest) (WorkerQuoteResponse, error) {
	workerRef = strings.TrimSpace(workerRef)
	if workerRef == "" {
		return WorkerQuoteResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "worker id is required", nil)
	}
	req, err := normalizeRequest(req)
	if err != nil {
		return WorkerQuoteResponse{}, err
	}

	var (
		analysis estimate.Analysis
		card     pricing.RateCard
		snapshot pricing.Snapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		analysis = s.estimator.Analyze(gctx, req.JobDescription, req.IsEmergency)
		return nil
	})
	g.Go(func() error {
		var findErr error
		card, snapshot, findErr = s.rateCards.Find(gctx, workerRef)
		return findErr
	})
	if err := g.Wait(); err != nil {
		return WorkerQuoteResponse{}, mapRateCardError(err)
	}

	quotes, err := s.priceAll(ctx, analysis.Estimate, []pricing.RateCard{card}, req.IsEmergency)
	if err != nil {
		return WorkerQuoteResponse{}, err
	}
	s.recorder.QuotesPriced("worker_quote", 1)

	resp := WorkerQuoteResponse{
		QuoteID:             s.newID(),
		OriginalDescription: req.JobDescription,
		Priority:            priorityOf(req.IsEmergency),
		Currency:            s.cfg.Currency,
		Reasoning:           analysis.Estimate.Reasoning,
		Quote:               quotes[0],
		PriceSummary:        pricing.Summarize(quotes[0].Breakdown, card),
		CreatedAt:           s.now(),
	}
	resp.add(analysis.Degraded, analysis.Reason)
	resp.add(snapshot.Degraded, snapshot.Reason)
	return resp, nil
}

func (s *service) PricingInfo() pricing.Info {
	return s.rateCards.Info()
}

// priceAll quotes every card in parallel and returns them cheapest first.
func (s *service) priceAll(ctx context.Context, est estimate.Estimate, cards []pricing.RateCard, emergency bool) ([]pricing.WorkerQuote, error) {
	quotes := make([]pricing.WorkerQuote, len(cards))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, card := range cards {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("price worker %s: %v", card.ID, r)
				}
			}()
			quotes[i] = pricing.QuoteWorker(est, card, emergency)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("worker pricing failed", "error", err)
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to price worker quotes", err)
	}
	return pricing.RankQuotes(quotes), nil
}

// calculate converts a calculator panic into an internal error.
func calculate(est estimate.Estimate, card pricing.RateCard, emergency bool) (breakdown pricing.QuoteBreakdown, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.Wrap(apperrors.CodeInternal, "failed to price quote", fmt.Errorf("%v", r))
		}
	}()
	return pricing.Calculate(est, card, emergency), nil
}

func mapRateCardError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrNoProviders):
		return apperrors.Wrap(apperrors.CodeNoProviders, "no electricians are currently available", err)
	case errors.Is(err, pricing.ErrWorkerNotFound):
		return apperrors.Wrap(apperrors.CodeWorkerNotFound, "worker not found", err)
	default:
		return apperrors.Wrap(apperrors.CodeInternal, "failed to load rate cards", err)
	}
}
