package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/wirequote/internal/domain/estimate"
	"github.com/yanqian/wirequote/internal/domain/pricing"
	"github.com/yanqian/wirequote/internal/domain/quote"
	"github.com/yanqian/wirequote/internal/infra/config"
	"github.com/yanqian/wirequote/internal/infra/llm/chatgpt"
	"github.com/yanqian/wirequote/internal/infra/ratecard"
	"github.com/yanqian/wirequote/internal/infra/ratelimit"
)

func provideEstimatorConfig(cfg *config.Config) estimate.Config {
	return estimate.Config{
		Model:             cfg.LLM.Model,
		Timeout:           cfg.LLM.Timeout,
		SinglePrompt:      cfg.Estimator.SinglePrompt,
		MultiPrompt:       cfg.Estimator.MultiPrompt,
		SingleTemperature: cfg.Estimator.SingleTemperature,
		MultiTemperature:  cfg.Estimator.MultiTemperature,
		SingleMaxTokens:   cfg.Estimator.SingleMaxTokens,
		MultiMaxTokens:    cfg.Estimator.MultiMaxTokens,
	}
}

func providePricingConfig(cfg *config.Config) pricing.Config {
	return pricing.Config{
		BaseHourlyRate:  cfg.Pricing.BaseHourlyRate,
		CalloutFee:      cfg.Pricing.CalloutFee,
		MinimumCharge:   cfg.Pricing.MinimumCharge,
		EmergencyUplift: cfg.Pricing.EmergencyUplift,
		Currency:        cfg.Pricing.Currency,
		Timeout:         cfg.RateCards.Timeout,
	}
}

func provideQuoteConfig(cfg *config.Config) quote.Config {
	return quote.Config{
		Currency:    cfg.Pricing.Currency,
		Concurrency: cfg.RateCards.Concurrency,
	}
}

// provideChatClient returns a nil interface when no API key is configured so the
// estimator runs on the keyword fallback alone.
func provideChatClient(cfg *config.Config, logger *slog.Logger) (estimate.ChatClient, error) {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Warn("llm api key not set, estimates will use the keyword fallback")
		return nil, nil
	}
	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func provideRateCardSource(cfg *config.Config, logger *slog.Logger) pricing.RateCardSource {
	if cfg.RateCards.Source == config.SourcePostgres {
		if source := providePostgresSource(cfg.RateCards.Postgres, logger); source != nil {
			return source
		}
	}
	if strings.TrimSpace(cfg.RateCards.APIURL) == "" {
		logger.Warn("rate card api url not set, quoting with the default rate card")
		return nil
	}
	logger.Info("rate card http source enabled", "url", cfg.RateCards.APIURL)
	return ratecard.NewHTTPSource(cfg.RateCards.APIURL, cfg.RateCards.Timeout, logger)
}

func providePostgresSource(cfg config.PostgresConfig, logger *slog.Logger) *ratecard.PostgresSource {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		logger.Info("rate card postgres dsn not set, using http source")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using http source", "error", err)
		return nil
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using http source", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using http source", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("rate card postgres source enabled")
	return ratecard.NewPostgresSource(pool)
}

// provideLimiter returns nil when rate limiting is disabled.
func provideLimiter(cfg *config.Config, logger *slog.Logger) ratelimit.Limiter {
	rl := cfg.HTTP.RateLimit
	if !rl.Enabled {
		return nil
	}
	limits := ratelimit.Config{RequestsPerMinute: rl.RequestsPerMinute, Burst: rl.Burst}
	if rl.Valkey.Enabled {
		opt, err := buildValkeyOptions(rl.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory limiter", "error", err)
			return ratelimit.NewMemoryLimiter(limits)
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory limiter", "error", err)
			return ratelimit.NewMemoryLimiter(limits)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory limiter", "error", err)
			client.Close()
		} else {
			logger.Info("valkey rate limiter enabled", "addr", rl.Valkey.Addr)
			return ratelimit.NewValkeyLimiter(client, rl.Valkey.Prefix, limits)
		}
	}
	return ratelimit.NewMemoryLimiter(limits)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
