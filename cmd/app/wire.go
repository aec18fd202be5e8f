//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/wirequote/internal/bootstrap"
	"github.com/yanqian/wirequote/internal/domain/estimate"
	"github.com/yanqian/wirequote/internal/domain/pricing"
	"github.com/yanqian/wirequote/internal/domain/quote"
	"github.com/yanqian/wirequote/internal/infra/config"
	httpiface "github.com/yanqian/wirequote/internal/interface/http"
	"github.com/yanqian/wirequote/pkg/logger"
	"github.com/yanqian/wirequote/pkg/metrics"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.NewRecorder,
		provideEstimatorConfig,
		providePricingConfig,
		provideQuoteConfig,
		provideChatClient,
		provideRateCardSource,
		provideLimiter,
		estimate.NewService,
		pricing.NewRegistry,
		quote.NewService,
		wire.Bind(new(quote.RateCards), new(*pricing.Registry)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
