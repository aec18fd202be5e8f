package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/wirequote/internal/infra/config"
	"github.com/yanqian/wirequote/internal/infra/ratelimit"
	"github.com/yanqian/wirequote/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
// A nil limiter disables rate limiting.
func NewRouter(cfg *config.Config, handler *Handler, limiter ratelimit.Limiter, recorder *metrics.Recorder, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	logger = logger.With("component", "http.router")

	router := gin.New()
	router.Use(
		requestIDMiddleware(),
		gin.Recovery(),
		requestLogger(logger),
		metricsMiddleware(recorder),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
	)

	router.GET("/", handler.Root)
	router.GET("/health", handler.Health)
	if recorder != nil {
		router.GET("/metrics", gin.WrapH(recorder.Handler()))
	}

	api := router.Group("/api/v1")
	api.Use(rateLimitMiddleware(limiter, logger))
	{
		api.POST("/analyze-job", handler.AnalyzeJob)
		api.POST("/quick-estimate", handler.QuickEstimate)
		api.POST("/worker-quotes", handler.WorkerQuotes)
		api.POST("/workers/:id/quote", handler.WorkerQuote)
		api.GET("/pricing-info", handler.PricingInfo)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
