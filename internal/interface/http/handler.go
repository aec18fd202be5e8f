package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/wirequote/internal/domain/quote"
	"github.com/yanqian/wirequote/internal/infra/config"
	apperrors "github.com/yanqian/wirequote/pkg/errors"
	"github.com/yanqian/wirequote/pkg/util"
)

// Handler wires the HTTP transport to the quoting service.
type Handler struct {
	app      config.AppConfig
	quoteSvc quote.Service
	logger   *slog.Logger
	now      util.Clock
}

// NewHandler constructs the root HTTP handler.
func NewHandler(cfg *config.Config, quoteSvc quote.Service, logger *slog.Logger) *Handler {
	return &Handler{
		app:      cfg.App,
		quoteSvc: quoteSvc,
		logger:   logger.With("component", "http.handler"),
		now:      util.NowUTC,
	}
}

// Root describes the service.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    h.app.Name,
		"version": h.app.Version,
		"status":  "running",
	})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": h.now(),
	})
}

// AnalyzeJob prices a single AI estimate against the house rate card.
func (h *Handler) AnalyzeJob(c *gin.Context) {
	req, ok := bindJobRequest(c)
	if !ok {
		return
	}
	resp, err := h.quoteSvc.Analyze(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, mapServiceError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// QuickEstimate returns several candidate interpretations of the job.
func (h *Handler) QuickEstimate(c *gin.Context) {
	req, ok := bindJobRequest(c)
	if !ok {
		return
	}
	resp, err := h.quoteSvc.QuickEstimate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, mapServiceError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// WorkerQuotes prices the job for every active worker, cheapest first.
func (h *Handler) WorkerQuotes(c *gin.Context) {
	req, ok := bindJobRequest(c)
	if !ok {
		return
	}
	resp, err := h.quoteSvc.WorkerQuotes(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, mapServiceError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// WorkerQuote prices the job for one worker addressed by id or email.
func (h *Handler) WorkerQuote(c *gin.Context) {
	req, ok := bindJobRequest(c)
	if !ok {
		return
	}
	resp, err := h.quoteSvc.WorkerQuote(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		abortWithError(c, mapServiceError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PricingInfo exposes the house rates.
func (h *Handler) PricingInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.quoteSvc.PricingInfo())
}

func bindJobRequest(c *gin.Context) (quote.JobRequest, bool) {
	var req quote.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return quote.JobRequest{}, false
	}
	return req, true
}

func mapServiceError(err error) *HTTPError {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidInput:
		return NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, errMessage(err), err)
	case apperrors.CodeWorkerNotFound:
		return NewHTTPError(http.StatusNotFound, apperrors.CodeWorkerNotFound, errMessage(err), err)
	case apperrors.CodeNoProviders:
		return NewHTTPError(http.StatusServiceUnavailable, apperrors.CodeNoProviders, "quoting is temporarily unavailable: "+errMessage(err), err)
	default:
		return NewHTTPError(http.StatusInternalServerError, apperrors.CodeInternal, "failed to produce quote", err)
	}
}

// errMessage prefers the domain message so wrapped causes stay in the logs.
func errMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && strings.TrimSpace(appErr.Message) != "" {
		return appErr.Message
	}
	return err.Error()
}
