package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the service collectors and the registry they are exposed from.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry     *prometheus.Registry
	fallbacks    *prometheus.CounterVec
	quotes       *prometheus.CounterVec
	llmCalls     *prometheus.HistogramVec
	llmTokens    *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewRecorder registers every collector on a private registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wirequote_fallbacks_total",
			Help: "Number of times a deterministic substitute replaced an upstream result",
		}, []string{"source"}),
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wirequote_quotes_priced_total",
			Help: "Number of quote breakdowns produced",
		}, []string{"flow"}),
		llmCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wirequote_llm_call_duration_seconds",
			Help:    "Duration of language model calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"mode", "outcome"}),
		llmTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wirequote_llm_tokens_total",
			Help: "Tokens consumed by language model calls",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wirequote_http_requests_total",
			Help: "HTTP requests served",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wirequote_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.fallbacks,
		r.quotes,
		r.llmCalls,
		r.llmTokens,
		r.httpRequests,
		r.httpDuration,
	)
	return r
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Fallback counts a degraded result for the given upstream source.
func (r *Recorder) Fallback(source string) {
	if r == nil {
		return
	}
	r.fallbacks.WithLabelValues(source).Inc()
}

// QuotesPriced counts breakdowns produced by a quote flow.
func (r *Recorder) QuotesPriced(flow string, count int) {
	if r == nil || count <= 0 {
		return
	}
	r.quotes.WithLabelValues(flow).Add(float64(count))
}

// LLMCall records one model round trip and the tokens it consumed.
func (r *Recorder) LLMCall(mode, outcome string, elapsed time.Duration, usage TokenUsage) {
	if r == nil {
		return
	}
	r.llmCalls.WithLabelValues(mode, outcome).Observe(elapsed.Seconds())
	if usage.IsZero() {
		return
	}
	for kind, n := range usage.byKind() {
		r.llmTokens.WithLabelValues(kind).Add(float64(n))
	}
}

// HTTPRequest records a served request.
func (r *Recorder) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
