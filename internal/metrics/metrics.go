// Package metrics собирает Prometheus-метрики генерации постов.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"postgen/internal/llm"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "postgen"

// Исходы генерации.
const (
	OutcomeSucceeded          = "succeeded"
	OutcomeFailed             = "failed"
	OutcomeMissingCredential  = "missing_credential"
	OutcomeSuperseded         = "superseded"
	outcomeAttemptOK          = "ok"
	outcomeAttemptAPIError    = "api_error"
	outcomeAttemptEmpty       = "empty"
	outcomeAttemptNetworkFail = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	AttemptsTotal      *prometheus.CounterVec
	AttemptDuration    *prometheus.HistogramVec
	HTTPRequestsTotal  *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New регистрирует метрики в собственном реестре, чтобы тесты не делили глобальное состояние.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		GenerationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "total",
			Help:      "Total number of post generations by outcome",
		}, []string{"outcome"}),
		GenerationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "End-to-end generation duration in seconds",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 20, 30, 60},
		}),
		AttemptsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "completion",
			Name:      "attempts_total",
			Help:      "Completion attempts by transport tier and outcome",
		}, []string{"tier", "model", "outcome"}),
		AttemptDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "completion",
			Name:      "attempt_duration_seconds",
			Help:      "Completion attempt duration in seconds",
			Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"tier"}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"method", "path"}),
	}
}

// ObserveAttempt реализует llm.Observer.
func (m *Metrics) ObserveAttempt(a llm.Attempt) {
	m.AttemptsTotal.WithLabelValues(string(a.Tier), a.Model, attemptOutcome(a.Err)).Inc()
	m.AttemptDuration.WithLabelValues(string(a.Tier)).Observe(a.Duration.Seconds())
}

// ObserveGeneration фиксирует итог одной генерации.
func (m *Metrics) ObserveGeneration(outcome string, d time.Duration) {
	m.GenerationsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSucceeded || outcome == OutcomeFailed {
		m.GenerationDuration.Observe(d.Seconds())
	}
}

// ObserveHTTP фиксирует обработанный HTTP-запрос.
func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func attemptOutcome(err error) string {
	if err == nil {
		return outcomeAttemptOK
	}
	var apiErr *llm.APIError
	switch {
	case errors.As(err, &apiErr):
		return outcomeAttemptAPIError
	case errors.Is(err, llm.ErrEmptyResponse):
		return outcomeAttemptEmpty
	default:
		return outcomeAttemptNetworkFail
	}
}
