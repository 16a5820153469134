// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics defines the Prometheus collectors recorded by the
// pipeline and the HTTP surface.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "plagia"

var (
	stageBuckets      = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
	similarityBuckets = []float64{.05, .1, .2, .3, .4, .5, .6, .7, .8, .9, 1}
)

// Metrics holds the collectors on a private registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	StageDuration     *prometheus.HistogramVec
	StageErrors       *prometheus.CounterVec
	SearchAttempts    *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec
	Analyses          *prometheus.CounterVec
	Similarity        prometheus.Histogram
	RegistrationFails prometheus.Counter
	HTTPRequests      *prometheus.CounterVec
}

// New registers all collectors, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)

	m := &Metrics{
		registry: reg,
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   stageBuckets,
		}, []string{"stage"}),
		StageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Terminal pipeline errors by stage and kind.",
		}, []string{"stage", "kind"}),
		SearchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_attempts_total",
			Help:      "Bibliographic source calls by source, strategy and outcome.",
		}, []string{"source", "strategy", "outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Stage cache lookups by stage and result.",
		}, []string{"stage", "result"}),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed analyses by outcome.",
		}, []string{"outcome"}),
		Similarity: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reference_similarity",
			Help:      "Similarity of ranked references.",
			Buckets:   similarityBuckets,
		}),
		RegistrationFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registration_failures_total",
			Help:      "Verification codes that could not be registered.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.StageDuration, m.StageErrors, m.SearchAttempts, m.CacheLookups,
		m.Analyses, m.Similarity, m.RegistrationFails, m.HTTPRequests,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveStage records how long a stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// StageError counts a terminal error.
func (m *Metrics) StageError(stage, kind string) {
	if m == nil {
		return
	}
	m.StageErrors.WithLabelValues(stage, kind).Inc()
}

// SearchAttempt counts one source call. outcome is "hit", "empty" or
// "error".
func (m *Metrics) SearchAttempt(source, strategy, outcome string) {
	if m == nil {
		return
	}
	m.SearchAttempts.WithLabelValues(source, strategy, outcome).Inc()
}

// CacheLookup counts a stage cache hit or miss.
func (m *Metrics) CacheLookup(stage string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(stage, result).Inc()
}

// Analysis counts a finished analysis and the similarities it ranked.
func (m *Metrics) Analysis(outcome string, similarities ...float64) {
	if m == nil {
		return
	}
	m.Analyses.WithLabelValues(outcome).Inc()
	for _, s := range similarities {
		m.Similarity.Observe(s)
	}
}

// RegistrationFailed counts a registration failure.
func (m *Metrics) RegistrationFailed() {
	if m == nil {
		return
	}
	m.RegistrationFails.Inc()
}

// HTTPRequest counts a served request.
func (m *Metrics) HTTPRequest(method, route, status string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
}
