// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. Each server owns its
// registry so tests can build independent instances.
type Metrics struct {
	registry *prometheus.Registry

	EventsCreated      prometheus.Counter
	ResponsesSubmitted prometheus.Counter
	VersionConflicts   prometheus.Counter
	SuggestionQueries  prometheus.Counter
	Finalizations      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.EventsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "slotpick",
		Name:      "events_created_total",
		Help:      "Number of events created",
	})
	m.ResponsesSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "slotpick",
		Name:      "responses_submitted_total",
		Help:      "Number of participant responses accepted",
	})
	m.VersionConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "slotpick",
		Name:      "version_conflict_retries_total",
		Help:      "Number of optimistic-concurrency retries during response merges",
	})
	m.SuggestionQueries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "slotpick",
		Name:      "suggestion_queries_total",
		Help:      "Number of suggestion aggregation requests",
	})
	m.Finalizations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "slotpick",
		Name:      "finalizations_total",
		Help:      "Number of finalization attempts by status",
	}, []string{"status"})

	m.registry.MustRegister(
		m.EventsCreated, m.ResponsesSubmitted,
		m.VersionConflicts, m.SuggestionQueries, m.Finalizations,
	)
	return m
}

// Handler serves the /metrics endpoint for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
