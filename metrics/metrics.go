// Package metrics provides Prometheus instrumentation for the fetch
// pipeline. It is entirely optional — the Fetcher records nothing unless a
// Metrics value is wired in via the WithMetrics option.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request outcomes used as the value of the "outcome" label.
const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeError = "error"
)

// Metrics holds the collectors recorded by the fetch pipeline.
type Metrics struct {
	reg prometheus.Registerer

	requests      *prometheus.CounterVec
	fetchDuration prometheus.Histogram
}

// New creates and registers the pipeline collectors on reg. Pass
// prometheus.DefaultRegisterer for the process-wide registry.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		reg: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pagestash_requests_total",
			Help: "Fetch requests by outcome (hit, miss, error).",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pagestash_fetch_duration_seconds",
			Help:    "Duration of underlying page fetches on cache misses.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.fetchDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordRequest counts one fetch request with the given outcome.
func (m *Metrics) RecordRequest(outcome string) {
	m.requests.WithLabelValues(outcome).Inc()
}

// ObserveFetch records the duration of one underlying page fetch.
func (m *Metrics) ObserveFetch(d time.Duration) {
	m.fetchDuration.Observe(d.Seconds())
}

// Handler returns an http.Handler that serves Prometheus metrics from the
// default gatherer.
func Handler() http.Handler {
	return promhttp.Handler()
}
