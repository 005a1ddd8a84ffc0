// Package metrics counts relay outcomes for the demo server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the relay collectors and the registry they live in.
type Metrics struct {
	registry  *prometheus.Registry
	redirects *prometheus.CounterVec
	loads     *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// New creates and registers the relay collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		redirects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boomerang_redirects_total",
				Help: "Objects stored for redirect, by outcome.",
			},
			[]string{"outcome"},
		),
		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boomerang_loads_total",
				Help: "Redirect state loads, by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "boomerang_operation_duration_seconds",
				Help:    "Time spent in relay operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
	m.registry.MustRegister(m.redirects, m.loads, m.duration)
	return m
}

// ObserveRedirect records one Redirect call.
func (m *Metrics) ObserveRedirect(d time.Duration, err error) {
	m.redirects.WithLabelValues(outcome(err)).Inc()
	m.duration.WithLabelValues("redirect").Observe(d.Seconds())
}

// ObserveLoad records one Load call.
func (m *Metrics) ObserveLoad(d time.Duration, err error) {
	m.loads.WithLabelValues(outcome(err)).Inc()
	m.duration.WithLabelValues("load").Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
