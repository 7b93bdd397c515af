// Package metrics exposes Prometheus metrics for the tournament manager.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the tournament metrics and the registry they live on.
type Manager struct {
	namespace   string
	saveBuckets []float64
	registry    *prometheus.Registry

	roundsLaunched    prometheus.Counter
	pairingFailures   prometheus.Counter
	resultsRecorded   prometheus.Counter
	saves             *prometheus.CounterVec
	saveDuration      prometheus.Histogram
	registeredPlayers prometheus.Gauge
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:   "swiss",
		saveBuckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		registry:    prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)
	m.roundsLaunched = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "rounds_launched_total",
		Help:      "Rounds paired and started.",
	})
	m.pairingFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "pairing_failures_total",
		Help:      "Round launches rejected because the pairing pass failed.",
	})
	m.resultsRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "results_recorded_total",
		Help:      "Match scores recorded.",
	})
	m.saves = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "saves_total",
		Help:      "Saves to the document store by outcome.",
	}, []string{"outcome"})
	m.saveDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "save_duration_seconds",
		Help:      "Time spent writing the registry and tournaments.",
		Buckets:   m.saveBuckets,
	})
	m.registeredPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "registered_players",
		Help:      "Players in the registry.",
	})
	return m
}

func (m *Manager) RoundLaunched() {
	m.roundsLaunched.Inc()
}

func (m *Manager) PairingFailed() {
	m.pairingFailures.Inc()
}

func (m *Manager) ResultRecorded() {
	m.resultsRecorded.Inc()
}

// SaveCompleted records one save attempt, successful or not.
func (m *Manager) SaveCompleted(d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.saves.WithLabelValues(outcome).Inc()
	m.saveDuration.Observe(d.Seconds())
}

func (m *Manager) SetRegisteredPlayers(n int) {
	m.registeredPlayers.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
