package prober

import (
	"sync"

	"github.com/bitcoin-sv/handshake/peer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusProberRuns      prometheus.Counter
	prometheusProberOutcomes  *prometheus.CounterVec
	prometheusProberFailures  *prometheus.CounterVec
	prometheusProberDuration  *prometheus.HistogramVec
	prometheusProberInFlight  prometheus.Gauge
	prometheusProberLastTotal prometheus.Gauge

	// only init the metrics once
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusProberRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "handshake",
			Subsystem: "prober",
			Name:      "runs",
			Help:      "Number of probe runs started",
		},
	)
	prometheusProberOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "handshake",
			Subsystem: "prober",
			Name:      "outcomes",
			Help:      "Number of handshake attempts by outcome",
		},
		[]string{
			"outcome", // OK, PARTIALLY OK or FAILED
		},
	)
	prometheusProberFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "handshake",
			Subsystem: "prober",
			Name:      "failures",
			Help:      "Number of failed handshake attempts by cause",
		},
		[]string{
			"cause", // failure cause label
		},
	)
	prometheusProberDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "handshake",
			Subsystem: "prober",
			Name:      "attempt_duration_seconds",
			Help:      "Duration of a handshake attempt",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 13),
		},
		[]string{
			"outcome",
		},
	)
	prometheusProberInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "handshake",
			Subsystem: "prober",
			Name:      "in_flight",
			Help:      "Number of handshake attempts currently running",
		},
	)
	prometheusProberLastTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "handshake",
			Subsystem: "prober",
			Name:      "last_run_targets",
			Help:      "Number of distinct targets in the most recent run",
		},
	)
}

func observeOutcome(o *peer.Outcome) {
	prometheusProberOutcomes.WithLabelValues(o.Kind.String()).Inc()
	prometheusProberDuration.WithLabelValues(o.Kind.String()).Observe(o.Duration.Seconds())

	if o.Kind == peer.OutcomeFailed {
		prometheusProberFailures.WithLabelValues(o.Cause.String()).Inc()
	}
}
