// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the distributor.
type Metrics struct {
	// Cycle metrics
	CyclesTotal   prometheus.Counter
	CyclesFailed  *prometheus.CounterVec
	CycleDuration prometheus.Histogram
	LastCycleTime prometheus.Gauge

	// Holder metrics
	HoldersScanned  prometheus.Gauge
	EligibleHolders prometheus.Gauge
	SkippedRecords  prometheus.Gauge

	// Transfer metrics
	TransfersSent   prometheus.Counter
	TransfersFailed prometheus.Counter
	AmountAllocated prometheus.Counter
	AmountSent      prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "airdrop"
	}

	return &Metrics{
		CyclesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "cycles_total",
			Help:      "Total number of distribution cycles attempted",
		}),
		CyclesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "cycles_failed_total",
			Help:      "Total number of cycles that failed before execution",
		}, []string{"stage"}),
		CycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "cycle_duration_seconds",
			Help:      "Distribution cycle duration",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		LastCycleTime: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "last_cycle_timestamp_seconds",
			Help:      "Unix time of the last completed cycle",
		}),
		HoldersScanned: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "holders",
			Name:      "scanned",
			Help:      "Unique holders found by the last scan",
		}),
		EligibleHolders: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "holders",
			Name:      "eligible",
			Help:      "Holders eligible in the last cycle",
		}),
		SkippedRecords: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "holders",
			Name:      "skipped_records",
			Help:      "Malformed or zero-amount records skipped by the last scan",
		}),
		TransfersSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transfers",
			Name:      "sent_total",
			Help:      "Total number of successful transfers",
		}),
		TransfersFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transfers",
			Name:      "failed_total",
			Help:      "Total number of failed transfers",
		}),
		AmountAllocated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transfers",
			Name:      "amount_allocated_total",
			Help:      "Total amount allocated across cycles",
		}),
		AmountSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transfers",
			Name:      "amount_sent_total",
			Help:      "Total amount actually sent across cycles",
		}),
	}
}

// Handler returns the HTTP handler exposing the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
