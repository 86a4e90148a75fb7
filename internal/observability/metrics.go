// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ledger write path
	BatchesSaved       *prometheus.CounterVec
	BatchConflicts     prometheus.Counter
	ValidationFailures prometheus.Counter
	JournalsWritten    prometheus.Counter
	TradesWritten      prometheus.Counter
	NTUnitsDeleted     prometheus.Counter
	SaveDuration       prometheus.Histogram

	// Analytics read path
	AggregationDuration *prometheus.HistogramVec
	AggregationErrors   *prometheus.CounterVec

	// Database metrics
	DBQueryErrors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "tradejournal"
	}

	return &Metrics{
		BatchesSaved: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "batches_saved_total",
			Help:      "Total number of write batches committed, by batch kind",
		}, []string{"kind"}),
		BatchConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "batch_conflicts_total",
			Help:      "Total number of batches rejected by the NT/Trade conflict guard",
		}),
		ValidationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "validation_failures_total",
			Help:      "Total number of batches rejected before any store access",
		}),
		JournalsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "journals_written_total",
			Help:      "Total number of journal rows upserted",
		}),
		TradesWritten: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "trades_written_total",
			Help:      "Total number of trade rows inserted, NT markers included",
		}),
		NTUnitsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "nt_units_deleted_total",
			Help:      "Total number of NT unit deletions that removed at least one row",
		}),
		SaveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "save_duration_seconds",
			Help:      "Batch save duration in seconds, transaction included",
			Buckets:   prometheus.DefBuckets,
		}),

		AggregationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "aggregation_duration_seconds",
			Help:      "Read-side aggregation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"view"}),
		AggregationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "aggregation_errors_total",
			Help:      "Total number of failed aggregation requests by view",
		}, []string{"view"}),

		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
