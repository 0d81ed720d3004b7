// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// QueryDuration observes list/search queries by mode ("list" or "search").
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "idlehub",
		Name:      "query_duration_seconds",
		Help:      "Duration of idle resource queries.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"mode"})

	// ImportRows counts imported rows by outcome ("success" or "error").
	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "idlehub",
		Name:      "import_rows_total",
		Help:      "Rows processed by spreadsheet imports.",
	}, []string{"outcome"})

	// ImportsRejected counts imports aborted before any row was processed.
	ImportsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "idlehub",
		Name:      "imports_rejected_total",
		Help:      "Imports rejected for structural problems.",
	})

	// ExportRows counts exported rows by format ("xlsx" or "csv").
	ExportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "idlehub",
		Name:      "export_rows_total",
		Help:      "Rows written by exports.",
	}, []string{"format"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
