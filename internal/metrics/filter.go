package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Filter sources.
const (
	SourceAdhoc  = "adhoc"
	SourcePreset = "preset"
	SourceStream = "stream"
)

// Filter Prometheus metrics.
var (
	FilterRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_requests_total",
			Help:      "Total number of filter evaluations",
		},
		[]string{"source"},
	)

	FilterRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_records_total",
			Help:      "Records entering and leaving filters",
		},
		[]string{"stage"}, // "in" / "out"
	)

	FilterDiagnosticsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_diagnostics_total",
			Help:      "Unknown operators, unknown logic values or missing condition values met during evaluation",
		},
		[]string{"kind"}, // "operator" / "logic" / "value"
	)

	FilterDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_duration_seconds",
			Help:      "Filter evaluation duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"source"},
	)
)

var registerFilterOnce sync.Once

// RegisterFilterMetrics registers filter metrics on the default registry. Safe to call more than once.
func RegisterFilterMetrics() {
	registerFilterOnce.Do(func() {
		prometheus.MustRegister(FilterRequestsTotal)
		prometheus.MustRegister(FilterRecordsTotal)
		prometheus.MustRegister(FilterDiagnosticsTotal)
		prometheus.MustRegister(FilterDuration)
	})
}
