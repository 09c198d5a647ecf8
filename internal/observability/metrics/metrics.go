package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "furniture_charges_"

	resultSuccess = "success"
	resultError   = "error"
	resultEmpty   = "empty"
)

var (
	registerOnce sync.Once

	extractTotal   *prometheus.CounterVec
	extractLatency *prometheus.HistogramVec
	itemsExtracted *prometheus.CounterVec
	categoryTotal  *prometheus.CounterVec

	calculateTotal prometheus.Counter
	calculateRows  prometheus.Histogram

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	batchFilesTotal *prometheus.CounterVec
)

// Init registers metrics with the default registry. Safe to call more than once.
func Init() {
	InitWith(prometheus.DefaultRegisterer)
}

// InitWith registers metrics with reg. Only the first call has any effect.
func InitWith(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		extractTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "extract_total",
				Help: "Total document extractions by format and result",
			},
			[]string{"format", "result"},
		)
		extractLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "extract_latency_seconds",
				Help:    "Document extraction latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		)
		itemsExtracted = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "items_extracted_total",
				Help: "Total line items extracted by format",
			},
			[]string{"format"},
		)
		categoryTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "classified_items_total",
				Help: "Total classified items by rate category",
			},
			[]string{"category"},
		)

		calculateTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "calculate_total",
				Help: "Total charge calculations",
			},
		)
		calculateRows = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "calculate_rows",
				Help:    "Rows per charge calculation",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total result exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Result export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		)

		batchFilesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "batch_files_total",
				Help: "Total files processed by batch or watch mode, by status",
			},
			[]string{"status"},
		)

		reg.MustRegister(
			extractTotal,
			extractLatency,
			itemsExtracted,
			categoryTotal,
			calculateTotal,
			calculateRows,
			exportTotal,
			exportLatency,
			batchFilesTotal,
		)
	})
}

// ObserveExtract records one extraction pass.
func ObserveExtract(format, result string, items int, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if extractTotal != nil {
		extractTotal.WithLabelValues(format, result).Inc()
	}
	if extractLatency != nil {
		extractLatency.WithLabelValues(format).Observe(duration.Seconds())
	}
	if itemsExtracted != nil && items > 0 {
		itemsExtracted.WithLabelValues(format).Add(float64(items))
	}
}

// IncCategory counts one classified item.
func IncCategory(category string) {
	if categoryTotal != nil {
		categoryTotal.WithLabelValues(category).Inc()
	}
}

// ObserveCalculate records one calculation pass over rows.
func ObserveCalculate(rows int) {
	if calculateTotal != nil {
		calculateTotal.Inc()
	}
	if calculateRows != nil {
		calculateRows.Observe(float64(rows))
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format).Observe(duration.Seconds())
	}
}

// IncBatchFile counts one batch/watch file outcome.
func IncBatchFile(status string) {
	if status == "" {
		status = "unknown"
	}
	if batchFilesTotal != nil {
		batchFilesTotal.WithLabelValues(status).Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
	ResultEmpty   = resultEmpty
)
