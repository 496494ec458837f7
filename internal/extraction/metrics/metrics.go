package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the extraction module.
type Metrics struct {
	// Completed extractions by document type and input source
	ExtractionsTotal *prometheus.CounterVec

	// Recognition latency per page
	RecognizeLatency prometheus.Histogram

	// Full extraction latency including recognition
	ExtractLatency prometheus.Histogram

	// Cache lookups by outcome
	CacheLookups *prometheus.CounterVec
}

// New creates a Metrics instance with all extraction module metrics registered.
func New() *Metrics {
	return &Metrics{
		ExtractionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veridoc_extractions_total",
			Help: "Total completed extractions by document type and source",
		}, []string{"doc_type", "source"}), // source: "text", "image"

		RecognizeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "veridoc_extraction_recognize_duration_seconds",
			Help:    "Duration of recognizing a single page image",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		ExtractLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "veridoc_extraction_duration_seconds",
			Help:    "Duration of full extraction including recognition",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),

		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veridoc_extraction_cache_lookups_total",
			Help: "Extraction cache lookups by outcome",
		}, []string{"outcome"}), // outcome: "hit", "miss", "error"
	}
}

// IncrementExtraction records a completed extraction.
func (m *Metrics) IncrementExtraction(docType, source string) {
	if m != nil {
		m.ExtractionsTotal.WithLabelValues(docType, source).Inc()
	}
}

// ObserveRecognizeLatency records the duration of one page recognition.
func (m *Metrics) ObserveRecognizeLatency(d time.Duration) {
	if m != nil {
		m.RecognizeLatency.Observe(d.Seconds())
	}
}

// ObserveExtractLatency records the total extraction duration.
func (m *Metrics) ObserveExtractLatency(d time.Duration) {
	if m != nil {
		m.ExtractLatency.Observe(d.Seconds())
	}
}

// IncrementCacheLookup records a cache lookup outcome.
func (m *Metrics) IncrementCacheLookup(outcome string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(outcome).Inc()
	}
}
