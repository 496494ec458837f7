package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification module.
type Metrics struct {
	// Verification outcomes by result bucket
	VerificationsTotal *prometheus.CounterVec

	// Distribution of the report's overall confidence
	OverallConfidence prometheus.Histogram

	// Full verification latency including persistence
	VerifyLatency prometheus.Histogram
}

// New creates a Metrics instance with all verification module metrics registered.
func New() *Metrics {
	return &Metrics{
		VerificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veridoc_verifications_total",
			Help: "Total verification runs by outcome",
		}, []string{"outcome"}), // outcome: "all_matched", "partial", "none_matched"

		OverallConfidence: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "veridoc_verification_overall_confidence",
			Help:    "Distribution of report overall confidence",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),

		VerifyLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "veridoc_verification_duration_seconds",
			Help:    "Duration of verification including report persistence",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1},
		}),
	}
}

// IncrementVerification records a completed verification run.
func (m *Metrics) IncrementVerification(outcome string) {
	if m != nil {
		m.VerificationsTotal.WithLabelValues(outcome).Inc()
	}
}

// ObserveOverallConfidence records a report's overall confidence.
func (m *Metrics) ObserveOverallConfidence(v float64) {
	if m != nil {
		m.OverallConfidence.Observe(v)
	}
}

// ObserveVerifyLatency records the total verification duration.
func (m *Metrics) ObserveVerifyLatency(d time.Duration) {
	if m != nil {
		m.VerifyLatency.Observe(d.Seconds())
	}
}
