package admission

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus metrics for admission checks.
//
// A nil *Metrics is valid and records nothing, so library users who don't
// run Prometheus pay no cost.
type Metrics struct {
	checks        *prometheus.CounterVec
	denials       *prometheus.CounterVec
	trackedKeys   prometheus.Gauge
	checkDuration prometheus.Histogram
}

// NewMetrics creates a Metrics instance registered on the default Prometheus
// registry. Call it at most once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		checks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatewarden_admission_checks_total",
				Help: "Total number of admission checks performed",
			},
			[]string{"result"},
		),

		denials: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatewarden_admission_denials_total",
				Help: "Total number of denials by hierarchy level",
			},
			[]string{"level"},
		),

		trackedKeys: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "gatewarden_admission_tracked_keys",
				Help: "Number of live bucket keys in the registry",
			},
		),

		checkDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gatewarden_admission_check_duration_seconds",
				Help:    "Duration of admission checks in seconds",
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
		),
	}
}

// RecordCheck records one admission check outcome.
func (m *Metrics) RecordCheck(allowed bool) {
	if m == nil {
		return
	}
	result := "allowed"
	if !allowed {
		result = "denied"
	}
	m.checks.WithLabelValues(result).Inc()
}

// RecordDenial records a denial at the given hierarchy level.
func (m *Metrics) RecordDenial(level string) {
	if m == nil {
		return
	}
	m.denials.WithLabelValues(level).Inc()
}

// SetTrackedKeys updates the live key count gauge.
func (m *Metrics) SetTrackedKeys(n int) {
	if m == nil {
		return
	}
	m.trackedKeys.Set(float64(n))
}

// ObserveCheckDuration records how long one check took.
func (m *Metrics) ObserveCheckDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.checkDuration.Observe(d.Seconds())
}
