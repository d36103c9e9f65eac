package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AttemptsTotal    *prometheus.CounterVec
	SkippedOpenTotal *prometheus.CounterVec
	CascadeDuration  prometheus.Histogram
	EnrichmentScore  prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		AttemptsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reclaim_skiptrace_attempts_total",
			Help: "Skip-trace provider attempts by provider and outcome",
		}, []string{"provider", "outcome"}),
		SkippedOpenTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reclaim_skiptrace_skipped_open_total",
			Help: "Providers skipped because their circuit breaker was open",
		}, []string{"provider"}),
		CascadeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "reclaim_skiptrace_cascade_duration_seconds",
			Help:    "Wall time of one full cascade invocation",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 40, 60, 90},
		}),
		EnrichmentScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "reclaim_skiptrace_enrichment_score",
			Help:    "Completeness score of successful enrichments",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		}),
	}
}

func (m *Metrics) ObserveAttempt(provider string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.AttemptsTotal.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) ObserveSkippedOpen(provider string) {
	m.SkippedOpenTotal.WithLabelValues(provider).Inc()
}

func (m *Metrics) ObserveCascade(d time.Duration) {
	m.CascadeDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveScore(score float64) {
	m.EnrichmentScore.Observe(score)
}
