package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ChecksTotal     *prometheus.CounterVec
	ViolationsTotal *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reclaim_compliance_checks_total",
			Help: "Compliance checks by action and verdict",
		}, []string{"action", "verdict"}),
		ViolationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reclaim_compliance_violations_total",
			Help: "Violations raised by code",
		}, []string{"code"}),
	}
}

func (m *Metrics) ObserveCheck(action string, compliant bool) {
	verdict := "blocked"
	if compliant {
		verdict = "compliant"
	}
	m.ChecksTotal.WithLabelValues(action, verdict).Inc()
}

func (m *Metrics) ObserveViolation(code string) {
	m.ViolationsTotal.WithLabelValues(code).Inc()
}
