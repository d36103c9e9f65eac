package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SendsTotal     *prometheus.CounterVec
	CampaignsTotal prometheus.Counter
	OptOutsTotal   prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		SendsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reclaim_outreach_sends_total",
			Help: "Outreach attempts by channel and terminal status",
		}, []string{"channel", "status"}),
		CampaignsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reclaim_outreach_campaigns_total",
			Help: "Campaign runs started",
		}),
		OptOutsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reclaim_outreach_opt_outs_total",
			Help: "Opt-out requests honored",
		}),
	}
}

func (m *Metrics) ObserveSend(channel, status string) {
	m.SendsTotal.WithLabelValues(channel, status).Inc()
}

func (m *Metrics) ObserveCampaign() {
	m.CampaignsTotal.Inc()
}

func (m *Metrics) ObserveOptOut() {
	m.OptOutsTotal.Inc()
}
