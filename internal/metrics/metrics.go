package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the service-level prometheus collectors.
type Metrics struct {
	Registry *prometheus.Registry

	LoginAttempts     *prometheus.CounterVec
	ChallengesIssued  prometheus.Counter
	TxBuilds          *prometheus.CounterVec
	TxBuildDuration   prometheus.Histogram
	PayloadsPublished prometheus.Counter
	ResultsReported   prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crux_login_attempts_total",
			Help: "Login finalizations by outcome.",
		}, []string{"outcome"}),
		ChallengesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crux_challenges_issued_total",
			Help: "Login challenges issued.",
		}),
		TxBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crux_tx_builds_total",
			Help: "Transaction builds by outcome.",
		}, []string{"outcome"}),
		TxBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "crux_tx_build_duration_seconds",
			Help:    "Wall time of transaction builds including chain state fetches.",
			Buckets: prometheus.DefBuckets,
		}),
		PayloadsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crux_payloads_published_total",
			Help: "Reduced transactions published for remote signing.",
		}),
		ResultsReported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crux_signing_results_reported_total",
			Help: "Transaction ids reported back by remote signers.",
		}),
	}

	m.Registry.MustRegister(
		m.LoginAttempts,
		m.ChallengesIssued,
		m.TxBuilds,
		m.TxBuildDuration,
		m.PayloadsPublished,
		m.ResultsReported,
	)
	return m
}
