package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_registrations_total",
			Help: "Total number of registration attempts.",
		},
		[]string{"result"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_logins_total",
			Help: "Total number of authentication attempts.",
		},
		[]string{"result"},
	)

	BidsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_bids_total",
			Help: "Total number of bid placement attempts.",
		},
		[]string{"result"},
	)

	DegradedFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_degraded_fallbacks_total",
			Help: "Total number of degraded-mode fallback responses served.",
		},
		[]string{"operation"},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		RegistrationsTotal,
		LoginsTotal,
		BidsTotal,
		DegradedFallbacksTotal,
	)
}
