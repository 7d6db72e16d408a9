package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors of the wallet kit
type Metrics struct {
	ConnectionAttempts *prometheus.CounterVec
	FeeEstimates       *prometheus.CounterVec
	RelayedTxs         prometheus.Counter
}

// New creates and registers the collectors on the given registerer
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ConnectionAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "walletkit_connection_attempts_total",
			Help: "Connection attempts by login method and outcome.",
		}, []string{"method", "outcome"}),
		FeeEstimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "walletkit_fee_estimates_total",
			Help: "Fee delegation estimates by gas token and availability.",
		}, []string{"token", "available"}),
		RelayedTxs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walletkit_relayed_transactions_total",
			Help: "Transactions relayed through the smart account.",
		}),
	}

	reg.MustRegister(m.ConnectionAttempts, m.FeeEstimates, m.RelayedTxs)

	return m
}
