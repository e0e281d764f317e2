package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// SettlementTotal counts settlement computations by method and outcome.
	SettlementTotal *prometheus.CounterVec
	// SettlementDuration records settlement computation latency in milliseconds.
	SettlementDuration *prometheus.HistogramVec
	// CommissionAmountTotal accumulates computed commission cents by party kind.
	CommissionAmountTotal *prometheus.CounterVec
	// AttributionEventsTotal counts referral events by outcome.
	AttributionEventsTotal *prometheus.CounterVec
	// PayoutDispatchTotal counts ledger handoffs to the payout queue.
	PayoutDispatchTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		SettlementTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_total",
			Help:      "Count of settlement computations by payment method and result.",
		}, []string{"method", "result"})
		SettlementDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_duration_ms",
			Help:      "Settlement computation latency in milliseconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		}, []string{"method"})
		CommissionAmountTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commission_amount_cents_total",
			Help:      "Computed commission amounts in cents by party kind.",
		}, []string{"party"})
		AttributionEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attribution_events_total",
			Help:      "Count of referral attribution events by outcome.",
		}, []string{"result"})
		PayoutDispatchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payout_dispatch_total",
			Help:      "Count of commission ledger handoffs to the payout queue.",
		}, []string{"result"})

		reg.MustRegister(SettlementTotal, SettlementDuration, CommissionAmountTotal,
			AttributionEventsTotal, PayoutDispatchTotal)
	})
}
