// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "installment_ledger"

var LedgersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "ledgers_created_total",
	Help:      "Ledgers created, by payment mode.",
}, []string{"mode"})

var PaymentDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "payment_decisions_total",
	Help:      "Administrator decisions, by scope (obligation|payment) and decision.",
}, []string{"scope", "decision"})

var ConcurrentModifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "concurrent_modifications_total",
	Help:      "Versioned writes that lost a race, by aggregate.",
}, []string{"aggregate"})

var NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "notification_failures_total",
	Help:      "Payment notifications that failed or timed out.",
})

var SweepRuns = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "overdue_sweep_runs_total",
	Help:      "Completed overdue sweeps.",
})

var SweepAccountsFlagged = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "overdue_sweep_accounts_flagged_total",
	Help:      "Accounts newly marked suspicious by the overdue sweep.",
})

var SweepFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "overdue_sweep_ledger_failures_total",
	Help:      "Ledgers the overdue sweep could not process.",
})

var SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "overdue_sweep_duration_seconds",
	Help:      "Wall time of an overdue sweep.",
	Buckets:   prometheus.DefBuckets,
})
