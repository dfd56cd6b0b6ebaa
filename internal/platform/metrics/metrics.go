package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the settlement core. Registered on the default registry and
// exposed via promhttp on /metrics.
var (
	SettlementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_settlements_total",
		Help: "Checkout settlements processed, by outcome.",
	}, []string{"outcome"})

	CreditDebitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_credit_debits_total",
		Help: "Credit ledger debits attempted, by outcome.",
	}, []string{"outcome"})

	GatewayCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_gateway_calls_total",
		Help: "Payment gateway calls, by operation and outcome.",
	}, []string{"operation", "outcome"})

	RateLimitDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_rate_limit_denials_total",
		Help: "Requests denied by the rate limiter, by policy.",
	}, []string{"policy"})

	AuditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_audit_write_failures_total",
		Help: "Audit log writes that failed and were swallowed. Alarm on this.",
	})
)
