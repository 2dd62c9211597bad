// Package metrics exposes Prometheus instrumentation for the roulette service:
// connection and pool gauges, match and session-end counters, and the time
// users spend waiting for a partner.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectionsTotal tracks the current number of open WebSocket connections.
	ConnectionsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "roulette_connections_total",
		Help: "Current number of open WebSocket connections",
	})

	// PoolSize tracks the number of connections waiting for a partner.
	PoolSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "roulette_pool_size",
		Help: "Current number of connections in the waiting pool",
	})

	// ActiveSessions tracks live two-party sessions.
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "roulette_active_sessions",
		Help: "Current number of live roulette sessions",
	})

	// MatchesTotal counts committed matches.
	MatchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roulette_matches_total",
		Help: "Total number of sessions created",
	})

	// SessionsEndedTotal counts ended sessions by reason.
	SessionsEndedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roulette_sessions_ended_total",
		Help: "Total number of ended sessions",
	}, []string{"reason"}) // reason = "left", "disconnected"

	// WaitDuration records how long the earlier entry waited before being matched.
	WaitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "roulette_wait_duration_seconds",
		Help:    "Time spent in the waiting pool before a match",
		Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60, 120, 300},
	})

	// DeliveryFailures counts notifications the transport could not accept.
	DeliveryFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roulette_delivery_failures_total",
		Help: "Total number of notifications that failed to deliver",
	}, []string{"event"})

	// AuditDropped counts session records dropped because the audit buffer was full.
	AuditDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roulette_audit_dropped_total",
		Help: "Total number of session audit records dropped",
	})
)

func init() {
	prometheus.MustRegister(
		ConnectionsTotal,
		PoolSize,
		ActiveSessions,
		MatchesTotal,
		SessionsEndedTotal,
		WaitDuration,
		DeliveryFailures,
		AuditDropped,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
