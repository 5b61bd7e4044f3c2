// Package metrics defines and registers all custom Prometheus metrics for the
// shift system. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at package
// init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shiftsys"

// ── Claim metrics ─────────────────────────────────────────────────────────────

// ClaimsTotal counts claim attempts by outcome.
// Label:
//   - result: "won", "lost", "not_found", "ambiguous", "error"
var ClaimsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "claims_total",
		Help:      "Total number of shift claim attempts, by result.",
	},
	[]string{"result"},
)

// ── Lifecycle metrics ─────────────────────────────────────────────────────────

// GhostsDetectedTotal counts shifts transitioned to ghosted.
// Label:
//   - source: "manager" (explicit) or "sweeper" (background grace sweep)
var GhostsDetectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ghosts_detected_total",
		Help:      "Total number of shifts marked ghosted, by detection source.",
	},
	[]string{"source"},
)

// ── Escalation metrics ────────────────────────────────────────────────────────

// ShiftsEscalatedTotal counts shifts escalated to surge pay.
var ShiftsEscalatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shifts_escalated_total",
		Help:      "Total number of ghosted shifts escalated to bidding at surge pay.",
	},
)

// NotificationsTotal counts notifier hand-offs by outcome.
// Label:
//   - result: "sent", "failed", "deduped"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifier deliveries attempted, by result.",
	},
	[]string{"result"},
)

// SweepDuration measures end-to-end escalation sweep duration.
var SweepDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "escalation_sweep_duration_seconds",
		Help:      "Duration of a full escalation sweep.",
		Buckets:   prometheus.DefBuckets,
	},
)
