// Package metrics holds the Prometheus collectors for the identity service.
// Everything registers with the default registry on import; /metrics serves
// it through promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// Outcome label values shared by the auth counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// LoginsTotal counts login attempts.
// Label:
//   - outcome: "success" or the failure reason ("invalid_credentials", "disabled", "locked", "banned")
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - outcome: "success", "conflict" or "invalid"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by outcome.",
	},
	[]string{"outcome"},
)

// RefreshesTotal counts refresh token exchanges.
// Label:
//   - outcome: "success", "unknown", "expired", "reused", "raced" or "account_inactive"
var RefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refreshes_total",
		Help:      "Total number of refresh token exchanges, by outcome.",
	},
	[]string{"outcome"},
)

// RefreshReuseTotal counts presentations of an already rotated refresh
// token, a possible credential theft signal.
var RefreshReuseTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_token_reuse_total",
		Help:      "Total number of attempts to reuse a revoked refresh token.",
	},
)

// LogoutsTotal counts logouts.
// Label:
//   - scope: "single" or "all"
var LogoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logouts, by scope.",
	},
	[]string{"scope"},
)

// SessionsEvictedTotal counts sessions closed by the per-account session cap.
var SessionsEvictedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_evicted_total",
		Help:      "Total number of sessions closed to honour the per-account session limit.",
	},
)

// HousekeepingRemovedTotal counts rows cleared by the maintenance sweep.
// Label:
//   - kind: "refresh_tokens", "sessions_deactivated" or "sessions_deleted"
var HousekeepingRemovedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "housekeeping_rows_total",
		Help:      "Total number of rows expired or deleted by housekeeping, by kind.",
	},
	[]string{"kind"},
)

// HousekeepingDuration measures one maintenance sweep.
var HousekeepingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "housekeeping_duration_seconds",
		Help:      "Duration of a housekeeping sweep.",
		Buckets:   prometheus.DefBuckets,
	},
)
