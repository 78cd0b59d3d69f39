// Package metrics defines and registers all custom Prometheus metrics for
// the member portal auth core. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry via promauto at
// package load; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// LoginsTotal counts authentication attempts by method and outcome.
// Labels:
//   - method: "password" or "sso"
//   - result: "success", "denied", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// LoginsRateLimitedTotal counts logins rejected by the per-address
// sliding-window limiter before any credential check.
var LoginsRateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_rate_limited_total",
		Help:      "Total number of login attempts rejected by the rate limiter.",
	},
)

// SessionsReconciledTotal counts per-request session reconciliations.
// Label:
//   - outcome: "valid", "refreshed" (non-critical drift applied), or
//     "invalidated" (critical mismatch, session destroyed)
var SessionsReconciledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_reconciled_total",
		Help:      "Total number of session reconciliations, by outcome.",
	},
	[]string{"outcome"},
)

// CSRFRejectionsTotal counts state-changing requests rejected for a
// missing or non-matching CSRF token.
var CSRFRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csrf_rejections_total",
		Help:      "Total number of requests rejected by the CSRF guard.",
	},
)

// AccountOperationsTotal counts lifecycle operations that completed.
// Label:
//   - operation: "created", "password_changed", "email_changed",
//     "role_changed", "exported", "deleted"
var AccountOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_operations_total",
		Help:      "Total number of completed account lifecycle operations.",
	},
	[]string{"operation"},
)
