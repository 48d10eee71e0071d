// Package metrics defines and registers all custom Prometheus metrics for the
// board API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on import and
// exposed through the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "board"

// ── Security metrics ──────────────────────────────────────────────────────────

// LoginAttemptsTotal counts sign-in attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// RememberMeLoginsTotal counts requests authenticated from the remember-me cookie.
var RememberMeLoginsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remember_me_logins_total",
		Help:      "Total number of requests re-authenticated from a remember-me cookie.",
	},
)

// AccessDeniedTotal counts requests rejected by the access table.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests rejected by the access rules.",
	},
	[]string{"reason"},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// UsersCreatedTotal counts newly registered accounts.
// Label:
//   - role: "ADMIN", "MEMBER" or "GUEST"
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created, by role.",
	},
	[]string{"role"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts domain events handed to the publisher.
// Labels:
//   - type: event type (e.g. "user.created")
//   - result: "ok", "error" or "dropped" when the worker buffer was full
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of domain events published, by type and result.",
	},
	[]string{"type", "result"},
)

// EventsQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventPublishDuration measures how long a single publish takes.
var EventPublishDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_publish_duration_seconds",
		Help:      "Duration of a single event publish call.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)
