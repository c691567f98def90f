// Package metrics defines and registers all custom Prometheus metrics for
// the console API's access-control surface. It is the single source of truth
// for metric names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// GateDecisionsTotal counts request-gate outcomes.
// Label:
//   - decision: "continue", "redirect", or "continue_with_header"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of request gate decisions, by outcome.",
	},
	[]string{"decision"},
)

// AuthDenialsTotal counts authorization guard denials at the HTTP boundary.
// Label:
//   - reason: "unauthenticated" (401) or "forbidden" (403)
var AuthDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_denials_total",
		Help:      "Total number of denied authorization checks, by reason.",
	},
	[]string{"reason"},
)

// APIKeyAuthTotal counts X-API-Key authentication attempts.
// Label:
//   - result: "ok", "rejected", or "error"
var APIKeyAuthTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_key_auth_total",
		Help:      "Total number of API key authentication attempts, by result.",
	},
	[]string{"result"},
)

// KeyLifecycleTotal counts credential lifecycle operations that reached the
// store.
// Label:
//   - operation: "create", "update", "revoke"
var KeyLifecycleTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "key_lifecycle_total",
		Help:      "Total number of completed API key lifecycle operations.",
	},
	[]string{"operation"},
)
