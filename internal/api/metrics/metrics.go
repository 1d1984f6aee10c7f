// Package metrics defines and registers all custom Prometheus metrics for the
// collaborative to-do API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "todo"

// ── Account metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts successful account registrations.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "not_found", "bad_password", or "invalid"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// PasswordResetsTotal counts completed question-based password resets.
var PasswordResetsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of passwords reset via security question.",
	},
)

// ── List / membership metrics ─────────────────────────────────────────────────

// ListsCreatedTotal counts lists created.
var ListsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lists_created_total",
		Help:      "Total number of collaborative lists created.",
	},
)

// MembershipChangesTotal counts membership mutations.
// Label:
//   - action: "add" or "remove"
var MembershipChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "membership_changes_total",
		Help:      "Total number of successful membership mutations, by action.",
	},
	[]string{"action"},
)

// AccessDeniedTotal counts requests rejected by list access classification.
// Label:
//   - resource: "list", "member", or "task"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of authorization denials, by resource kind.",
	},
	[]string{"resource"},
)

// ── Task metrics ──────────────────────────────────────────────────────────────

// TasksCreatedTotal counts tasks created.
// Label:
//   - priority: "High", "Mid", or "Low"
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by priority.",
	},
	[]string{"priority"},
)

// TasksCompletedTotal counts tasks toggled or updated into the checked state.
var TasksCompletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_completed_total",
		Help:      "Total number of tasks marked done.",
	},
)
