// Package metrics defines Prometheus counters for the bot core.
//
// Metric naming follows Prometheus conventions: ticketbot_ prefix, _total
// suffix for counters. Everything is registered on the default registry and
// served by the webhook server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpdatesTotal counts accepted inbound updates by routed type.
	UpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketbot_updates_total",
			Help: "Total inbound webhook updates accepted, by type.",
		},
		[]string{"type"},
	)

	// RejectsTotal counts updates rejected at the ingestion boundary.
	RejectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketbot_webhook_rejects_total",
			Help: "Total webhook payloads rejected before dispatch, by reason.",
		},
		[]string{"reason"},
	)

	// CommandsTotal counts dispatched commands by name and outcome.
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketbot_commands_total",
			Help: "Total commands dispatched, by command and outcome.",
		},
		[]string{"command", "outcome"},
	)

	// BroadcastDeliveriesTotal counts per-recipient broadcast results.
	BroadcastDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketbot_broadcast_deliveries_total",
			Help: "Total broadcast delivery attempts, by result.",
		},
		[]string{"result"},
	)
)
