// Package metrics exposes the Prometheus collectors for the console daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsTotal counts inbound relay events by type, after device filtering.
	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courtcam",
		Subsystem: "relay",
		Name:      "events_total",
		Help:      "Inbound relay events applied to the session, by type.",
	}, []string{"type"})

	// EventsDiscarded counts inbound events dropped before they reached the
	// session: foreign device identity or a malformed payload.
	EventsDiscarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courtcam",
		Subsystem: "relay",
		Name:      "events_discarded_total",
		Help:      "Inbound relay events discarded, by reason.",
	}, []string{"reason"})

	// CommandsTotal counts operator commands by name and outcome
	// (accepted or rejected).
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courtcam",
		Subsystem: "session",
		Name:      "commands_total",
		Help:      "Operator commands by name and outcome.",
	}, []string{"command", "outcome"})

	// Reconnects counts relay link re-establishments after the initial dial.
	Reconnects = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "courtcam",
		Subsystem: "relay",
		Name:      "reconnects_total",
		Help:      "Relay connections re-established after a link loss.",
	})

	// Connected is 1 while the relay link is up.
	Connected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "courtcam",
		Subsystem: "relay",
		Name:      "connected",
		Help:      "Whether the relay WebSocket link is currently up.",
	})
)
