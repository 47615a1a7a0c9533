package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveWebSockets is the gauge of currently connected chat sockets.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quill_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts relay events by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"reason"})

	// SessionOperations counts session store operations by kind and outcome.
	SessionOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_session_operations_total",
		Help: "Total session store operations by kind and outcome",
	}, []string{"operation", "outcome"})
)
