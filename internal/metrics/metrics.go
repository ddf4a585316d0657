package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brocode_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "brocode_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Realtime metrics
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "brocode_active_connections",
			Help: "Live websocket connections",
		},
	)

	ActiveRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "brocode_active_rooms",
			Help: "Rooms with at least one member",
		},
	)

	EventsRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brocode_events_relayed_total",
			Help: "Events broadcast to rooms",
		},
		[]string{"event"},
	)

	EventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brocode_events_dropped_total",
			Help: "Events not delivered",
		},
		[]string{"reason"}, // "unidentified", "slow_peer", "payload"
	)

	PublishesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brocode_publishes_total",
			Help: "Gateway publishes by origin",
		},
		[]string{"source"}, // "socket", "http", "redis"
	)

	// Lifecycle metrics
	ConnectionsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brocode_connections_swept_total",
			Help: "Expired registry entries removed by the sweep",
		},
	)

	RoomsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brocode_rooms_pruned_total",
			Help: "Empty rooms removed by the prune",
		},
	)
)
