package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orim_rooms_created_total",
		Help: "Rooms created since process start.",
	})
	RoomsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orim_rooms_open",
		Help: "Rooms currently held in the registry.",
	})
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orim_connections_active",
		Help: "WebSocket connections currently registered in a room.",
	})
	MessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orim_messages_total",
		Help: "Inbound text frames handed to the protocol handler.",
	})
	BroadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orim_broadcasts_total",
		Help: "Accepted batches fanned out to room peers.",
	})
	RejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orim_rejections_total",
		Help: "Rejected client messages by reason.",
	}, []string{"reason"})
	SlowClientDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orim_slow_client_drops_total",
		Help: "Clients disconnected because their outbound queue overflowed.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
