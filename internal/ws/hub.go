package ws

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/GreeFine/orim-back/internal/protocol"
	"github.com/GreeFine/orim-back/internal/room"
	"github.com/GreeFine/orim-back/pkg/metrics"
)

// Hub drives the lifecycle of every websocket connection: id allocation,
// room registration, the read loop, and teardown.
type Hub struct {
	log      *slog.Logger
	registry *room.Registry
}

func NewHub(logger *slog.Logger, registry *room.Registry) *Hub {
	return &Hub{log: logger, registry: registry}
}

// ServeNew creates a fresh room and attaches the caller to it.
func (h *Hub) ServeNew(w http.ResponseWriter, r *http.Request) {
	rm := h.registry.CreateRoom("New Project")
	h.serve(w, r, rm)
}

// ServeJoin attaches the caller to an existing room. An unknown id is
// rejected before any upgrade or client state exists.
func (h *Hub) ServeJoin(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("room_id")
	rm, ok := h.registry.GetRoom(id)
	if !ok {
		protocol.WriteHTTP(w, http.StatusNotFound, "ROOM NOT_FOUND")
		return
	}
	h.serve(w, r, rm)
}

// serve runs one connection from upgrade to teardown. The read loop is the
// foreground: one message at a time, rejections back to the sender only,
// accepted batches fanned out by the room.
func (h *Hub) serve(w http.ResponseWriter, r *http.Request, rm *room.Room) {
	conn, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}

	ctx := r.Context()
	cl := room.NewClient(uuid.NewString(), h.registry.QueueDepth())
	c := NewConn(conn)

	go c.WriteLoop(ctx, cl)

	// Welcome is queued before registration so it precedes any fan-out.
	cl.TrySend(fmt.Appendf(nil, "[%s] Connected", rm.ID()))
	rm.Join(cl)
	metrics.ConnectionsActive.Inc()
	h.log.Info("client.connected", "room", rm.ID(), "client", cl.ID())

	defer func() {
		// Membership cleanup runs on every exit path, panics included.
		if rec := recover(); rec != nil {
			h.log.Error("ws.unhandled", "room", rm.ID(), "client", cl.ID(), "panic", rec)
		}
		rm.Leave(cl.ID())
		cl.Close()
		_ = c.Close()
		metrics.ConnectionsActive.Dec()
		h.log.Info("client.disconnected", "room", rm.ID(), "client", cl.ID())
	}()

	for {
		raw, ok := c.Read(ctx)
		if !ok {
			return
		}
		metrics.MessagesTotal.Inc()

		msg, werr := protocol.Decode(raw)
		if werr == nil {
			werr = rm.Submit(cl.ID(), msg)
		}
		if werr != nil {
			h.log.Debug("message.rejected", "room", rm.ID(), "client", cl.ID(), "err", werr)
			metrics.RejectionsTotal.WithLabelValues(werr.Name).Inc()
			cl.TrySend(werr.JSON())
		}
	}
}
