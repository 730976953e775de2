package room

import (
	"log/slog"
	"sync"

	"github.com/GreeFine/orim-back/internal/protocol"
	"github.com/GreeFine/orim-back/pkg/metrics"
)

// Room is one isolated collaboration session: a client set and an object
// ledger behind a single mutex. Membership changes, batch application and
// fan-out all happen under that mutex, which also serializes the visible
// order of broadcasts.
type Room struct {
	id   string
	name string
	log  *slog.Logger

	mu      sync.Mutex
	clients map[string]*Client
	ledger  *Ledger
}

func New(id, name string, log *slog.Logger) *Room {
	return &Room{
		id:      id,
		name:    name,
		log:     log,
		clients: map[string]*Client{},
		ledger:  NewLedger(),
	}
}

func (r *Room) ID() string   { return r.id }
func (r *Room) Name() string { return r.name }

// Join adds a client to the room.
func (r *Room) Join(c *Client) {
	r.mu.Lock()
	r.clients[c.ID()] = c
	r.mu.Unlock()
}

// Leave removes a client and releases its locks. Safe to call more than once
// for the same id.
func (r *Room) Leave(clientID string) {
	r.mu.Lock()
	delete(r.clients, clientID)
	r.ledger.ReleaseLocks(clientID)
	r.mu.Unlock()
}

// ClientCount reports current membership.
func (r *Room) ClientCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Snapshot returns a copy of an object for inspection.
func (r *Room) Snapshot(id protocol.ObjectID) (Object, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.Object(id)
}

// Submit applies one decoded message from clientID atomically and, on
// success, fans the accepted batch out to every other member. Lock
// acquisition order across Submit calls defines the broadcast order all
// peers observe. A rejection leaves the ledger untouched and is returned
// for delivery to the sender only.
func (r *Room) Submit(clientID string, msg protocol.Message) *protocol.WSError {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ledger.ApplyBatch(clientID, msg.ObjectUpdate); err != nil {
		return err
	}
	r.broadcastLocked(clientID, protocol.Encode(r.id, msg))
	return nil
}

// Broadcast delivers an already-framed payload to every member except the
// originator.
func (r *Room) Broadcast(fromID string, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastLocked(fromID, payload)
}

// broadcastLocked pushes onto each peer's queue without blocking. A full
// queue means the consumer is too slow to keep: it is closed and dropped
// from the room, and delivery to the remaining peers continues.
func (r *Room) broadcastLocked(fromID string, payload []byte) {
	for id, c := range r.clients {
		if id == fromID {
			continue
		}
		if !c.TrySend(payload) {
			r.log.Warn("room.drop_slow_client", "room", r.id, "client", id)
			metrics.SlowClientDrops.Inc()
			c.Close()
			delete(r.clients, id)
			r.ledger.ReleaseLocks(id)
		}
	}
	metrics.BroadcastsTotal.Inc()
}
