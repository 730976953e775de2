package room

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/GreeFine/orim-back/pkg/metrics"
)

// Registry is the process-wide map of room id -> room. Its lock guards only
// the map itself; all per-room state is behind each room's own mutex, so
// traffic in one room never contends with another.
type Registry struct {
	log        *slog.Logger
	queueDepth int

	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry(log *slog.Logger, queueDepth int) *Registry {
	return &Registry{
		log:        log,
		queueDepth: queueDepth,
		rooms:      map[string]*Room{},
	}
}

// CreateRoom generates a fresh human-readable id, inserts an empty room and
// returns it. It never fails.
func (g *Registry) CreateRoom(displayName string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := slug()
	for g.rooms[id] != nil {
		id = slug()
	}
	rm := New(id, displayName, g.log)
	g.rooms[id] = rm

	metrics.RoomsCreated.Inc()
	metrics.RoomsOpen.Set(float64(len(g.rooms)))
	g.log.Info("room.created", "room", id, "name", displayName)
	return rm
}

// GetRoom resolves an id. Absence is a normal result, not an error.
func (g *Registry) GetRoom(id string) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rm, ok := g.rooms[id]
	return rm, ok
}

// Len reports how many rooms exist. Rooms live for the process lifetime.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rooms)
}

// QueueDepth is the outbound queue cap handed to new clients of any room.
func (g *Registry) QueueDepth() int { return g.queueDepth }

var (
	slugAdjectives = []string{
		"amber", "bold", "brisk", "calm", "civil", "clever", "crisp",
		"eager", "fancy", "gentle", "happy", "keen", "lively", "mellow",
		"noble", "polite", "proud", "quiet", "rapid", "solid", "sunny",
		"swift", "tidy", "vivid",
	}
	slugNouns = []string{
		"anchor", "basin", "canvas", "cedar", "comet", "delta", "ember",
		"field", "harbor", "island", "lantern", "meadow", "needle", "orbit",
		"petal", "prism", "quarry", "ridge", "river", "signal", "summit",
		"thicket", "valley", "willow",
	}
)

// slug produces a two-word numbered room id, e.g. "brisk-harbor-4821".
func slug() string {
	return fmt.Sprintf("%s-%s-%04d",
		slugAdjectives[rand.IntN(len(slugAdjectives))],
		slugNouns[rand.IntN(len(slugNouns))],
		rand.IntN(10000))
}
