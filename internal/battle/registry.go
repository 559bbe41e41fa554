package battle

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bardclash/versebattle/internal/judge"
)

// RoomInfo is a point-in-time view of one room for listings.
type RoomInfo struct {
	ID           string `json:"id"`
	State        State  `json:"state"`
	Participants int    `json:"player_count"`
}

// Registry owns the map of active rooms. Its own lock guards only map
// mutation and is never held while a room body runs: callers take the
// room handle out and lock the room separately.
type Registry struct {
	mu     sync.Mutex
	rooms  map[string]*Room
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		rooms:  make(map[string]*Room),
		logger: logger,
	}
}

// Create opens an empty room and returns its id.
func (g *Registry) Create(totalRounds int, difficulty judge.Difficulty) string {
	id := uuid.NewString()
	room := newRoom(id, totalRounds, difficulty)

	g.mu.Lock()
	g.rooms[id] = room
	g.mu.Unlock()
	return id
}

// CreateReserved opens a room only the given identities may join. Used
// by matchmaking and by tournament brackets supplying fixed pairings.
func (g *Registry) CreateReserved(totalRounds int, difficulty judge.Difficulty, identityA, identityB string) string {
	id := uuid.NewString()
	room := newRoom(id, totalRounds, difficulty)
	room.invited = map[string]bool{identityA: true, identityB: true}

	g.mu.Lock()
	g.rooms[id] = room
	g.mu.Unlock()
	return id
}

// Get returns the room handle. The caller locks the room for the
// duration of exactly one operation.
func (g *Registry) Get(id string) (*Room, bool) {
	g.mu.Lock()
	room, ok := g.rooms[id]
	g.mu.Unlock()
	return room, ok
}

// Remove drops a room from the registry.
func (g *Registry) Remove(id string) {
	g.mu.Lock()
	delete(g.rooms, id)
	g.mu.Unlock()
}

// List snapshots every room. A room locked by an in-flight operation is
// reported as a full in-progress match rather than blocking on it.
func (g *Registry) List() []RoomInfo {
	g.mu.Lock()
	defer g.mu.Unlock()

	infos := make([]RoomInfo, 0, len(g.rooms))
	for id, room := range g.rooms {
		if !room.TryLock() {
			infos = append(infos, RoomInfo{ID: id, State: StateInProgress, Participants: 2})
			continue
		}
		infos = append(infos, RoomInfo{ID: id, State: room.State, Participants: len(room.participants)})
		room.Unlock()
	}
	return infos
}

// Sweep removes rooms that are completed or older than maxAge. Rooms
// held under lock by a live operation are skipped, never pruned out
// from under it. Returns the number removed.
func (g *Registry) Sweep(maxAge time.Duration) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	var stale []string
	for id, room := range g.rooms {
		if !room.TryLock() {
			continue
		}
		if room.State == StateCompleted || time.Since(room.CreatedAt) > maxAge {
			stale = append(stale, id)
		}
		room.Unlock()
	}

	for _, id := range stale {
		delete(g.rooms, id)
	}
	if len(stale) > 0 {
		g.logger.Info("swept stale rooms", "removed", len(stale))
	}
	return len(stale)
}
