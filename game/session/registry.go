package session

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ticketgame/game/engine"
	"ticketgame/game/protocol"
)

// MapCatalog resolves game maps by name.
type MapCatalog interface {
	Map(name string) (*engine.Map, error)
}

// Registry tracks every live room and routes connection handshakes to
// them.
type Registry struct {
	log  zerolog.Logger
	maps MapCatalog

	mu    sync.RWMutex
	rooms map[engine.GameID]*Room
}

// NewRegistry creates an empty registry.
func NewRegistry(maps MapCatalog, log zerolog.Logger) *Registry {
	return &Registry{
		log:   log,
		maps:  maps,
		rooms: make(map[engine.GameID]*Room),
	}
}

// Connect resolves a handshake request against the game id from the
// connection URL. A failed handshake returns a *protocol.ConnectFailure.
func (reg *Registry) Connect(id engine.GameID, req protocol.ConnectRequest, sink Sink) (*Client, error) {
	switch req := req.(type) {
	case protocol.StartGame:
		return reg.Start(id, req, sink)
	case protocol.JoinGame:
		return reg.Join(id, req.PlayerName, req.PlayerColor, sink)
	case protocol.ReconnectGame:
		return reg.Reconnect(id, req.PlayerName, sink)
	case protocol.ObserveGame:
		return reg.Observe(id, sink)
	}
	return nil, &protocol.ConnectFailure{Code: protocol.CannotConnect}
}

// Start creates a new game and seats its first player. An empty id gets
// a generated one.
func (reg *Registry) Start(id engine.GameID, req protocol.StartGame, sink Sink) (*Client, error) {
	if id == "" {
		id = engine.GameID(uuid.NewString())
	}

	mapName := req.MapName
	if mapName == "" {
		mapName = engine.BuiltinMapName
	}
	m, err := reg.maps.Map(mapName)
	if err != nil {
		reg.log.Warn().Err(err).Str("map", mapName).Msg("cannot start game, unknown map")
		return nil, &protocol.ConnectFailure{Code: protocol.CannotConnect}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	gameMap := m.ColoredCopy(rng)
	state := engine.NewGameState(id, req.PlayerName, req.CarsCount, req.ScoreDuringPlay, rng)

	reg.mu.Lock()
	if _, exists := reg.rooms[id]; exists {
		reg.mu.Unlock()
		return nil, &protocol.ConnectFailure{Code: protocol.GameIDTaken}
	}
	room := NewRoom(state, gameMap, rng, reg.log)
	reg.rooms[id] = room
	reg.mu.Unlock()

	reg.log.Info().Str("game", string(id)).Str("map", mapName).Str("player", req.PlayerName).Msg("game started")
	client, err := room.Join(req.PlayerName, req.PlayerColor, sink)
	if err != nil {
		reg.remove(id)
		return nil, err
	}
	return client, nil
}

// Join seats a new player in an existing game.
func (reg *Registry) Join(id engine.GameID, name string, color engine.PlayerColor, sink Sink) (*Client, error) {
	room, ok := reg.Room(id)
	if !ok {
		return nil, &protocol.ConnectFailure{Code: protocol.NoSuchGame}
	}
	return room.Join(name, color, sink)
}

// Reconnect reattaches a player to their seat.
func (reg *Registry) Reconnect(id engine.GameID, name string, sink Sink) (*Client, error) {
	room, ok := reg.Room(id)
	if !ok {
		return nil, &protocol.ConnectFailure{Code: protocol.NoSuchGame}
	}
	return room.Reconnect(name, sink)
}

// Observe attaches an observer to an existing game.
func (reg *Registry) Observe(id engine.GameID, sink Sink) (*Client, error) {
	room, ok := reg.Room(id)
	if !ok {
		return nil, &protocol.ConnectFailure{Code: protocol.NoSuchGame}
	}
	return room.Observe(sink)
}

// Room looks up a live room.
func (reg *Registry) Room(id engine.GameID) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[id]
	return room, ok
}

// List returns the ids of every live game.
func (reg *Registry) List() []engine.GameID {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	ids := make([]engine.GameID, 0, len(reg.rooms))
	for id := range reg.rooms {
		ids = append(ids, id)
	}
	return ids
}

func (reg *Registry) remove(id engine.GameID) {
	reg.mu.Lock()
	room, ok := reg.rooms[id]
	delete(reg.rooms, id)
	reg.mu.Unlock()
	if ok {
		room.Stop()
	}
}

// PruneIdle stops and removes rooms that have had no endpoints for
// longer than ttl. Returns the number of rooms removed.
func (reg *Registry) PruneIdle(ttl time.Duration) int {
	reg.mu.Lock()
	var stale []*Room
	for id, room := range reg.rooms {
		if idle := room.IdleSince(); idle > ttl {
			delete(reg.rooms, id)
			stale = append(stale, room)
		}
	}
	reg.mu.Unlock()

	for _, room := range stale {
		reg.log.Info().Str("game", string(room.ID())).Msg("pruning idle game")
		room.Stop()
	}
	return len(stale)
}

// RunJanitor prunes idle rooms on the given interval until ctx is done.
func (reg *Registry) RunJanitor(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			reg.PruneIdle(ttl)
		case <-ctx.Done():
			return
		}
	}
}
