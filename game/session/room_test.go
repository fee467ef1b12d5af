package session

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketgame/game/engine"
	"ticketgame/game/protocol"
)

type fakeSink struct {
	mu     sync.Mutex
	msgs   [][]byte
	closed bool
}

func (s *fakeSink) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, data)
	return nil
}

func (s *fakeSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *fakeSink) responses(t *testing.T) []protocol.Response {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]protocol.Response, 0, len(s.msgs))
	for _, data := range s.msgs {
		resp, err := protocol.UnmarshalResponse(data)
		require.NoError(t, err)
		out = append(out, resp)
	}
	return out
}

func (s *fakeSink) lastState(t *testing.T) (protocol.GameStateUpdate, bool) {
	t.Helper()
	var last protocol.GameStateUpdate
	found := false
	for _, resp := range s.responses(t) {
		if update, ok := resp.(protocol.GameStateUpdate); ok {
			last = update
			found = true
		}
	}
	return last, found
}

type builtinCatalog struct{ m *engine.Map }

func (c builtinCatalog) Map(name string) (*engine.Map, error) {
	if name != c.m.Name {
		return nil, fmt.Errorf("no such map %q", name)
	}
	return c.m, nil
}

func newTestRegistry() *Registry {
	return NewRegistry(builtinCatalog{m: engine.NewBuiltinMap()}, zerolog.Nop())
}

func startRequest(name string, color engine.PlayerColor) protocol.StartGame {
	return protocol.StartGame{PlayerName: name, PlayerColor: color}
}

func connectCode(t *testing.T, err error) protocol.ConnectErrorCode {
	t.Helper()
	var failure *protocol.ConnectFailure
	require.ErrorAs(t, err, &failure)
	return failure.Code
}

func TestStartAndJoin(t *testing.T) {
	reg := newTestRegistry()
	alice := &fakeSink{}
	bob := &fakeSink{}

	client, err := reg.Start("game-1", startRequest("alice", engine.PlayerRed), alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", client.Name())

	_, err = reg.Join("game-1", "bob", engine.PlayerBlue, bob)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		state, ok := alice.lastState(t)
		return ok && len(state.State.Players) == 2
	}, time.Second, 10*time.Millisecond)

	var state protocol.GameStateUpdate
	require.Eventually(t, func() bool {
		var ok bool
		state, ok = bob.lastState(t)
		return ok
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "bob", state.State.MyName)
	assert.Len(t, state.State.MyCards, 4)
	require.NotNil(t, state.State.MyTicketsForChoice)
	assert.Len(t, state.State.MyTicketsForChoice.Tickets, 4)
}

func TestConnectFailures(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Start("game-1", startRequest("alice", engine.PlayerRed), &fakeSink{})
	require.NoError(t, err)

	_, err = reg.Start("game-1", startRequest("carol", engine.PlayerBlack), &fakeSink{})
	assert.Equal(t, protocol.GameIDTaken, connectCode(t, err))

	_, err = reg.Join("nope", "bob", engine.PlayerBlue, &fakeSink{})
	assert.Equal(t, protocol.NoSuchGame, connectCode(t, err))

	_, err = reg.Join("game-1", "alice", engine.PlayerBlue, &fakeSink{})
	assert.Equal(t, protocol.PlayerNameTaken, connectCode(t, err))

	_, err = reg.Join("game-1", "bob", engine.PlayerRed, &fakeSink{})
	assert.Equal(t, protocol.PlayerColorTaken, connectCode(t, err))

	_, err = reg.Join("game-1", "bob", "purple", &fakeSink{})
	assert.Equal(t, protocol.CannotConnect, connectCode(t, err))

	_, err = reg.Reconnect("game-1", "nobody", &fakeSink{})
	assert.Equal(t, protocol.NoSuchPlayer, connectCode(t, err))

	_, err = reg.Reconnect("game-1", "alice", &fakeSink{})
	assert.Equal(t, protocol.CannotConnect, connectCode(t, err))
}

func TestReconnectAfterDetach(t *testing.T) {
	reg := newTestRegistry()
	client, err := reg.Start("game-1", startRequest("alice", engine.PlayerRed), &fakeSink{})
	require.NoError(t, err)

	client.Detach()

	var again *Client
	require.Eventually(t, func() bool {
		again, err = reg.Reconnect("game-1", "alice", &fakeSink{})
		return err == nil
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "alice", again.Name())
}

func TestObserverSeesNoHands(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Start("game-1", startRequest("alice", engine.PlayerRed), &fakeSink{})
	require.NoError(t, err)

	sink := &fakeSink{}
	_, err = reg.Observe("game-1", sink)
	require.NoError(t, err)

	var update protocol.ObserverUpdate
	require.Eventually(t, func() bool {
		sink.mu.Lock()
		defer sink.mu.Unlock()
		for _, data := range sink.msgs {
			resp, err := protocol.UnmarshalObserverResponse(data)
			if err != nil {
				continue
			}
			if u, ok := resp.(protocol.ObserverUpdate); ok {
				update = u
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)

	require.Len(t, update.State.Players, 1)
	assert.Equal(t, 4, update.State.Players[0].CardsOnHand)
	assert.Empty(t, update.State.Tickets, "tickets stay hidden until the game ends")
}

func TestRejectedRequestGetsErrorResponse(t *testing.T) {
	reg := newTestRegistry()
	aliceSink := &fakeSink{}
	bobSink := &fakeSink{}
	_, err := reg.Start("game-1", startRequest("alice", engine.PlayerRed), aliceSink)
	require.NoError(t, err)
	bob, err := reg.Join("game-1", "bob", engine.PlayerBlue, bobSink)
	require.NoError(t, err)

	// Bob acts out of turn.
	bob.Request(protocol.PickLoco{Ix: 0})

	require.Eventually(t, func() bool {
		for _, resp := range bobSink.responses(t) {
			if _, ok := resp.(protocol.ErrorResponse); ok {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestChatRelay(t *testing.T) {
	reg := newTestRegistry()
	aliceSink := &fakeSink{}
	bobSink := &fakeSink{}
	alice, err := reg.Start("game-1", startRequest("alice", engine.PlayerRed), aliceSink)
	require.NoError(t, err)
	_, err = reg.Join("game-1", "bob", engine.PlayerBlue, bobSink)
	require.NoError(t, err)

	alice.Request(protocol.ChatMessage{Message: "hello"})

	require.Eventually(t, func() bool {
		for _, resp := range bobSink.responses(t) {
			if note, ok := resp.(protocol.ChatNote); ok {
				return note.From == "alice" && note.Message == "hello"
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestPingPong(t *testing.T) {
	reg := newTestRegistry()
	sink := &fakeSink{}
	client, err := reg.Start("game-1", startRequest("alice", engine.PlayerRed), sink)
	require.NoError(t, err)

	client.Request(protocol.Ping{})

	require.Eventually(t, func() bool {
		for _, resp := range sink.responses(t) {
			if _, ok := resp.(protocol.Pong); ok {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestDetachedPlayerIsAway(t *testing.T) {
	reg := newTestRegistry()
	aliceSink := &fakeSink{}
	bob, err := reg.Start("game-1", startRequest("bob", engine.PlayerBlue), &fakeSink{})
	require.NoError(t, err)
	_, err = reg.Join("game-1", "alice", engine.PlayerRed, aliceSink)
	require.NoError(t, err)

	bob.Detach()

	require.Eventually(t, func() bool {
		state, ok := aliceSink.lastState(t)
		if !ok {
			return false
		}
		for _, p := range state.State.Players {
			if p.Name == "bob" {
				return p.Away
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestPruneIdle(t *testing.T) {
	reg := newTestRegistry()
	client, err := reg.Start("game-1", startRequest("alice", engine.PlayerRed), &fakeSink{})
	require.NoError(t, err)

	assert.Equal(t, 0, reg.PruneIdle(0), "a room with endpoints stays")

	client.Detach()

	require.Eventually(t, func() bool {
		return reg.PruneIdle(0) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, reg.List())
}

// lineMap is a three-city line: a-b-c.
func lineMap(t *testing.T) *engine.Map {
	t.Helper()
	m := &engine.Map{
		Name:                    "line",
		LongTicketMinPoints:     100,
		ShortTicketsPointsRange: [2]int{1, 99},
		Cities:                  []engine.City{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Segments: []engine.Segment{
			{From: "a", To: "b", Length: 1},
			{From: "b", To: "c", Length: 2},
		},
	}
	require.NoError(t, m.Init())
	return m
}

func TestGameEndCarriesFinalScores(t *testing.T) {
	m := lineMap(t)
	state := engine.GameState{
		ID: "game-1",
		Players: []engine.Player{
			{
				Name: "alice", Color: engine.PlayerRed, CarsLeft: 5,
				Cards:            []engine.Card{engine.Car(engine.Red), engine.Car(engine.Red)},
				OccupiedSegments: []engine.Segment{{From: "a", To: "b", Length: 1}},
				TicketsOnHand:    []engine.Ticket{{From: "a", To: "c", Points: 5}},
			},
			{
				Name: "bob", Color: engine.PlayerBlue, CarsLeft: 5,
				TicketsOnHand: []engine.Ticket{{From: "a", To: "b", Points: 3}},
			},
		},
	}
	room := NewRoom(state, m, rand.New(rand.NewSource(1)), zerolog.Nop())
	defer room.Stop()

	sink := &fakeSink{}
	client, err := room.Reconnect("alice", sink)
	require.NoError(t, err)

	// Building the last free segment ends the game on the spot.
	client.Request(protocol.BuildSegment{
		From:  "b",
		To:    "c",
		Cards: []engine.Card{engine.Car(engine.Red), engine.Car(engine.Red)},
	})

	var end protocol.GameEnd
	require.Eventually(t, func() bool {
		for _, resp := range sink.responses(t) {
			if e, ok := resp.(protocol.GameEnd); ok {
				end = e
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)

	require.Len(t, end.Players, 2)
	results := make(map[string]protocol.PlayerResult, len(end.Players))
	for _, r := range end.Players {
		results[r.Player.Name] = r
	}

	// Alice: 1+2 segment points, fulfilled a-c ticket, longest-route bonus.
	alice := results["alice"]
	assert.Equal(t, []engine.Ticket{{From: "a", To: "c", Points: 5}}, alice.Score.FulfilledTickets)
	assert.Equal(t, 3, alice.Score.SegmentsPoints)
	assert.Equal(t, 3+5+m.PointsForLongestRoute, alice.Points)

	// Bob built nothing; his ticket counts against him at game end.
	bob := results["bob"]
	assert.Equal(t, []engine.Ticket{{From: "a", To: "b", Points: 3}}, bob.Score.UnfulfilledTickets)
	assert.Equal(t, -3, bob.Points)
}

func TestSnapshot(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Start("game-1", startRequest("alice", engine.PlayerRed), &fakeSink{})
	require.NoError(t, err)

	room, ok := reg.Room("game-1")
	require.True(t, ok)
	state, ok := room.Snapshot()
	require.True(t, ok)
	assert.Equal(t, engine.GameID("game-1"), state.ID)
	assert.Len(t, state.Players, 1)
}
