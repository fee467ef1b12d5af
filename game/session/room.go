package session

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"ticketgame/game/engine"
	"ticketgame/game/protocol"
)

const requestQueueSize = 16

// Sink is the outgoing half of one connected endpoint. Send must not
// block the caller; a transport with a full buffer should fail the send
// and drop the connection instead.
type Sink interface {
	Send(data []byte) error
	Close()
}

// Client is one endpoint attached to a room: a player seat or an
// observer. All its methods are safe for concurrent use.
type Client struct {
	room   *Room
	name   string // empty for observers
	sink   Sink
	states *Mailbox[protocol.Response]
	done   chan struct{}
}

// Name returns the seat name, empty for observers.
func (c *Client) Name() string { return c.name }

// Game returns the id of the game the endpoint is attached to.
func (c *Client) Game() engine.GameID { return c.room.id }

// Request submits an in-game request for processing.
func (c *Client) Request(req protocol.Request) {
	select {
	case c.room.inbox <- roomMsg{kind: msgRequest, client: c, req: req}:
	case <-c.room.stopped:
	}
}

// Detach removes the endpoint from the room. The seat survives and is
// reported as away until the player reconnects.
func (c *Client) Detach() {
	select {
	case c.room.inbox <- roomMsg{kind: msgDetach, client: c}:
	case <-c.room.stopped:
	}
}

// pump forwards state snapshots from the mailbox to the sink.
func (c *Client) pump() {
	for {
		select {
		case resp := <-c.states.C():
			data, err := protocol.MarshalResponse(resp)
			if err != nil {
				c.room.log.Error().Err(err).Msg("failed to marshal state snapshot")
				continue
			}
			if c.sink.Send(data) != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// deliver sends an ordered message, bypassing the snapshot mailbox.
func (c *Client) deliver(resp protocol.Response) {
	data, err := protocol.MarshalResponse(resp)
	if err != nil {
		c.room.log.Error().Err(err).Msg("failed to marshal response")
		return
	}
	_ = c.sink.Send(data)
}

type msgKind int

const (
	msgJoin msgKind = iota
	msgReconnect
	msgObserve
	msgRequest
	msgDetach
	msgSnapshot
)

type roomMsg struct {
	kind   msgKind
	client *Client
	color  engine.PlayerColor
	req    protocol.Request
	reply  chan error
	state  chan engine.GameState
}

// Room runs one game. A single goroutine owns the game state and
// processes every message in arrival order, so the engine never sees
// concurrent access.
type Room struct {
	id      engine.GameID
	m       *engine.Map
	log     zerolog.Logger
	inbox   chan roomMsg
	stopped chan struct{}

	// actor-owned, never touched outside run()
	state     engine.GameState
	rng       *rand.Rand
	players   map[string]*Client
	observers map[*Client]struct{}

	conns    atomic.Int32
	idleFrom atomic.Int64
}

// NewRoom creates a room around a fresh game state and starts its
// actor.
func NewRoom(state engine.GameState, m *engine.Map, rng *rand.Rand, log zerolog.Logger) *Room {
	r := &Room{
		id:        state.ID,
		m:         m,
		log:       log.With().Str("game", string(state.ID)).Logger(),
		inbox:     make(chan roomMsg, requestQueueSize),
		stopped:   make(chan struct{}),
		state:     state,
		rng:       rng,
		players:   make(map[string]*Client),
		observers: make(map[*Client]struct{}),
	}
	r.idleFrom.Store(time.Now().UnixNano())
	go r.run()
	return r
}

// ID returns the game id.
func (r *Room) ID() engine.GameID { return r.id }

// IdleSince reports how long the room has been without any endpoint.
// Zero while anyone is connected.
func (r *Room) IdleSince() time.Duration {
	if r.conns.Load() > 0 {
		return 0
	}
	return time.Since(time.Unix(0, r.idleFrom.Load()))
}

// Join seats a new player and attaches the endpoint. Blocks until the
// room has processed the request, so the caller sees the definitive
// outcome before completing the handshake.
func (r *Room) Join(name string, color engine.PlayerColor, sink Sink) (*Client, error) {
	return r.attach(msgJoin, name, color, sink)
}

// Reconnect reattaches an endpoint to an existing seat.
func (r *Room) Reconnect(name string, sink Sink) (*Client, error) {
	return r.attach(msgReconnect, name, "", sink)
}

// Observe attaches a non-playing endpoint.
func (r *Room) Observe(sink Sink) (*Client, error) {
	return r.attach(msgObserve, "", "", sink)
}

func (r *Room) attach(kind msgKind, name string, color engine.PlayerColor, sink Sink) (*Client, error) {
	client := &Client{
		room:   r,
		name:   name,
		sink:   sink,
		states: NewMailbox[protocol.Response](),
		done:   make(chan struct{}),
	}
	msg := roomMsg{kind: kind, client: client, color: color, reply: make(chan error, 1)}
	select {
	case r.inbox <- msg:
	case <-r.stopped:
		return nil, &protocol.ConnectFailure{Code: protocol.CannotConnect}
	}
	select {
	case err := <-msg.reply:
		if err != nil {
			return nil, err
		}
		go client.pump()
		return client, nil
	case <-r.stopped:
		return nil, &protocol.ConnectFailure{Code: protocol.CannotConnect}
	}
}

// Snapshot returns a copy of the current game state.
func (r *Room) Snapshot() (engine.GameState, bool) {
	msg := roomMsg{kind: msgSnapshot, state: make(chan engine.GameState, 1)}
	select {
	case r.inbox <- msg:
	case <-r.stopped:
		return engine.GameState{}, false
	}
	select {
	case state := <-msg.state:
		return state, true
	case <-r.stopped:
		return engine.GameState{}, false
	}
}

// Stop shuts the actor down and closes every endpoint. Must be called
// at most once, after the room is unreachable through the registry.
func (r *Room) Stop() {
	close(r.stopped)
}

func (r *Room) run() {
	for {
		select {
		case msg := <-r.inbox:
			r.dispatch(msg)
		case <-r.stopped:
			for _, c := range r.players {
				r.dropClient(c)
			}
			for c := range r.observers {
				r.dropClient(c)
			}
			return
		}
	}
}

func (r *Room) dispatch(msg roomMsg) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error().Interface("panic", p).Msg("request processing panicked")
			if msg.client != nil {
				msg.client.deliver(protocol.ErrorResponse{Text: "internal error"})
			}
		}
	}()

	switch msg.kind {
	case msgJoin:
		msg.reply <- r.join(msg.client, msg.color)
	case msgReconnect:
		msg.reply <- r.reconnect(msg.client)
	case msgObserve:
		r.observers[msg.client] = struct{}{}
		r.clientAttached()
		msg.client.states.Put(r.observerUpdate(nil))
		msg.reply <- nil
	case msgRequest:
		r.handleRequest(msg.client, msg.req)
	case msgDetach:
		if msg.client != nil {
			r.detach(msg.client)
		}
	case msgSnapshot:
		msg.state <- r.state.Clone()
	}
}

func (r *Room) join(client *Client, color engine.PlayerColor) error {
	if _, taken := r.state.PlayerByName(client.name); taken {
		return &protocol.ConnectFailure{Code: protocol.PlayerNameTaken}
	}
	next, err := r.state.AddPlayer(client.name, color, r.m, r.rng)
	if err != nil {
		if engine.IsRejection(err) {
			code := protocol.CannotConnect
			for _, p := range r.state.Players {
				if p.Color == color {
					code = protocol.PlayerColorTaken
				}
			}
			return &protocol.ConnectFailure{Code: code}
		}
		return err
	}
	r.state = next
	r.players[client.name] = client
	r.clientAttached()
	r.log.Info().Str("player", client.name).Msg("player joined")
	r.broadcast(protocol.JoinAction(client.name))
	return nil
}

func (r *Room) reconnect(client *Client) error {
	if _, ok := r.state.PlayerByName(client.name); !ok {
		return &protocol.ConnectFailure{Code: protocol.NoSuchPlayer}
	}
	if _, connected := r.players[client.name]; connected {
		return &protocol.ConnectFailure{Code: protocol.CannotConnect}
	}
	r.players[client.name] = client
	r.clientAttached()
	r.log.Info().Str("player", client.name).Msg("player reconnected")
	r.broadcast(nil)
	return nil
}

func (r *Room) detach(client *Client) {
	r.dropClient(client)
	if client.name != "" {
		if r.players[client.name] == client {
			delete(r.players, client.name)
			r.log.Info().Str("player", client.name).Msg("player disconnected")
			if !r.state.GameOver() {
				r.state = r.state.Leave(client.name, r.m, r.isAway)
				r.broadcast(nil)
			}
		}
	} else {
		delete(r.observers, client)
	}
	if r.conns.Load() == 0 {
		r.idleFrom.Store(time.Now().UnixNano())
	}
}

func (r *Room) dropClient(c *Client) {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.sink.Close()
	r.conns.Add(-1)
}

func (r *Room) clientAttached() {
	r.conns.Add(1)
}

func (r *Room) isAway(name string) bool {
	_, connected := r.players[name]
	return !connected
}

func (r *Room) handleRequest(client *Client, req protocol.Request) {
	switch req := req.(type) {
	case protocol.Ping:
		client.deliver(protocol.Pong{})
		return
	case protocol.ChatMessage:
		note := protocol.ChatNote{From: client.name, Message: req.Message}
		for _, c := range r.players {
			if c != client {
				c.deliver(note)
			}
		}
		for c := range r.observers {
			c.deliver(note)
		}
		return
	}

	if client.name == "" {
		client.deliver(protocol.ErrorResponse{Text: "observers cannot play"})
		return
	}
	if r.state.GameOver() {
		client.deliver(protocol.ErrorResponse{Text: "the game is over"})
		return
	}

	next, err := r.apply(client.name, req)
	if err != nil {
		if !engine.IsRejection(err) {
			r.log.Error().Err(err).Str("player", client.name).Msg("request failed")
		}
		client.deliver(protocol.ErrorResponse{Text: err.Error()})
		return
	}
	r.state = next
	r.broadcast(protocol.ActionOf(client.name, req))
}

func (r *Room) apply(name string, req protocol.Request) (engine.GameState, error) {
	switch req := req.(type) {
	case protocol.PickLoco:
		return r.state.PickLoco(name, req.Ix, r.m, r.rng, r.isAway)
	case protocol.PickTwoCards:
		return r.state.PickTwoCards(name, req.Cards, r.m, r.rng, r.isAway)
	case protocol.PickTickets:
		return r.state.PickTickets(name, r.m, r.rng, r.isAway)
	case protocol.ConfirmTickets:
		return r.state.ConfirmTickets(name, req.TicketsToKeep, r.m)
	case protocol.BuildSegment:
		seg, ok := r.m.SegmentBetween(req.From, req.To)
		if !ok {
			return r.state, engine.Reject("there is no segment %s - %s on the map", req.From, req.To)
		}
		return r.state.BuildSegment(name, seg, req.Cards, r.m, r.isAway)
	case protocol.BuildStation:
		return r.state.BuildStation(name, req.Target, req.Cards, r.m, r.isAway)
	case protocol.LeaveGame:
		return r.state.Leave(name, r.m, r.isAway), nil
	}
	return r.state, engine.Reject("unsupported request")
}

// broadcast pushes a fresh snapshot to every endpoint. Snapshots go
// through mailboxes, so a fast sequence of moves collapses into the
// latest state for slow connections. The game-end announcement rides
// the same mailbox: it replaces any stale snapshot still waiting there,
// so it is always the final message an endpoint sees.
func (r *Room) broadcast(action *protocol.PlayerAction) {
	if r.state.GameOver() {
		end := r.gameEnd(action)
		for _, c := range r.players {
			c.states.Put(end)
		}
		for c := range r.observers {
			c.states.Put(end)
		}
		return
	}
	for name, c := range r.players {
		c.states.Put(protocol.GameStateUpdate{
			State:  r.state.ViewFor(name, r.isAway),
			Action: action,
		})
	}
	if len(r.observers) > 0 {
		update := r.observerUpdate(action)
		for c := range r.observers {
			c.states.Put(update)
		}
	}
}

func (r *Room) observerUpdate(action *protocol.PlayerAction) protocol.ObserverUpdate {
	return protocol.ObserverUpdate{
		State:  r.state.ViewForObserver(r.isAway),
		Action: action,
	}
}

// gameEnd runs the final scoring and packs the results: tickets open,
// unfulfilled ones counted against their holder, longest-route bonus
// awarded.
func (r *Room) gameEnd(action *protocol.PlayerAction) protocol.GameEnd {
	end := protocol.GameEnd{Action: action}
	views := r.state.ViewForObserver(r.isAway)
	scores := engine.ScoreGame(r.state, r.m)
	longest := engine.LongestRouteOfAll(scores)
	for i, p := range r.state.Players {
		end.Players = append(end.Players, protocol.PlayerResult{
			Player:  views.Players[i],
			Tickets: p.TicketsOnHand,
			Score:   scores[i],
			Points:  scores[i].Total(longest, false),
		})
	}
	return end
}
