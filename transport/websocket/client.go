// Package websocket carries the game protocol over websocket
// connections. Each connection starts with a handshake message that
// attaches it to a game room; after that, requests flow in and
// responses flow out until either side closes.
package websocket

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"ticketgame/game/engine"
	"ticketgame/game/protocol"
	"ticketgame/game/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Outgoing queue per connection. A peer that cannot keep up is
	// dropped rather than allowed to stall the room.
	sendQueueSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades HTTP requests to websocket connections and attaches
// them to game rooms.
type Handler struct {
	registry *session.Registry
	log      zerolog.Logger
}

// NewHandler creates a websocket handler over the registry.
func NewHandler(registry *session.Registry, log zerolog.Logger) *Handler {
	return &Handler{registry: registry, log: log}
}

// ServeGame handles one websocket connection for the given game id.
func (h *Handler) ServeGame(w http.ResponseWriter, r *http.Request, id engine.GameID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		closed: make(chan struct{}),
		log:    h.log,
	}
	go c.writePump()
	go c.serve(h.registry, id)
}

// client is one websocket connection. It implements session.Sink, so a
// room can push messages to it without knowing about websockets.
type client struct {
	conn      *websocket.Conn
	send      chan []byte
	closed    chan struct{}
	closeOnce sync.Once
	log       zerolog.Logger
}

// Send queues an outgoing message. A full queue drops the connection.
func (c *client) Send(data []byte) error {
	select {
	case <-c.closed:
		return errors.New("connection closed")
	default:
	}
	select {
	case c.send <- data:
		return nil
	default:
		c.log.Warn().Msg("send queue overflow, dropping connection")
		c.Close()
		return errors.New("send queue overflow")
	}
}

// Close shuts the connection down. Safe to call more than once.
func (c *client) Close() {
	c.closeOnce.Do(func() { close(c.closed) })
}

// serve runs the handshake and then the read loop.
func (c *client) serve(registry *session.Registry, id engine.GameID) {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	endpoint, ok := c.handshake(registry, id)
	if !ok {
		return
	}
	defer endpoint.Detach()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Msg("websocket read failed")
			}
			return
		}
		req, err := protocol.UnmarshalRequest(data)
		if err != nil {
			// A peer speaking garbage is dropped, not argued with.
			c.log.Warn().Err(err).Msg("malformed request, dropping connection")
			return
		}
		endpoint.Request(req)
	}
}

// handshake reads the first message and attaches the connection to a
// room. The reply is sent before any game traffic, so the peer always
// learns the definitive outcome of its request.
func (c *client) handshake(registry *session.Registry, id engine.GameID) (*session.Client, bool) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, false
	}
	req, err := protocol.UnmarshalConnectRequest(data)
	if err != nil {
		c.refuse(protocol.CannotConnect)
		return nil, false
	}

	endpoint, err := registry.Connect(id, req, c)
	if err != nil {
		var failure *protocol.ConnectFailure
		if errors.As(err, &failure) {
			c.refuse(failure.Code)
		} else {
			c.log.Error().Err(err).Msg("connect failed")
			c.refuse(protocol.CannotConnect)
		}
		return nil, false
	}

	reply, err := protocol.MarshalConnectResponse(&protocol.ConnectSuccess{GameID: endpoint.Game()}, nil)
	if err == nil {
		err = c.Send(reply)
	}
	if err != nil {
		endpoint.Detach()
		return nil, false
	}
	return endpoint, true
}

func (c *client) refuse(code protocol.ConnectErrorCode) {
	if data, err := protocol.MarshalConnectResponse(nil, &protocol.ConnectFailure{Code: code}); err == nil {
		_ = c.Send(data)
	}
}

// writePump pumps queued messages to the websocket connection and keeps
// it alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-c.closed:
			// Flush what is already queued, then say goodbye.
			for {
				select {
				case message := <-c.send:
					c.conn.SetWriteDeadline(time.Now().Add(writeWait))
					if c.conn.WriteMessage(websocket.TextMessage, message) != nil {
						return
					}
				default:
					c.conn.SetWriteDeadline(time.Now().Add(writeWait))
					c.conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
