package websocket

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketgame/game/engine"
	"ticketgame/game/protocol"
	"ticketgame/game/session"
)

type builtinCatalog struct{ m *engine.Map }

func (c builtinCatalog) Map(name string) (*engine.Map, error) {
	if name != c.m.Name {
		return nil, fmt.Errorf("no such map %q", name)
	}
	return c.m, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	registry := session.NewRegistry(builtinCatalog{m: engine.NewBuiltinMap()}, zerolog.Nop())
	handler := NewHandler(registry, zerolog.Nop())

	router := mux.NewRouter()
	router.HandleFunc("/game/{id}/ws", func(w http.ResponseWriter, r *http.Request) {
		handler.ServeGame(w, r, engine.GameID(mux.Vars(r)["id"]))
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, gameID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/" + gameID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func connect(t *testing.T, conn *websocket.Conn, req protocol.ConnectRequest) (*protocol.ConnectSuccess, *protocol.ConnectFailure) {
	t.Helper()
	data, err := protocol.MarshalConnectRequest(req)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, reply, err := conn.ReadMessage()
	require.NoError(t, err)
	success, failure, err := protocol.UnmarshalConnectResponse(reply)
	require.NoError(t, err)
	return success, failure
}

func send(t *testing.T, conn *websocket.Conn, req protocol.Request) {
	t.Helper()
	data, err := protocol.MarshalRequest(req)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

// readUntil reads responses until accept returns true or the deadline
// passes.
func readUntil(t *testing.T, conn *websocket.Conn, accept func(protocol.Response) bool) protocol.Response {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		resp, err := protocol.UnmarshalResponse(data)
		if err != nil {
			continue
		}
		if accept(resp) {
			return resp
		}
	}
	t.Fatal("expected response did not arrive")
	return nil
}

func TestStartAndJoinOverWebsocket(t *testing.T) {
	srv := newTestServer(t)

	alice := dial(t, srv, "game-1")
	success, failure := connect(t, alice, protocol.StartGame{PlayerName: "alice", PlayerColor: engine.PlayerRed})
	require.Nil(t, failure)
	assert.Equal(t, engine.GameID("game-1"), success.GameID)

	bob := dial(t, srv, "game-1")
	success, failure = connect(t, bob, protocol.JoinGame{PlayerName: "bob", PlayerColor: engine.PlayerBlue})
	require.Nil(t, failure)

	resp := readUntil(t, alice, func(resp protocol.Response) bool {
		update, ok := resp.(protocol.GameStateUpdate)
		return ok && len(update.State.Players) == 2
	})
	update := resp.(protocol.GameStateUpdate)
	assert.Equal(t, "alice", update.State.MyName)
	assert.Len(t, update.State.MyCards, 4)
}

func TestHandshakeFailures(t *testing.T) {
	srv := newTestServer(t)

	conn := dial(t, srv, "missing")
	_, failure := connect(t, conn, protocol.JoinGame{PlayerName: "bob", PlayerColor: engine.PlayerBlue})
	require.NotNil(t, failure)
	assert.Equal(t, protocol.NoSuchGame, failure.Code)

	alice := dial(t, srv, "game-1")
	_, failure = connect(t, alice, protocol.StartGame{PlayerName: "alice", PlayerColor: engine.PlayerRed})
	require.Nil(t, failure)

	dupe := dial(t, srv, "game-1")
	_, failure = connect(t, dupe, protocol.JoinGame{PlayerName: "alice", PlayerColor: engine.PlayerBlue})
	require.NotNil(t, failure)
	assert.Equal(t, protocol.PlayerNameTaken, failure.Code)
}

func TestMalformedHandshakeIsRefused(t *testing.T) {
	srv := newTestServer(t)

	conn := dial(t, srv, "game-1")
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not a handshake")))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, reply, err := conn.ReadMessage()
	require.NoError(t, err)
	_, failure, err := protocol.UnmarshalConnectResponse(reply)
	require.NoError(t, err)
	require.NotNil(t, failure)
	assert.Equal(t, protocol.CannotConnect, failure.Code)
}

func TestMalformedRequestDropsConnection(t *testing.T) {
	srv := newTestServer(t)

	conn := dial(t, srv, "game-1")
	_, failure := connect(t, conn, protocol.StartGame{PlayerName: "alice", PlayerColor: engine.PlayerRed})
	require.Nil(t, failure)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"warp"}`)))

	// The server closes the connection; reads eventually fail.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
	t.Fatal("connection was not dropped")
}

func TestPingPongOverWebsocket(t *testing.T) {
	srv := newTestServer(t)

	conn := dial(t, srv, "game-1")
	_, failure := connect(t, conn, protocol.StartGame{PlayerName: "alice", PlayerColor: engine.PlayerRed})
	require.Nil(t, failure)

	send(t, conn, protocol.Ping{})
	readUntil(t, conn, func(resp protocol.Response) bool {
		_, ok := resp.(protocol.Pong)
		return ok
	})
}

func TestPlayThroughWebsocket(t *testing.T) {
	srv := newTestServer(t)

	alice := dial(t, srv, "game-1")
	_, failure := connect(t, alice, protocol.StartGame{PlayerName: "alice", PlayerColor: engine.PlayerRed})
	require.Nil(t, failure)

	// The initial ticket choice arrives with the first state snapshot.
	resp := readUntil(t, alice, func(resp protocol.Response) bool {
		update, ok := resp.(protocol.GameStateUpdate)
		return ok && update.State.MyTicketsForChoice != nil
	})
	choice := resp.(protocol.GameStateUpdate).State.MyTicketsForChoice

	send(t, alice, protocol.ConfirmTickets{TicketsToKeep: choice.Tickets[:2]})
	readUntil(t, alice, func(resp protocol.Response) bool {
		update, ok := resp.(protocol.GameStateUpdate)
		return ok && len(update.State.MyTicketsOnHand) == 2
	})
}
