package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketgame/game/engine"
)

func TestConnectRequestRoundTrip(t *testing.T) {
	requests := []ConnectRequest{
		StartGame{PlayerName: "alice", PlayerColor: engine.PlayerRed, MapName: "russia", CarsCount: 30, ScoreDuringPlay: true},
		JoinGame{PlayerName: "bob", PlayerColor: engine.PlayerBlue},
		ReconnectGame{PlayerName: "alice"},
		ObserveGame{},
	}
	for _, r := range requests {
		data, err := MarshalConnectRequest(r)
		require.NoError(t, err)
		decoded, err := UnmarshalConnectRequest(data)
		require.NoError(t, err)
		assert.Equal(t, r, decoded)
	}
}

func TestConnectRequestCarriesTypeTag(t *testing.T) {
	data, err := MarshalConnectRequest(JoinGame{PlayerName: "bob", PlayerColor: engine.PlayerBlue})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "join", fields["type"])
	assert.Equal(t, "bob", fields["playerName"])
}

func TestConnectResponseRoundTrip(t *testing.T) {
	data, err := MarshalConnectResponse(&ConnectSuccess{GameID: "game-1"}, nil)
	require.NoError(t, err)
	success, failure, err := UnmarshalConnectResponse(data)
	require.NoError(t, err)
	require.Nil(t, failure)
	assert.Equal(t, engine.GameID("game-1"), success.GameID)

	data, err = MarshalConnectResponse(nil, &ConnectFailure{Code: PlayerColorTaken})
	require.NoError(t, err)
	success, failure, err = UnmarshalConnectResponse(data)
	require.NoError(t, err)
	require.Nil(t, success)
	assert.Equal(t, PlayerColorTaken, failure.Code)
}

func TestRequestRoundTrip(t *testing.T) {
	requests := []Request{
		ChatMessage{Message: "hello"},
		LeaveGame{},
		ConfirmTickets{TicketsToKeep: []engine.Ticket{{From: "a", To: "b", Points: 7}}},
		PickLoco{Ix: 2},
		PickTwoCards{Cards: [2]engine.CardPick{{Open: true, Index: 1}, {}}},
		PickTickets{},
		BuildSegment{From: "a", To: "b", Cards: []engine.Card{engine.Car(engine.Red)}},
		BuildStation{Target: "c", Cards: []engine.Card{engine.Loco}},
		Ping{},
	}
	for _, r := range requests {
		data, err := MarshalRequest(r)
		require.NoError(t, err)
		decoded, err := UnmarshalRequest(data)
		require.NoError(t, err)
		assert.Equal(t, r, decoded)
	}
}

func TestResponseRoundTrip(t *testing.T) {
	responses := []Response{
		GameStateUpdate{
			State:  engine.GameStateView{MyName: "alice", Turn: 1},
			Action: JoinAction("bob"),
		},
		GameEnd{Players: []PlayerResult{{
			Player:  engine.PlayerView{Name: "alice", Color: engine.PlayerRed},
			Tickets: []engine.Ticket{{From: "a", To: "b", Points: 7}},
			Score:   engine.PlayerScore{Name: "alice", SegmentsPoints: 9},
			Points:  16,
		}}},
		ErrorResponse{Text: "not your turn"},
		ChatNote{From: "alice", Message: "gg"},
		Pong{},
	}
	for _, r := range responses {
		data, err := MarshalResponse(r)
		require.NoError(t, err)
		decoded, err := UnmarshalResponse(data)
		require.NoError(t, err)
		assert.Equal(t, r, decoded)
	}
}

func TestObserverResponseRoundTrip(t *testing.T) {
	update := ObserverUpdate{State: engine.GameStateForObserver{GameID: "game-1", Turn: 2}}
	data, err := MarshalResponse(update)
	require.NoError(t, err)

	decoded, err := UnmarshalObserverResponse(data)
	require.NoError(t, err)
	assert.Equal(t, update, decoded)
}

func TestUnknownAndMalformedMessages(t *testing.T) {
	_, err := UnmarshalRequest([]byte(`{"type":"warp"}`))
	assert.Error(t, err)

	_, err = UnmarshalRequest([]byte(`{"message":"no tag"}`))
	assert.Error(t, err)

	_, err = UnmarshalRequest([]byte(`not json`))
	assert.Error(t, err)

	_, err = UnmarshalConnectRequest([]byte(`{"type":"teleport"}`))
	assert.Error(t, err)
}

func TestActionOf(t *testing.T) {
	action := ActionOf("alice", BuildSegment{From: "a", To: "b"})
	require.NotNil(t, action)
	assert.Equal(t, "build", action.Type)
	assert.Equal(t, "alice", action.PlayerName)

	assert.Nil(t, ActionOf("alice", ChatMessage{Message: "hi"}))
	assert.Nil(t, ActionOf("alice", Ping{}))
}
