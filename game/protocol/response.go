package protocol

import (
	"encoding/json"
	"fmt"

	"ticketgame/game/engine"
)

// PlayerAction is the public echo of a processed request, broadcast so
// every participant can narrate what just happened.
type PlayerAction struct {
	Type       string        `json:"type"`
	PlayerName string        `json:"playerName"`
	Segment    *engine.Segment `json:"segment,omitempty"`
	Target     engine.CityID `json:"target,omitempty"`
	Tickets    int           `json:"tickets,omitempty"`
}

// ActionOf describes a processed request as a PlayerAction. Chat and
// ping messages have no public echo.
func ActionOf(name string, r Request) *PlayerAction {
	switch r := r.(type) {
	case LeaveGame:
		return &PlayerAction{Type: "leave", PlayerName: name}
	case ConfirmTickets:
		return &PlayerAction{Type: "confirmTickets", PlayerName: name, Tickets: len(r.TicketsToKeep)}
	case PickLoco:
		return &PlayerAction{Type: "pickLoco", PlayerName: name}
	case PickTwoCards:
		return &PlayerAction{Type: "pickTwoCards", PlayerName: name}
	case PickTickets:
		return &PlayerAction{Type: "pickTickets", PlayerName: name}
	case BuildSegment:
		return &PlayerAction{Type: "build", PlayerName: name, Segment: &engine.Segment{From: r.From, To: r.To}}
	case BuildStation:
		return &PlayerAction{Type: "station", PlayerName: name, Target: r.Target}
	}
	return nil
}

// JoinAction is the echo of a player entering the game.
func JoinAction(name string) *PlayerAction {
	return &PlayerAction{Type: "join", PlayerName: name}
}

// Response is an in-game message from the server to one endpoint.
type Response interface{ isResponse() }

// GameStateUpdate carries a fresh per-player projection of the state.
type GameStateUpdate struct {
	State  engine.GameStateView `json:"state"`
	Action *PlayerAction        `json:"action,omitempty"`
}

// PlayerResult is one player's final standing: public state, revealed
// tickets, the score breakdown and the total.
type PlayerResult struct {
	Player  engine.PlayerView  `json:"player"`
	Tickets []engine.Ticket    `json:"tickets"`
	Score   engine.PlayerScore `json:"score"`
	Points  int                `json:"points"`
}

// GameEnd announces the end of the game with everyone's tickets open.
type GameEnd struct {
	Players []PlayerResult `json:"players"`
	Action  *PlayerAction  `json:"action,omitempty"`
}

// ErrorResponse reports a rejected request to its sender only.
type ErrorResponse struct {
	Text string `json:"text"`
}

// ChatNote relays a chat message to everyone.
type ChatNote struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// ObserverUpdate carries the observer projection of the state.
type ObserverUpdate struct {
	State  engine.GameStateForObserver `json:"state"`
	Action *PlayerAction               `json:"action,omitempty"`
}

// Pong answers a Ping.
type Pong struct{}

func (GameStateUpdate) isResponse() {}
func (GameEnd) isResponse()         {}
func (ErrorResponse) isResponse()   {}
func (ChatNote) isResponse()        {}
func (ObserverUpdate) isResponse()  {}
func (Pong) isResponse()            {}

// MarshalResponse encodes a server message.
func MarshalResponse(r Response) ([]byte, error) {
	switch r := r.(type) {
	case GameStateUpdate:
		return marshalTagged("state", r)
	case GameEnd:
		return marshalTagged("end", r)
	case ErrorResponse:
		return marshalTagged("error", r)
	case ChatNote:
		return marshalTagged("message", r)
	case ObserverUpdate:
		return marshalTagged("state", r)
	case Pong:
		return marshalTagged("pong", r)
	}
	return nil, fmt.Errorf("unknown response %T", r)
}

// UnmarshalResponse decodes a server message as seen by a player
// client. Observer clients decode the same "state" tag into an
// ObserverUpdate with UnmarshalObserverResponse.
func UnmarshalResponse(data []byte) (Response, error) {
	tag, err := messageType(data)
	if err != nil {
		return nil, err
	}
	switch tag {
	case "state":
		var r GameStateUpdate
		return r, json.Unmarshal(data, &r)
	case "end":
		var r GameEnd
		return r, json.Unmarshal(data, &r)
	case "error":
		var r ErrorResponse
		return r, json.Unmarshal(data, &r)
	case "message":
		var r ChatNote
		return r, json.Unmarshal(data, &r)
	case "pong":
		return Pong{}, nil
	}
	return nil, fmt.Errorf("unknown response type %q", tag)
}

// UnmarshalObserverResponse decodes a server message as seen by an
// observer client.
func UnmarshalObserverResponse(data []byte) (Response, error) {
	tag, err := messageType(data)
	if err != nil {
		return nil, err
	}
	if tag == "state" {
		var r ObserverUpdate
		return r, json.Unmarshal(data, &r)
	}
	return UnmarshalResponse(data)
}
