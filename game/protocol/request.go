package protocol

import (
	"encoding/json"
	"fmt"

	"ticketgame/game/engine"
)

// Request is an in-game message from a connected player.
type Request interface{ isRequest() }

// ChatMessage relays free text to everyone in the game.
type ChatMessage struct {
	Message string `json:"message"`
}

// LeaveGame gives up the rest of the player's turns; the seat stays.
type LeaveGame struct{}

// ConfirmTickets resolves the sender's pending ticket choice.
type ConfirmTickets struct {
	TicketsToKeep []engine.Ticket `json:"ticketsToKeep"`
}

// PickLoco takes a single open loco card.
type PickLoco struct {
	Ix int `json:"ix"`
}

// PickTwoCards draws two cards from the open row or the closed deck.
type PickTwoCards struct {
	Cards [2]engine.CardPick `json:"cards"`
}

// PickTickets asks for a new ticket choice.
type PickTickets struct{}

// BuildSegment occupies a map segment with the given cards.
type BuildSegment struct {
	From  engine.CityID `json:"from"`
	To    engine.CityID `json:"to"`
	Cards []engine.Card `json:"cards"`
}

// BuildStation places a station on a city with the given cards.
type BuildStation struct {
	Target engine.CityID `json:"target"`
	Cards  []engine.Card `json:"cards"`
}

// Ping is answered with a Pong and has no game effect.
type Ping struct{}

func (ChatMessage) isRequest()    {}
func (LeaveGame) isRequest()      {}
func (ConfirmTickets) isRequest() {}
func (PickLoco) isRequest()       {}
func (PickTwoCards) isRequest()   {}
func (PickTickets) isRequest()    {}
func (BuildSegment) isRequest()   {}
func (BuildStation) isRequest()   {}
func (Ping) isRequest()           {}

// MarshalRequest encodes an in-game request.
func MarshalRequest(r Request) ([]byte, error) {
	switch r := r.(type) {
	case ChatMessage:
		return marshalTagged("message", r)
	case LeaveGame:
		return marshalTagged("leave", r)
	case ConfirmTickets:
		return marshalTagged("confirmTickets", r)
	case PickLoco:
		return marshalTagged("pickLoco", r)
	case PickTwoCards:
		return marshalTagged("pickTwoCards", r)
	case PickTickets:
		return marshalTagged("pickTickets", r)
	case BuildSegment:
		return marshalTagged("build", r)
	case BuildStation:
		return marshalTagged("station", r)
	case Ping:
		return marshalTagged("ping", r)
	}
	return nil, fmt.Errorf("unknown request %T", r)
}

// UnmarshalRequest decodes an in-game request.
func UnmarshalRequest(data []byte) (Request, error) {
	tag, err := messageType(data)
	if err != nil {
		return nil, err
	}
	switch tag {
	case "message":
		var r ChatMessage
		return r, json.Unmarshal(data, &r)
	case "leave":
		return LeaveGame{}, nil
	case "confirmTickets":
		var r ConfirmTickets
		return r, json.Unmarshal(data, &r)
	case "pickLoco":
		var r PickLoco
		return r, json.Unmarshal(data, &r)
	case "pickTwoCards":
		var r PickTwoCards
		return r, json.Unmarshal(data, &r)
	case "pickTickets":
		return PickTickets{}, nil
	case "build":
		var r BuildSegment
		return r, json.Unmarshal(data, &r)
	case "station":
		var r BuildStation
		return r, json.Unmarshal(data, &r)
	case "ping":
		return Ping{}, nil
	}
	return nil, fmt.Errorf("unknown request type %q", tag)
}
