package protocol

import (
	"encoding/json"
	"fmt"

	"ticketgame/game/engine"
)

// ConnectRequest is the first message a client sends after the
// websocket upgrade. It decides how the endpoint enters the game.
type ConnectRequest interface{ isConnectRequest() }

// StartGame creates a new game on the connection's game id and seats
// the sender as its first player.
type StartGame struct {
	PlayerName      string             `json:"playerName"`
	PlayerColor     engine.PlayerColor `json:"playerColor"`
	MapName         string             `json:"mapName,omitempty"`
	CarsCount       int                `json:"carsCount,omitempty"`
	ScoreDuringPlay bool               `json:"calculateScoresInProcess,omitempty"`
}

// JoinGame seats the sender as a new player in an existing game.
type JoinGame struct {
	PlayerName  string             `json:"playerName"`
	PlayerColor engine.PlayerColor `json:"playerColor"`
}

// ReconnectGame reattaches the sender to a seat they already hold.
type ReconnectGame struct {
	PlayerName string `json:"playerName"`
}

// ObserveGame attaches the sender as a non-playing observer.
type ObserveGame struct{}

func (StartGame) isConnectRequest()     {}
func (JoinGame) isConnectRequest()      {}
func (ReconnectGame) isConnectRequest() {}
func (ObserveGame) isConnectRequest()   {}

// ConnectErrorCode classifies a refused connection.
type ConnectErrorCode string

const (
	GameIDTaken      ConnectErrorCode = "gameIdTaken"
	NoSuchGame       ConnectErrorCode = "noSuchGame"
	NoSuchPlayer     ConnectErrorCode = "noSuchPlayer"
	PlayerNameTaken  ConnectErrorCode = "playerNameTaken"
	PlayerColorTaken ConnectErrorCode = "playerColorTaken"
	CannotConnect    ConnectErrorCode = "cannotConnect"
)

// ConnectSuccess acknowledges the handshake; game messages follow.
type ConnectSuccess struct {
	GameID engine.GameID `json:"gameId"`
}

// ConnectFailure refuses the handshake and closes the connection.
type ConnectFailure struct {
	Code ConnectErrorCode `json:"code"`
}

func (e ConnectFailure) Error() string { return string(e.Code) }

// MarshalConnectRequest encodes a handshake message.
func MarshalConnectRequest(r ConnectRequest) ([]byte, error) {
	switch r := r.(type) {
	case StartGame:
		return marshalTagged("start", r)
	case JoinGame:
		return marshalTagged("join", r)
	case ReconnectGame:
		return marshalTagged("reconnect", r)
	case ObserveGame:
		return marshalTagged("observe", r)
	}
	return nil, fmt.Errorf("unknown connect request %T", r)
}

// UnmarshalConnectRequest decodes a handshake message.
func UnmarshalConnectRequest(data []byte) (ConnectRequest, error) {
	tag, err := messageType(data)
	if err != nil {
		return nil, err
	}
	switch tag {
	case "start":
		var r StartGame
		return r, json.Unmarshal(data, &r)
	case "join":
		var r JoinGame
		return r, json.Unmarshal(data, &r)
	case "reconnect":
		var r ReconnectGame
		return r, json.Unmarshal(data, &r)
	case "observe":
		return ObserveGame{}, nil
	}
	return nil, fmt.Errorf("unknown connect request type %q", tag)
}

// MarshalConnectResponse encodes the handshake reply.
func MarshalConnectResponse(success *ConnectSuccess, failure *ConnectFailure) ([]byte, error) {
	if failure != nil {
		return marshalTagged("failure", failure)
	}
	return marshalTagged("success", success)
}

// UnmarshalConnectResponse decodes the handshake reply. A nil error
// with a non-nil failure means the server refused the connection.
func UnmarshalConnectResponse(data []byte) (*ConnectSuccess, *ConnectFailure, error) {
	tag, err := messageType(data)
	if err != nil {
		return nil, nil, err
	}
	switch tag {
	case "success":
		var r ConnectSuccess
		return &r, nil, json.Unmarshal(data, &r)
	case "failure":
		var r ConnectFailure
		return nil, &r, json.Unmarshal(data, &r)
	}
	return nil, nil, fmt.Errorf("unknown connect response type %q", tag)
}
