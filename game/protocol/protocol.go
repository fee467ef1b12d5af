// Package protocol defines the websocket wire format: tagged JSON
// unions for the connection handshake, in-game client requests and
// server responses. Every message is a JSON object carrying a "type"
// discriminator next to its payload fields.
package protocol

import (
	"encoding/json"
	"fmt"
)

func marshalTagged(tag string, v any) ([]byte, error) {
	fields := make(map[string]json.RawMessage)
	if v != nil {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
	}
	fields["type"], _ = json.Marshal(tag)
	return json.Marshal(fields)
}

func messageType(data []byte) (string, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("malformed message: %w", err)
	}
	if env.Type == "" {
		return "", fmt.Errorf("message carries no type")
	}
	return env.Type, nil
}
