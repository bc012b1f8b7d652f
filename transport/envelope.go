// Package transport carries the session package's Endpoint over a
// WebSocket connection: the wire envelope codec and the read loop
// that turns inbound JSON into session.Manager calls.
package transport

import (
	"encoding/json"
	"fmt"
)

// envelope is the wire shape of every message in both directions:
// {"route": ..., "action": ..., "value": ..., "id": ...}. id is the
// correlation token a response echoes back; inbound requests may omit
// it, outbound pushes the server originates always omit it.
type envelope struct {
	Route  string          `json:"route"`
	Action string          `json:"action"`
	Value  json.RawMessage `json:"value,omitempty"`
	ID     string          `json:"id,omitempty"`
}

func decodeEnvelope(raw []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return envelope{}, fmt.Errorf("transport: malformed envelope: %w", err)
	}
	if env.Route == "" || env.Action == "" {
		return envelope{}, fmt.Errorf("transport: envelope missing route/action")
	}
	return env, nil
}

func encodeEnvelope(route, action string, payload interface{}, correlationID string) ([]byte, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("transport: encode payload: %w", err)
	}
	return json.Marshal(envelope{
		Route:  route,
		Action: action,
		Value:  value,
		ID:     correlationID,
	})
}
