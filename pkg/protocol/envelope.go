// ABOUTME: Helpers for encoding and decoding the message envelope
// ABOUTME: Payload round-trips through JSON since its static type depends on the envelope's type field
package protocol

import (
	"encoding/json"
	"fmt"
)

// Encode wraps a typed payload in an envelope ready for json.Marshal.
func Encode(msgType string, payload interface{}) Message {
	return Message{Type: msgType, Payload: payload}
}

// DecodePayload re-marshals a decoded envelope's Payload (a
// map[string]interface{} after generic json.Unmarshal) into a concrete
// struct. Call after unmarshaling a Message to recover its typed payload.
func DecodePayload(msg Message, target interface{}) error {
	raw, err := json.Marshal(msg.Payload)
	if err != nil {
		return fmt.Errorf("protocol: re-marshal payload: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("protocol: decode %s payload: %w", msg.Type, err)
	}
	return nil
}
