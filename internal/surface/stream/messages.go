package stream

import json "github.com/goccy/go-json"

// Message types streamed to overlay subscribers.
const (
	TypeCreate = "marker_create"
	TypeUpdate = "marker_update"
	TypeAttach = "marker_attach"
	TypeDetach = "marker_detach"
	TypeRemove = "marker_remove"
)

// Envelope wraps every frame on the wire.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MarkerPayload carries one marker operation.
type MarkerPayload struct {
	Handle   uint64  `json:"handle"`
	Label    string  `json:"label,omitempty"`
	Category string  `json:"category,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Attached bool    `json:"attached"`
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}
