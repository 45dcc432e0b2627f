package wire

import (
	"encoding/json"
	"errors"
	"fmt"
)

// IDField is the JSON key that carries the message identifier.
const IDField = "msgId"

// PayloadField is the JSON key that carries the message payload.
const PayloadField = "payload"

// Wire errors.
var (
	// ErrDecode indicates a frame that is not well-formed or lacks an identifier.
	ErrDecode = errors.New("decode error")

	// ErrEncode indicates a payload that cannot be serialized.
	ErrEncode = errors.New("encode error")

	// ErrEmptyID indicates an empty message identifier.
	ErrEmptyID = errors.New("empty message id")
)

// Message is a decoded accessory message.
type Message struct {
	// ID is the application-chosen identifier; receivers dispatch on it.
	ID string `json:"msgId"`

	// Payload is the raw JSON payload ("null" when absent).
	Payload json.RawMessage `json:"payload"`
}

// NewMessage builds a Message by serializing payload.
func NewMessage(id string, payload any) (Message, error) {
	if id == "" {
		return Message{}, ErrEmptyID
	}
	raw, err := marshalPayload(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{ID: id, Payload: raw}, nil
}

// DecodePayload unmarshals the payload into v.
func (m Message) DecodePayload(v any) error {
	if len(m.Payload) == 0 {
		return json.Unmarshal([]byte("null"), v)
	}
	return json.Unmarshal(m.Payload, v)
}

// MessageID returns the identifier, so a Message can be sent as-is.
func (m Message) MessageID() string {
	return m.ID
}

// String returns a short human-readable form.
func (m Message) String() string {
	return fmt.Sprintf("%s %s", m.ID, string(m.Payload))
}

// Identifier is implemented by payloads that carry their own message ID.
type Identifier interface {
	MessageID() string
}

// marshalPayload serializes a payload to compact JSON.
// Messages and raw JSON are passed through without double encoding.
func marshalPayload(payload any) (json.RawMessage, error) {
	switch p := payload.(type) {
	case Message:
		payload = p.Payload
	case *Message:
		payload = p.Payload
	}
	if raw, ok := payload.(json.RawMessage); ok && len(raw) == 0 {
		return json.RawMessage("null"), nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return data, nil
}

var _ Identifier = Message{}
