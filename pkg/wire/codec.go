package wire

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Codec converts messages to and from transport strings.
type Codec interface {
	// Name returns the codec name used in configuration.
	Name() string

	// Encode produces a transport string carrying id and payload.
	Encode(id string, payload any) (string, error)

	// Decode parses a transport string. Errors wrap ErrDecode.
	Decode(raw string) (Message, error)
}

// CodecByName returns the codec registered under name.
// An empty name selects JSON.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "cbor":
		return CBORCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

// JSONCodec encodes messages as {"msgId": id, "payload": payload}.
type JSONCodec struct{}

// Name returns "json".
func (JSONCodec) Name() string { return "json" }

// Encode serializes the message envelope.
func (JSONCodec) Encode(id string, payload any) (string, error) {
	msg, err := NewMessage(id, payload)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return string(data), nil
}

// Decode parses an envelope. A frame without a payload key is treated as a
// flat message whose payload is the whole object.
func (JSONCodec) Decode(raw string) (Message, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if fields == nil {
		return Message{}, fmt.Errorf("%w: frame is not an object", ErrDecode)
	}

	idRaw, ok := fields[IDField]
	if !ok {
		return Message{}, fmt.Errorf("%w: missing %s", ErrDecode, IDField)
	}
	var id string
	if err := json.Unmarshal(idRaw, &id); err != nil {
		return Message{}, fmt.Errorf("%w: %s is not a string", ErrDecode, IDField)
	}
	if id == "" {
		return Message{}, fmt.Errorf("%w: %v", ErrDecode, ErrEmptyID)
	}

	payload, ok := fields[PayloadField]
	if !ok {
		payload = compact([]byte(raw))
	}
	return Message{ID: id, Payload: payload}, nil
}

// compact strips insignificant whitespace from valid JSON.
func compact(data []byte) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return data
	}
	return buf.Bytes()
}

// encMode is the CBOR encoder mode for message envelopes.
// Configured for deterministic encoding with integer keys.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for message envelopes.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	// Lenient for forward compatibility: unknown keys are skipped.
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// cborEnvelope is the CBOR wire form of a Message.
type cborEnvelope struct {
	ID      string `cbor:"1,keyasint"`
	Payload []byte `cbor:"2,keyasint,omitempty"`
}

// CBORCodec encodes messages as a CBOR map {1: id, 2: payload JSON bytes}.
type CBORCodec struct{}

// Name returns "cbor".
func (CBORCodec) Name() string { return "cbor" }

// Encode serializes the message envelope.
func (CBORCodec) Encode(id string, payload any) (string, error) {
	msg, err := NewMessage(id, payload)
	if err != nil {
		return "", err
	}
	data, err := encMode.Marshal(cborEnvelope{ID: msg.ID, Payload: msg.Payload})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return string(data), nil
}

// Decode parses a CBOR envelope.
func (CBORCodec) Decode(raw string) (Message, error) {
	var env cborEnvelope
	if err := decMode.Unmarshal([]byte(raw), &env); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if env.ID == "" {
		return Message{}, fmt.Errorf("%w: missing %s", ErrDecode, IDField)
	}

	payload := json.RawMessage("null")
	if len(env.Payload) > 0 {
		if !json.Valid(env.Payload) {
			return Message{}, fmt.Errorf("%w: payload is not valid JSON", ErrDecode)
		}
		payload = env.Payload
	}
	return Message{ID: env.ID, Payload: payload}, nil
}

// Compile-time interface satisfaction checks.
var (
	_ Codec = JSONCodec{}
	_ Codec = CBORCodec{}
)
