package transport

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/gearlink/gearlink-go/pkg/log"
)

// ControlType identifies a frame on ChannelControl.
type ControlType uint8

const (
	// ControlPing requests a pong with the same sequence.
	ControlPing ControlType = 1

	// ControlPong answers a ping.
	ControlPong ControlType = 2

	// ControlClose announces that the sender is closing the link.
	ControlClose ControlType = 3
)

// String returns the control type name.
func (t ControlType) String() string {
	switch t {
	case ControlPing:
		return "PING"
	case ControlPong:
		return "PONG"
	case ControlClose:
		return "CLOSE"
	default:
		return "UNKNOWN"
	}
}

// logType maps the control type to its protocol log equivalent.
func (t ControlType) logType() log.ControlMsgType {
	switch t {
	case ControlPong:
		return log.ControlMsgPong
	case ControlClose:
		return log.ControlMsgClose
	default:
		return log.ControlMsgPing
	}
}

// ErrControlMalformed indicates a control or hello frame that cannot be parsed.
var ErrControlMalformed = errors.New("malformed control frame")

// ControlMessage is the body of a ChannelControl frame.
type ControlMessage struct {
	Type     ControlType `cbor:"1,keyasint"`
	Sequence uint32      `cbor:"2,keyasint,omitempty"`
}

// Hello is exchanged once on ChannelHello when a link opens. The dialer
// names the profile it wants; the listener answers with Accepted. Both
// sides announce their protocol version.
type Hello struct {
	Profile  string `cbor:"1,keyasint"`
	Name     string `cbor:"2,keyasint,omitempty"`
	Accepted bool   `cbor:"3,keyasint,omitempty"`
	Version  string `cbor:"4,keyasint,omitempty"`
}

// EncodeControl encodes a control message.
func EncodeControl(msg ControlMessage) ([]byte, error) {
	return cbor.Marshal(msg)
}

// DecodeControl decodes a control message.
func DecodeControl(data []byte) (ControlMessage, error) {
	var msg ControlMessage
	if err := cbor.Unmarshal(data, &msg); err != nil {
		return ControlMessage{}, fmt.Errorf("%w: %v", ErrControlMalformed, err)
	}
	if msg.Type < ControlPing || msg.Type > ControlClose {
		return ControlMessage{}, fmt.Errorf("%w: type %d", ErrControlMalformed, msg.Type)
	}
	return msg, nil
}

// EncodeHello encodes a hello.
func EncodeHello(h Hello) ([]byte, error) {
	return cbor.Marshal(h)
}

// DecodeHello decodes a hello.
func DecodeHello(data []byte) (Hello, error) {
	var h Hello
	if err := cbor.Unmarshal(data, &h); err != nil {
		return Hello{}, fmt.Errorf("%w: %v", ErrControlMalformed, err)
	}
	return h, nil
}
