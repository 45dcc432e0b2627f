package log

import (
	"time"
)

// Event is one protocol log record. Exactly one payload pointer is set.
// CBOR keys are integers; Header uses keys from 100 up.
type Event struct {
	Timestamp    time.Time `cbor:"1,keyasint"`
	ConnectionID string    `cbor:"2,keyasint"` // UUID per client connection or socket
	Direction    Direction `cbor:"3,keyasint"`
	Layer        Layer     `cbor:"4,keyasint"`
	Category     Category  `cbor:"5,keyasint"`
	LocalRole    Role      `cbor:"6,keyasint,omitempty"`
	RemoteAddr   string    `cbor:"7,keyasint,omitempty"`
	PeerID       string    `cbor:"8,keyasint,omitempty"`
	Channel      *int      `cbor:"9,keyasint,omitempty"`

	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"`
	Message     *MessageEvent     `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	ControlMsg  *ControlMsgEvent  `cbor:"13,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"`
	Device      *DeviceEvent      `cbor:"15,keyasint,omitempty"`
}

// enumName returns names[v], or "UNKNOWN" when v is out of range.
func enumName[T ~uint8](names []string, v T) string {
	if int(v) < len(names) {
		return names[v]
	}
	return "UNKNOWN"
}

// Direction of a frame or message relative to the logging side.
type Direction uint8

const (
	DirectionIn Direction = iota
	DirectionOut
)

var directionNames = []string{"IN", "OUT"}

func (d Direction) String() string { return enumName(directionNames, d) }

// Layer is where an event was captured.
type Layer uint8

const (
	LayerTransport Layer = iota // raw frames
	LayerWire                   // decoded messages
	LayerService                // accessory client and platform
)

var layerNames = []string{"TRANSPORT", "WIRE", "SERVICE"}

func (l Layer) String() string { return enumName(layerNames, l) }

// Category classifies an event.
type Category uint8

const (
	CategoryMessage Category = iota
	CategoryControl
	CategoryState
	CategoryError
	CategoryDevice
)

var categoryNames = []string{"MESSAGE", "CONTROL", "STATE", "ERROR", "DEVICE"}

func (c Category) String() string { return enumName(categoryNames, c) }

// Role is the side of the link that logged the event. The host discovers
// and connects; the accessory advertises and accepts.
type Role uint8

const (
	RoleHost Role = iota
	RoleAccessory
)

var roleNames = []string{"HOST", "ACCESSORY"}

func (r Role) String() string { return enumName(roleNames, r) }

// FrameEvent is a transport frame. Size includes the frame header; Data is
// cut to MaxCapture bytes.
type FrameEvent struct {
	Size      int    `cbor:"1,keyasint"`
	Data      []byte `cbor:"2,keyasint,omitempty"`
	Truncated bool   `cbor:"3,keyasint,omitempty"`
}

// MessageEvent is a decoded message. ID is the receive-side topic.
type MessageEvent struct {
	ID      string `cbor:"1,keyasint"`
	Codec   string `cbor:"2,keyasint,omitempty"`
	Size    int    `cbor:"3,keyasint,omitempty"`
	Payload []byte `cbor:"4,keyasint,omitempty"`
}

// StateChangeEvent records a lifecycle transition. Attempt is the client's
// connection attempt number.
type StateChangeEvent struct {
	Entity   StateEntity `cbor:"1,keyasint"`
	OldState string      `cbor:"2,keyasint,omitempty"`
	NewState string      `cbor:"3,keyasint"`
	Reason   string      `cbor:"4,keyasint,omitempty"`
	Attempt  uint64      `cbor:"5,keyasint,omitempty"`
}

// StateEntity is what changed state.
type StateEntity uint8

const (
	StateEntityConnection    StateEntity = iota // client connection machine
	StateEntitySocket                           // transport socket open/close
	StateEntityAdvertisement                    // mDNS advertisement
)

var stateEntityNames = []string{"CONNECTION", "SOCKET", "ADVERTISEMENT"}

func (s StateEntity) String() string { return enumName(stateEntityNames, s) }

// ControlMsgEvent is a transport control frame. Profile is set for hellos.
type ControlMsgEvent struct {
	Type    ControlMsgType `cbor:"1,keyasint"`
	Profile string         `cbor:"2,keyasint,omitempty"`
}

// ControlMsgType is the kind of control frame.
type ControlMsgType uint8

const (
	ControlMsgPing ControlMsgType = iota
	ControlMsgPong
	ControlMsgClose
	ControlMsgHello
)

var controlMsgNames = []string{"PING", "PONG", "CLOSE", "HELLO"}

func (c ControlMsgType) String() string { return enumName(controlMsgNames, c) }

// DeviceEvent is a platform attach/detach report. Status is ATTACHED or
// DETACHED.
type DeviceEvent struct {
	Type   string `cbor:"1,keyasint"`
	Status string `cbor:"2,keyasint"`
}

// ErrorEventData is an error at any layer. Code carries a platform error
// code; Context names the operation in progress.
type ErrorEventData struct {
	Layer   Layer  `cbor:"1,keyasint"`
	Message string `cbor:"2,keyasint"`
	Code    string `cbor:"3,keyasint,omitempty"`
	Context string `cbor:"4,keyasint,omitempty"`
}
