package accessory

import "github.com/gearlink/gearlink-go/pkg/wire"

// Notification topics.
const (
	TopicConnectSuccess        = "connect.success"
	TopicConnectError          = "connect.error"
	TopicPeerAgentError        = "peeragent.error"
	TopicServiceConnectSuccess = "service.connect.success"
	TopicServiceConnectError   = "service.connect.error"
	TopicSocketStatus          = "service.socket.status"
	TopicDeviceAttached        = "device.attached"
	TopicDeviceDetached        = "device.detached"
	TopicDecodeError           = "message.decode.error"
)

// SocketLost is the SocketStatus.Status value for a lost transport.
const SocketLost = "lost"

// Status is the payload of the connect and service.connect topics.
type Status struct {
	Status bool   `json:"status"`
	Data   string `json:"data,omitempty"`

	// Peer is the accessory the notification concerns, "" before one is found.
	Peer string `json:"-"`
	// Err is the classified error for failures.
	Err error `json:"-"`
}

// PeerAgentError is the payload of peeragent.error.
type PeerAgentError struct {
	ErrorCode string `json:"errorCode"`
	Err       error  `json:"-"`
}

// SocketStatus is the payload of service.socket.status.
type SocketStatus struct {
	Status string `json:"status"`
	Data   string `json:"data,omitempty"`
	Peer   string `json:"-"`
	Err    error  `json:"-"`
}

// DeviceEvent is the payload of device.attached and device.detached.
type DeviceEvent struct {
	Type string `json:"type"`
}

// DecodeError is the payload of message.decode.error.
type DecodeError struct {
	Channel int    `json:"channel"`
	Data    string `json:"data"`
	Err     error  `json:"-"`
}

// Received is the payload published under a received message's identifier.
type Received struct {
	Channel int          `json:"channel"`
	Message wire.Message `json:"message"`
}
