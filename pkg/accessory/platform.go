package accessory

// DeviceStatus is the attach state reported by the device-status provider.
type DeviceStatus string

const (
	// DeviceAttached reports a device that became available.
	DeviceAttached DeviceStatus = "ATTACHED"

	// DeviceDetached reports a device that went away.
	DeviceDetached DeviceStatus = "DETACHED"
)

// DeviceStatusListener receives device attach/detach reports.
type DeviceStatusListener func(deviceType string, status DeviceStatus)

// DeviceStatusProvider reports devices appearing and disappearing.
type DeviceStatusProvider interface {
	// SetDeviceStatusListener replaces the listener. It fails when the
	// platform cannot report device status.
	SetDeviceStatusListener(fn DeviceStatusListener) error
}

// AgentProvider hands out local service agents.
type AgentProvider interface {
	// RequestAgent asynchronously resolves the local agents. Exactly one of
	// onSuccess or onError is called. A returned error means neither will be.
	RequestAgent(onSuccess func([]Agent), onError func(error)) error
}

// Platform is everything a Client needs from the underlying accessory
// transport.
type Platform interface {
	DeviceStatusProvider
	AgentProvider
}

// ServiceConnectionListener receives the outcome of service connection
// requests.
type ServiceConnectionListener struct {
	OnConnect func(Socket)
	OnError   func(error)
}

// PeerAgentFindListener receives peer discovery results.
type PeerAgentFindListener struct {
	OnPeerAgentFound func(PeerAgent)
	OnError          func(error)
}

// Agent is the local service agent for one service profile.
type Agent interface {
	SetServiceConnectionListener(l ServiceConnectionListener)
	SetPeerAgentFindListener(l PeerAgentFindListener)

	// FindPeerAgents starts peer discovery. Results arrive on the peer
	// find listener.
	FindPeerAgents() error

	// RequestServiceConnection asks peer for a service connection. The
	// outcome arrives on the service connection listener.
	RequestServiceConnection(peer PeerAgent) error
}

// PeerAgent is a discovered remote accessory.
type PeerAgent interface {
	// PeerID identifies the accessory for logging.
	PeerID() string
}

// Socket is a live channel-multiplexed service connection.
type Socket interface {
	SetDataReceiveListener(fn func(channel int, data string))

	// SetSocketStatusListener sets the listener for transport loss. It is
	// not called for a local Close.
	SetSocketStatusListener(fn func(detail error))

	SendData(channel int, data string) error
	IsConnected() bool
	Close() error
}

// PeerNamer is implemented by sockets that know which accessory they reach.
// The client uses it to attribute a socket when several peers were requested.
type PeerNamer interface {
	PeerName() string
}
