package accessory

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gearlink/gearlink-go/pkg/connection"
	"github.com/gearlink/gearlink-go/pkg/eventbus"
	"github.com/gearlink/gearlink-go/pkg/log"
	"github.com/gearlink/gearlink-go/pkg/wire"
)

// Client drives one accessory link.
type Client struct {
	platform Platform
	config   ClientConfig

	bus     *eventbus.Bus
	codec   wire.Codec
	machine *connection.Machine
	loop    *loop

	logger         *slog.Logger
	protocolLogger log.Logger
	connID         string

	// mu pairs socket ownership with the machine's Connected state.
	mu     sync.Mutex
	agent  Agent
	socket Socket
	peerID string
	// requested lists the peers asked for a service connection this
	// attempt, oldest first.
	requested []string
}

// NewClient creates a client for platform. The client starts Disconnected.
func NewClient(platform Platform, config ClientConfig) (*Client, error) {
	if platform == nil {
		return nil, fmt.Errorf("accessory: platform is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		platform:       platform,
		config:         config,
		bus:            config.Bus,
		codec:          config.Codec,
		machine:        connection.NewMachine(),
		logger:         config.Logger,
		protocolLogger: config.ProtocolLogger,
		connID:         config.ConnectionID,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.bus == nil {
		c.bus = eventbus.New(eventbus.WithPanicHandler(c.handlerPanicked))
	}
	if c.connID == "" {
		c.connID = uuid.NewString()
	}
	c.loop = newLoop(c.logger)
	c.machine.OnStateChange(c.stateChanged)
	return c, nil
}

// Bus returns the event bus notifications are published on.
func (c *Client) Bus() *eventbus.Bus {
	return c.bus
}

// ConnectionID returns the identifier used in protocol log events.
func (c *Client) ConnectionID() string {
	return c.connID
}

// PeerID returns the peer of the current attempt, or "" between attempts.
// While Connected it is the peer the socket reaches.
func (c *Client) PeerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.peerID
}

// State returns the current connection state.
func (c *Client) State() connection.State {
	return c.machine.State()
}

// IsConnected reports whether the client is Connected. It has no side effects.
func (c *Client) IsConnected() bool {
	return c.machine.IsConnected()
}

// Err returns why the most recent attempt failed, if it did.
func (c *Client) Err() error {
	return c.machine.Err()
}

// Connect starts a new connection attempt and reports whether it did.
// It returns false while an attempt is in progress or connected, and when
// the device status listener cannot be registered; the latter also emits
// connect.error. Handshake results arrive as notifications.
func (c *Client) Connect() bool {
	if c.machine.State() != connection.StateDisconnected {
		c.logger.Debug("accessory: connect refused", "state", c.machine.State())
		return false
	}

	if err := c.platform.SetDeviceStatusListener(c.deviceStatus); err != nil {
		wrapped := fmt.Errorf("%w: %w", ErrListenerRegistration, err)
		c.logError(wrapped, "", "register device status listener")
		c.post(func() {
			c.bus.Publish(TopicConnectError, Status{Data: detail(err), Err: wrapped})
		})
		return false
	}

	attempt, err := c.machine.Begin()
	if err != nil {
		return false
	}
	c.resetAttempt()

	err = c.platform.RequestAgent(
		func(agents []Agent) {
			c.post(func() { c.agentsResolved(attempt, agents) })
		},
		func(err error) {
			c.post(func() { c.agentFailed(attempt, err) })
		},
	)
	if err != nil {
		c.post(func() { c.agentFailed(attempt, err) })
	}
	return true
}

// Close closes the socket when Connected and returns to Disconnected without
// a lost notification. It is a no-op otherwise.
func (c *Client) Close() {
	c.mu.Lock()
	s := c.socket
	if s == nil || !c.machine.Closed(c.machine.Attempt()) {
		c.mu.Unlock()
		return
	}
	c.socket = nil
	c.agent = nil
	c.peerID = ""
	c.requested = nil
	c.mu.Unlock()

	if err := s.Close(); err != nil {
		c.logger.Debug("accessory: socket close", "error", err)
	}
}

// Shutdown closes the link and stops the dispatch goroutine. Notifications
// already queued are delivered first. Must not be called from a bus handler.
func (c *Client) Shutdown() {
	c.Close()
	c.loop.stop()
}

// SendData sends payload on channel. The identifier comes from the payload
// when it implements wire.Identifier (wire.Message does), otherwise the
// configured default is used.
func (c *Client) SendData(channel int, payload any) error {
	id := c.config.DefaultMessageID
	if ider, ok := payload.(wire.Identifier); ok && ider.MessageID() != "" {
		id = ider.MessageID()
	}
	return c.SendMessage(channel, id, payload)
}

// SendMessage sends payload under id on channel. It fails with
// ErrNotConnected unless the client is Connected and the socket is live,
// and never transmits in that case.
func (c *Client) SendMessage(channel int, id string, payload any) error {
	c.mu.Lock()
	s := c.socket
	connected := c.machine.IsConnected()
	peerID := c.peerID
	c.mu.Unlock()

	if !connected || s == nil || !s.IsConnected() {
		return ErrNotConnected
	}

	raw, err := c.codec.Encode(id, payload)
	if err != nil {
		return err
	}
	if err := s.SendData(channel, raw); err != nil {
		return fmt.Errorf("send on channel %d: %w", channel, err)
	}
	c.logMessage(log.DirectionOut, channel, peerID, id, raw)
	return nil
}

// post queues fn on the dispatch loop.
func (c *Client) post(fn func()) {
	if !c.loop.post(fn) {
		c.logger.Debug("accessory: callback after shutdown dropped")
	}
}

// deviceStatus runs on the platform's goroutine and only posts.
func (c *Client) deviceStatus(deviceType string, status DeviceStatus) {
	var topic string
	switch status {
	case DeviceAttached:
		topic = TopicDeviceAttached
	case DeviceDetached:
		topic = TopicDeviceDetached
	default:
		c.logger.Warn("accessory: unknown device status", "type", deviceType, "status", status)
		return
	}
	c.post(func() {
		c.logDevice(deviceType, status)
		c.bus.Publish(topic, DeviceEvent{Type: deviceType})
	})
}

// The methods below run on the dispatch loop.

func (c *Client) agentsResolved(attempt uint64, agents []Agent) {
	if len(agents) == 0 {
		c.agentFailed(attempt, ErrNoAgent)
		return
	}
	agent := agents[0]
	if !c.machine.AgentAcquired(attempt) {
		c.logger.Debug("accessory: stale agent result ignored", "attempt", attempt)
		return
	}
	c.mu.Lock()
	c.agent = agent
	c.mu.Unlock()

	agent.SetServiceConnectionListener(ServiceConnectionListener{
		OnConnect: func(s Socket) {
			c.post(func() { c.serviceEstablished(attempt, s) })
		},
		OnError: func(err error) {
			c.post(func() { c.serviceFailed(attempt, c.PeerID(), err) })
		},
	})
	agent.SetPeerAgentFindListener(PeerAgentFindListener{
		OnPeerAgentFound: func(peer PeerAgent) {
			c.post(func() { c.peerFound(attempt, agent, peer) })
		},
		OnError: func(err error) {
			c.post(func() { c.peerDiscoveryFailed(attempt, err) })
		},
	})

	if err := agent.FindPeerAgents(); err != nil {
		c.peerDiscoveryFailed(attempt, err)
		return
	}
	c.bus.Publish(TopicConnectSuccess, Status{Status: true})
}

func (c *Client) agentFailed(attempt uint64, err error) {
	wrapped := fmt.Errorf("%w: %w", ErrAgentRequest, err)
	if !c.machine.AgentFailed(attempt, wrapped) {
		return
	}
	c.resetAttempt()
	c.logError(wrapped, "", "request agent")
	c.bus.Publish(TopicConnectError, Status{Data: detail(err), Err: wrapped})
}

func (c *Client) peerFound(attempt uint64, agent Agent, peer PeerAgent) {
	if !c.machine.PeerFound(attempt) {
		c.logger.Debug("accessory: peer ignored", "peer", peer.PeerID(), "state", c.machine.State())
		return
	}
	id := peer.PeerID()
	c.mu.Lock()
	c.requested = append(c.requested, id)
	if c.peerID == "" {
		c.peerID = id
	}
	c.mu.Unlock()
	c.logger.Debug("accessory: peer found", "peer", id)

	if err := agent.RequestServiceConnection(peer); err != nil {
		c.serviceFailed(attempt, id, err)
	}
}

func (c *Client) peerDiscoveryFailed(attempt uint64, err error) {
	wrapped := fmt.Errorf("%w: %w", ErrPeerDiscovery, err)
	if !c.machine.PeerDiscoveryFailed(attempt, wrapped) {
		c.logger.Debug("accessory: peer discovery error ignored", "error", err, "state", c.machine.State())
		return
	}
	c.resetAttempt()
	code := ErrorCode(err)
	c.logError(wrapped, code, "find peer agents")
	c.bus.Publish(TopicPeerAgentError, PeerAgentError{ErrorCode: code, Err: wrapped})
}

func (c *Client) serviceEstablished(attempt uint64, s Socket) {
	c.mu.Lock()
	if !c.machine.ServiceEstablished(attempt) {
		c.mu.Unlock()
		c.logger.Debug("accessory: extra service connection closed", "state", c.machine.State())
		_ = s.Close()
		return
	}
	c.socket = s
	c.peerID = c.socketPeer(s)
	c.requested = nil
	peer := c.peerID
	c.mu.Unlock()

	s.SetDataReceiveListener(func(channel int, data string) {
		c.post(func() { c.receive(s, channel, data) })
	})
	s.SetSocketStatusListener(func(cause error) {
		c.post(func() { c.socketLost(attempt, s, cause) })
	})
	c.bus.Publish(TopicServiceConnectSuccess, Status{Status: true, Peer: peer})
}

// socketPeer names the peer s reaches: its own report when it has one,
// else the oldest outstanding request. Callers hold c.mu.
func (c *Client) socketPeer(s Socket) string {
	if namer, ok := s.(PeerNamer); ok {
		if name := namer.PeerName(); name != "" {
			return name
		}
	}
	if len(c.requested) > 0 {
		return c.requested[0]
	}
	return c.peerID
}

func (c *Client) serviceFailed(attempt uint64, peer string, err error) {
	wrapped := fmt.Errorf("%w: %w", ErrServiceConnection, err)
	if !c.machine.ServiceFailed(attempt, wrapped) {
		c.logger.Debug("accessory: service error ignored", "error", err, "state", c.machine.State())
		return
	}
	c.resetAttempt()
	c.logError(wrapped, ErrorCode(err), "request service connection")
	c.bus.Publish(TopicServiceConnectError, Status{Data: detail(err), Peer: peer, Err: wrapped})
}

func (c *Client) socketLost(attempt uint64, s Socket, cause error) {
	c.mu.Lock()
	if c.socket != s || !c.machine.Lost(attempt, cause) {
		c.mu.Unlock()
		return
	}
	c.socket = nil
	c.agent = nil
	peer := c.peerID
	c.peerID = ""
	c.mu.Unlock()

	c.bus.Publish(TopicSocketStatus, SocketStatus{
		Status: SocketLost,
		Data:   detail(cause),
		Peer:   peer,
		Err:    fmt.Errorf("%w: %w", ErrSocketLost, cause),
	})
}

func (c *Client) receive(s Socket, channel int, data string) {
	c.mu.Lock()
	current := c.socket == s
	peerID := c.peerID
	c.mu.Unlock()
	if !current {
		return
	}

	msg, err := c.codec.Decode(data)
	if err != nil {
		c.logError(err, "", fmt.Sprintf("decode on channel %d", channel))
		c.bus.Publish(TopicDecodeError, DecodeError{Channel: channel, Data: data, Err: err})
		return
	}
	c.logMessage(log.DirectionIn, channel, peerID, msg.ID, data)
	c.bus.Publish(msg.ID, Received{Channel: channel, Message: msg})
}

func (c *Client) resetAttempt() {
	c.mu.Lock()
	c.agent = nil
	c.peerID = ""
	c.requested = nil
	c.mu.Unlock()
}

func (c *Client) handlerPanicked(topic string, id eventbus.SubscriptionID, recovered any) {
	c.logger.Error("accessory: handler panicked", "topic", topic, "subscription", id, "panic", recovered)
}

// Protocol logging.

func (c *Client) stateChanged(oldState, newState connection.State, reason error) {
	c.logger.Debug("accessory: state change", "conn", c.connID, "from", oldState, "to", newState, "reason", reason)
	if c.protocolLogger == nil {
		return
	}
	sc := &log.StateChangeEvent{
		Entity:   log.StateEntityConnection,
		OldState: oldState.String(),
		NewState: newState.String(),
		Attempt:  c.machine.Attempt(),
	}
	if reason != nil {
		sc.Reason = reason.Error()
	}
	c.protocolLogger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Layer:        log.LayerService,
		Category:     log.CategoryState,
		LocalRole:    log.RoleHost,
		StateChange:  sc,
	})
}

func (c *Client) logMessage(dir log.Direction, channel int, peerID, id, raw string) {
	if c.protocolLogger == nil {
		return
	}
	payload, _ := log.Capture([]byte(raw))
	c.protocolLogger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Direction:    dir,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		LocalRole:    log.RoleHost,
		PeerID:       peerID,
		Channel:      log.ChannelRef(channel),
		Message: &log.MessageEvent{
			ID:      id,
			Codec:   c.codec.Name(),
			Size:    len(raw),
			Payload: payload,
		},
	})
}

func (c *Client) logDevice(deviceType string, status DeviceStatus) {
	if c.protocolLogger == nil {
		return
	}
	c.protocolLogger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Layer:        log.LayerService,
		Category:     log.CategoryDevice,
		LocalRole:    log.RoleHost,
		Device:       &log.DeviceEvent{Type: deviceType, Status: string(status)},
	})
}

func (c *Client) logError(err error, code, context string) {
	c.logger.Debug("accessory: "+context, "conn", c.connID, "error", err)
	if c.protocolLogger == nil {
		return
	}
	c.protocolLogger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Layer:        log.LayerService,
		Category:     log.CategoryError,
		LocalRole:    log.RoleHost,
		Error: &log.ErrorEventData{
			Layer:   log.LayerService,
			Message: err.Error(),
			Code:    code,
			Context: context,
		},
	})
}
