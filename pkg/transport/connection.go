package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gearlink/gearlink-go/pkg/log"
)

// Connection errors.
var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrInvalidChannel   = errors.New("invalid channel")
	ErrRemoteClosed     = errors.New("closed by peer")
	ErrKeepAliveTimeout = errors.New("keep-alive timeout")
	ErrProfileMismatch  = errors.New("profile mismatch")
)

// ConnConfig configures a link.
type ConnConfig struct {
	// MaxMessageSize is the maximum payload size (default: 64KB).
	MaxMessageSize uint32

	// KeepAlive configuration.
	KeepAlive KeepAliveConfig

	// WriteTimeout bounds each frame write (0 = no timeout).
	WriteTimeout time.Duration

	// Logger is the optional logger for debug output.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// ProtocolLogger captures frames and state changes (optional).
	ProtocolLogger log.Logger

	// Role tags protocol log events.
	Role log.Role
}

// DefaultConnConfig returns the default link configuration.
func DefaultConnConfig() ConnConfig {
	return ConnConfig{
		MaxMessageSize: DefaultMaxMessageSize,
		KeepAlive:      DefaultKeepAliveConfig(),
		WriteTimeout:   10 * time.Second,
	}
}

// Conn is an open link carrying channel-tagged string messages. Its method
// set matches accessory.Socket.
//
// Data frames that arrive before a data listener is set are held and
// delivered, in order, when one is. A loss that happens before a status
// listener is set is reported when one is. Close never reports a loss.
type Conn struct {
	conn    net.Conn
	framer  *Framer
	config  ConnConfig
	logger  *slog.Logger
	connID  string
	profile string
	peer    string

	keepAlive *KeepAlive
	cancel    context.CancelFunc
	done      chan struct{}

	// deliverMu orders data delivery against listener installation.
	deliverMu sync.Mutex

	mu          sync.Mutex
	onData      func(channel int, data string)
	onStatus    func(error)
	pending     []Frame
	closed      bool
	lost        error
	lostFired   bool
	shutdownRun bool
}

// newConn wraps an established, hello-completed network connection and
// starts its read loop.
func newConn(nc net.Conn, framer *Framer, config ConnConfig, connID, profile, peer string) *Conn {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Conn{
		conn:    nc,
		framer:  framer,
		config:  config,
		logger:  config.Logger,
		connID:  connID,
		profile: profile,
		peer:    peer,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	c.logState("", "OPEN", "")

	if !config.KeepAlive.Disabled {
		c.keepAlive = NewKeepAlive(config.KeepAlive,
			func(seq uint32) error {
				return c.sendControl(ControlMessage{Type: ControlPing, Sequence: seq})
			},
			func() { c.fail(ErrKeepAliveTimeout) },
		)
		c.keepAlive.Start(ctx)
	}

	go c.readLoop()
	return c
}

// ConnID returns the identifier used in protocol log events.
func (c *Conn) ConnID() string { return c.connID }

// Profile returns the service profile agreed in the hello.
func (c *Conn) Profile() string { return c.profile }

// PeerName returns the name the remote side gave in its hello.
func (c *Conn) PeerName() string { return c.peer }

// LocalAddr returns the local network address.
func (c *Conn) LocalAddr() net.Addr { return c.conn.LocalAddr() }

// RemoteAddr returns the remote network address.
func (c *Conn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// Done is closed when the read loop has exited.
func (c *Conn) Done() <-chan struct{} { return c.done }

// KeepAliveStats returns liveness statistics. Zero when keep-alive is off.
func (c *Conn) KeepAliveStats() KeepAliveStats {
	if c.keepAlive == nil {
		return KeepAliveStats{}
	}
	return c.keepAlive.Stats()
}

// SetDataReceiveListener installs fn and flushes any held frames to it.
func (c *Conn) SetDataReceiveListener(fn func(channel int, data string)) {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.onData = fn
	c.mu.Unlock()

	if fn == nil {
		return
	}
	for _, f := range pending {
		fn(int(f.Channel), string(f.Payload))
	}
}

// SetSocketStatusListener installs fn. If the link was already lost, fn is
// called immediately with the cause.
func (c *Conn) SetSocketStatusListener(fn func(error)) {
	c.mu.Lock()
	c.onStatus = fn
	cause := c.lost
	fire := fn != nil && cause != nil && !c.lostFired
	if fire {
		c.lostFired = true
	}
	c.mu.Unlock()

	if fire {
		fn(cause)
	}
}

// SendData writes data on channel.
func (c *Conn) SendData(channel int, data string) error {
	if channel < 0 || channel > MaxDataChannel {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, channel)
	}
	if !c.IsConnected() {
		return ErrConnectionClosed
	}
	return c.write(uint16(channel), []byte(data))
}

// IsConnected reports whether the link is open.
func (c *Conn) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.lost == nil
}

// Close announces the close to the peer and releases the link. It is
// idempotent and never fires the status listener.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed || c.lost != nil {
		c.closed = true
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	_ = c.sendControl(ControlMessage{Type: ControlClose})
	c.logState("OPEN", "CLOSED", "")
	return c.shutdown()
}

// fail tears the link down and reports cause once, unless it was closed
// locally.
func (c *Conn) fail(cause error) {
	c.mu.Lock()
	if c.closed || c.lost != nil {
		c.mu.Unlock()
		return
	}
	c.lost = cause
	fn := c.onStatus
	if fn != nil {
		c.lostFired = true
	}
	c.mu.Unlock()

	c.logger.Debug("transport: link lost", "conn", c.connID, "error", cause)
	c.logState("OPEN", "LOST", cause.Error())
	_ = c.shutdown()
	if fn != nil {
		fn(cause)
	}
}

func (c *Conn) shutdown() error {
	c.mu.Lock()
	if c.shutdownRun {
		c.mu.Unlock()
		return nil
	}
	c.shutdownRun = true
	c.mu.Unlock()

	if c.keepAlive != nil {
		c.keepAlive.Stop()
	}
	c.cancel()
	return c.conn.Close()
}

func (c *Conn) write(channel uint16, payload []byte) error {
	if c.config.WriteTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	}
	return c.framer.WriteFrame(channel, payload)
}

func (c *Conn) sendControl(msg ControlMessage) error {
	data, err := EncodeControl(msg)
	if err != nil {
		return fmt.Errorf("failed to encode control message: %w", err)
	}
	if err := c.write(ChannelControl, data); err != nil {
		return err
	}
	c.logControl(msg.Type, log.DirectionOut)
	return nil
}

func (c *Conn) readLoop() {
	defer close(c.done)

	for {
		f, err := c.framer.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = ErrRemoteClosed
			}
			c.fail(fmt.Errorf("read: %w", err))
			return
		}

		switch f.Channel {
		case ChannelControl:
			if !c.handleControl(f.Payload) {
				return
			}
		case ChannelHello:
			c.logger.Debug("transport: hello after open ignored", "conn", c.connID)
		default:
			c.deliver(f)
		}
	}
}

// handleControl processes one control frame and reports whether the read
// loop should continue.
func (c *Conn) handleControl(data []byte) bool {
	msg, err := DecodeControl(data)
	if err != nil {
		c.logger.Debug("transport: bad control frame", "conn", c.connID, "error", err)
		return true
	}
	c.logControl(msg.Type, log.DirectionIn)

	switch msg.Type {
	case ControlPing:
		if err := c.sendControl(ControlMessage{Type: ControlPong, Sequence: msg.Sequence}); err != nil {
			c.logger.Debug("transport: pong failed", "conn", c.connID, "error", err)
		}
	case ControlPong:
		if c.keepAlive != nil {
			c.keepAlive.PongReceived(msg.Sequence)
		}
	case ControlClose:
		c.fail(ErrRemoteClosed)
		return false
	}
	return true
}

func (c *Conn) deliver(f Frame) {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	c.mu.Lock()
	fn := c.onData
	if fn == nil {
		c.pending = append(c.pending, f)
	}
	c.mu.Unlock()

	if fn != nil {
		fn(int(f.Channel), string(f.Payload))
	}
}

func (c *Conn) logControl(t ControlType, dir log.Direction) {
	if c.config.ProtocolLogger == nil {
		return
	}
	c.config.ProtocolLogger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Direction:    dir,
		Layer:        log.LayerTransport,
		Category:     log.CategoryControl,
		LocalRole:    c.config.Role,
		RemoteAddr:   c.conn.RemoteAddr().String(),
		ControlMsg:   &log.ControlMsgEvent{Type: t.logType()},
	})
}

func (c *Conn) logState(oldState, newState, reason string) {
	if c.config.ProtocolLogger == nil {
		return
	}
	c.config.ProtocolLogger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Layer:        log.LayerTransport,
		Category:     log.CategoryState,
		LocalRole:    c.config.Role,
		RemoteAddr:   c.conn.RemoteAddr().String(),
		PeerID:       c.peer,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntitySocket,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}
