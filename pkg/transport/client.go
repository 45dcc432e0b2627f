package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/gearlink/gearlink-go/pkg/log"
	"github.com/gearlink/gearlink-go/pkg/version"
)

// DefaultConnectTimeout bounds Connect when the context has no deadline.
const DefaultConnectTimeout = 10 * time.Second

// ClientConfig configures a host-side dialer.
type ClientConfig struct {
	// Profile is requested in the hello. Required.
	Profile string

	// Name identifies this host to the accessory.
	Name string

	// ConnectTimeout bounds dial plus hello (default: 10s).
	ConnectTimeout time.Duration

	// Conn configures dialed links.
	Conn ConnConfig
}

// Client opens links to accessories.
type Client struct {
	config ClientConfig
}

// NewClient creates a dialer.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Profile == "" {
		return nil, fmt.Errorf("profile is required")
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = DefaultConnectTimeout
	}
	if config.Conn.MaxMessageSize == 0 {
		config.Conn.MaxMessageSize = DefaultMaxMessageSize
	}
	if config.Conn.Logger == nil {
		config.Conn.Logger = slog.Default()
	}
	config.Conn.Role = log.RoleHost
	return &Client{config: config}, nil
}

// Connect dials address and completes the hello.
func (c *Client) Connect(ctx context.Context, address string) (*Conn, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.ConnectTimeout)
		defer cancel()
	}

	dialer := &net.Dialer{}
	nc, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	connID := uuid.NewString()
	framer := NewFramerWithMaxSize(nc, c.config.Conn.MaxMessageSize)
	if c.config.Conn.ProtocolLogger != nil {
		framer.SetLogger(c.config.Conn.ProtocolLogger, connID)
	}

	peer, err := c.hello(ctx, nc, framer)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("hello failed: %w", err)
	}
	return newConn(nc, framer, c.config.Conn, connID, c.config.Profile, peer), nil
}

func (c *Client) hello(ctx context.Context, nc net.Conn, framer *Framer) (string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = nc.SetDeadline(deadline)
		defer nc.SetDeadline(time.Time{})
	}

	req, err := EncodeHello(Hello{
		Profile: c.config.Profile,
		Name:    c.config.Name,
		Version: version.Current,
	})
	if err != nil {
		return "", err
	}
	if err := framer.WriteFrame(ChannelHello, req); err != nil {
		return "", err
	}

	f, err := framer.ReadFrame()
	if err != nil {
		return "", err
	}
	if f.Channel != ChannelHello {
		return "", fmt.Errorf("%w: reply on channel %d", ErrControlMalformed, f.Channel)
	}
	reply, err := DecodeHello(f.Payload)
	if err != nil {
		return "", err
	}
	if err := version.Check(reply.Version); err != nil {
		return "", err
	}
	if !reply.Accepted {
		return "", fmt.Errorf("%w: accessory offers %q", ErrProfileMismatch, reply.Profile)
	}
	return reply.Name, nil
}
