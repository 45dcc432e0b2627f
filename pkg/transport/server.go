package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gearlink/gearlink-go/pkg/log"
	"github.com/gearlink/gearlink-go/pkg/version"
)

// DefaultHelloTimeout bounds the hello exchange on a new link.
const DefaultHelloTimeout = 5 * time.Second

// ServerConfig configures an accessory-side listener.
type ServerConfig struct {
	// Address to listen on (e.g. ":0" or "127.0.0.1:7700").
	Address string

	// Profile is the service profile this server offers. Required.
	Profile string

	// Name is sent to dialers in the hello reply.
	Name string

	// HelloTimeout bounds the hello exchange (default: 5s).
	HelloTimeout time.Duration

	// Conn configures accepted links.
	Conn ConnConfig

	// OnConnect is called with each accepted link.
	OnConnect func(conn *Conn)

	// OnError is called when a connection cannot be accepted.
	OnError func(err error)
}

// Server accepts links from hosts.
type Server struct {
	config   ServerConfig
	logger   *slog.Logger
	listener net.Listener

	conns   map[*Conn]struct{}
	connsMu sync.RWMutex

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer creates a server.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Profile == "" {
		return nil, fmt.Errorf("profile is required")
	}
	if config.Address == "" {
		config.Address = ":0"
	}
	if config.HelloTimeout == 0 {
		config.HelloTimeout = DefaultHelloTimeout
	}
	if config.Conn.MaxMessageSize == 0 {
		config.Conn.MaxMessageSize = DefaultMaxMessageSize
	}
	if config.Conn.Logger == nil {
		config.Conn.Logger = slog.Default()
	}
	config.Conn.Role = log.RoleAccessory

	return &Server{
		config: config,
		logger: config.Conn.Logger,
		conns:  make(map[*Conn]struct{}),
	}, nil
}

// Start listens and begins accepting links.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return fmt.Errorf("server already running")
	}

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.listener = listener
	s.running.Store(true)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Stop stops accepting and closes every link.
func (s *Server) Stop() error {
	if !s.running.Swap(false) {
		return nil
	}
	s.cancel()
	s.listener.Close()

	s.connsMu.RLock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connsMu.RUnlock()

	s.wg.Wait()
	return nil
}

// Addr returns the listen address.
func (s *Server) Addr() net.Addr {
	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

// Port returns the listen port, or 0 before Start.
func (s *Server) Port() int {
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

// ConnectionCount returns the number of open links.
func (s *Server) ConnectionCount() int {
	s.connsMu.RLock()
	defer s.connsMu.RUnlock()
	return len(s.conns)
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		nc, err := s.listener.Accept()
		if err != nil {
			if !s.running.Load() {
				return
			}
			s.reportError(fmt.Errorf("accept error: %w", err))
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(nc)
	}
}

func (s *Server) handleConnection(nc net.Conn) {
	defer s.wg.Done()

	connID := uuid.NewString()
	framer := NewFramerWithMaxSize(nc, s.config.Conn.MaxMessageSize)
	if s.config.Conn.ProtocolLogger != nil {
		framer.SetLogger(s.config.Conn.ProtocolLogger, connID)
	}

	peer, err := s.acceptHello(nc, framer)
	if err != nil {
		nc.Close()
		s.reportError(fmt.Errorf("hello from %s: %w", nc.RemoteAddr(), err))
		return
	}

	conn := newConn(nc, framer, s.config.Conn, connID, s.config.Profile, peer)

	s.connsMu.Lock()
	if !s.running.Load() {
		s.connsMu.Unlock()
		conn.Close()
		return
	}
	s.conns[conn] = struct{}{}
	s.connsMu.Unlock()

	s.logger.Debug("transport: link accepted", "conn", connID, "remote", nc.RemoteAddr(), "peer", peer)
	if s.config.OnConnect != nil {
		s.config.OnConnect(conn)
	}

	select {
	case <-conn.Done():
	case <-s.ctx.Done():
		conn.Close()
		<-conn.Done()
	}

	s.connsMu.Lock()
	delete(s.conns, conn)
	s.connsMu.Unlock()
}

// acceptHello reads the dialer's hello and answers it. A profile other
// than ours, or an incompatible protocol version, is refused.
func (s *Server) acceptHello(nc net.Conn, framer *Framer) (string, error) {
	_ = nc.SetDeadline(time.Now().Add(s.config.HelloTimeout))
	defer nc.SetDeadline(time.Time{})

	f, err := framer.ReadFrame()
	if err != nil {
		return "", err
	}
	if f.Channel != ChannelHello {
		return "", fmt.Errorf("%w: first frame on channel %d", ErrControlMalformed, f.Channel)
	}
	hello, err := DecodeHello(f.Payload)
	if err != nil {
		return "", err
	}

	versionErr := version.Check(hello.Version)
	accepted := hello.Profile == s.config.Profile && versionErr == nil
	reply, err := EncodeHello(Hello{
		Profile:  s.config.Profile,
		Name:     s.config.Name,
		Accepted: accepted,
		Version:  version.Current,
	})
	if err != nil {
		return "", err
	}
	if err := framer.WriteFrame(ChannelHello, reply); err != nil {
		return "", err
	}
	if versionErr != nil {
		return "", versionErr
	}
	if !accepted {
		return "", fmt.Errorf("%w: %q", ErrProfileMismatch, hello.Profile)
	}
	return hello.Name, nil
}

func (s *Server) reportError(err error) {
	s.logger.Debug("transport: server error", "error", err)
	if s.config.OnError != nil {
		s.config.OnError(err)
	}
}
