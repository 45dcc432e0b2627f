package lan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/gearlink/gearlink-go/pkg/accessory"
	"github.com/gearlink/gearlink-go/pkg/discovery"
	"github.com/gearlink/gearlink-go/pkg/transport"
)

// Default timeouts.
const (
	DefaultBrowseTimeout = 5 * time.Second
	DefaultDialTimeout   = 10 * time.Second
)

// CodePeerNoResponse is reported when peer discovery finds nothing.
const CodePeerNoResponse = "PEERAGENT_NO_RESPONSE"

// Platform errors.
var (
	ErrClosed      = errors.New("platform closed")
	ErrUnknownPeer = errors.New("peer was not discovered by this platform")
	ErrNoAddress   = errors.New("peer has no address")
)

// Dialer opens a service connection to an accessory.
type Dialer interface {
	Dial(ctx context.Context, profile, address string) (accessory.Socket, error)
}

// Config configures a Platform.
type Config struct {
	// Profiles lists the service profiles to request agents for.
	// One agent is handed out per profile.
	Profiles []string

	// Name identifies this host in the hello.
	Name string

	// BrowseTimeout bounds one peer search (default: 5s).
	BrowseTimeout time.Duration

	// Interface restricts the default mDNS browser to one network
	// interface. Empty means all.
	Interface string

	// DialTimeout bounds one service connection request (default: 10s).
	DialTimeout time.Duration

	// Conn configures transport links for the default dialer.
	Conn transport.ConnConfig

	// Browser finds accessories. If nil, an mDNS browser is created.
	Browser discovery.Browser

	// Dialer opens links. If nil, a transport client is used.
	Dialer Dialer

	// Logger is the optional logger for debug output.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BrowseTimeout: DefaultBrowseTimeout,
		DialTimeout:   DefaultDialTimeout,
		Conn:          transport.DefaultConnConfig(),
	}
}

// Platform implements accessory.Platform over mDNS discovery and the LAN
// transport.
type Platform struct {
	config      Config
	logger      *slog.Logger
	browser     discovery.Browser
	ownsBrowser bool
	dialer      Dialer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	closed   bool
	watching bool
	listener accessory.DeviceStatusListener
	devices  map[string]string // service key -> device type
}

// New creates a Platform.
func New(config Config) (*Platform, error) {
	if config.BrowseTimeout == 0 {
		config.BrowseTimeout = DefaultBrowseTimeout
	}
	if config.DialTimeout == 0 {
		config.DialTimeout = DefaultDialTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &Platform{
		config:  config,
		logger:  logger,
		browser: config.Browser,
		dialer:  config.Dialer,
		devices: make(map[string]string),
	}

	if p.browser == nil {
		b, err := discovery.NewMDNSBrowser(discovery.BrowserConfig{
			BrowseTimeout: config.BrowseTimeout,
			Interface:     config.Interface,
		})
		if err != nil {
			return nil, fmt.Errorf("create browser: %w", err)
		}
		p.browser = b
		p.ownsBrowser = true
	}
	if p.dialer == nil {
		p.dialer = &transportDialer{name: config.Name, conn: config.Conn}
	}

	p.ctx, p.cancel = context.WithCancel(context.Background())
	return p, nil
}

// SetDeviceStatusListener replaces the listener. The first call starts a
// background browse that reports accessories appearing and disappearing.
func (p *Platform) SetDeviceStatusListener(fn accessory.DeviceStatusListener) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	p.listener = fn
	if p.watching {
		return nil
	}

	added, removed, err := p.browser.Browse(p.ctx, "")
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	p.watching = true
	p.wg.Add(1)
	go p.watch(added, removed)
	return nil
}

func (p *Platform) watch(added, removed <-chan *discovery.AccessoryService) {
	defer p.wg.Done()

	for added != nil || removed != nil {
		select {
		case svc, ok := <-added:
			if !ok {
				added = nil
				continue
			}
			p.deviceChanged(svc, accessory.DeviceAttached)
		case svc, ok := <-removed:
			if !ok {
				removed = nil
				continue
			}
			p.deviceChanged(svc, accessory.DeviceDetached)
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Platform) deviceChanged(svc *discovery.AccessoryService, status accessory.DeviceStatus) {
	key := svc.Key()

	p.mu.Lock()
	_, known := p.devices[key]
	switch {
	case status == accessory.DeviceAttached && !known:
		p.devices[key] = svc.DeviceType
	case status == accessory.DeviceDetached && known:
		delete(p.devices, key)
	default:
		p.mu.Unlock()
		return
	}
	fn := p.listener
	p.mu.Unlock()

	p.logger.Debug("lan: device status", "device", svc.Name, "type", svc.DeviceType, "status", status)
	if fn != nil {
		fn(svc.DeviceType, status)
	}
}

// RequestAgent hands out one agent per configured profile.
func (p *Platform) RequestAgent(onSuccess func([]accessory.Agent), onError func(error)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	agents := make([]accessory.Agent, 0, len(p.config.Profiles))
	for _, profile := range p.config.Profiles {
		agents = append(agents, &Agent{platform: p, profile: profile})
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if len(agents) == 0 {
			onError(accessory.ErrNoAgent)
			return
		}
		onSuccess(agents)
	}()
	return nil
}

// Close stops background browsing and waits for callbacks in flight.
// Links already handed out stay open.
func (p *Platform) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	if p.ownsBrowser {
		p.browser.Stop()
	}
	p.wg.Wait()
	return nil
}

// spawn runs fn on a tracked goroutine unless the platform is closed.
func (p *Platform) spawn(fn func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		fn()
	}()
	return nil
}

// Agent is the local agent for one service profile.
type Agent struct {
	platform *Platform
	profile  string

	mu     sync.Mutex
	conn   accessory.ServiceConnectionListener
	finder accessory.PeerAgentFindListener
}

// Profile returns the service profile the agent serves.
func (a *Agent) Profile() string {
	return a.profile
}

// SetServiceConnectionListener replaces the connection listener.
func (a *Agent) SetServiceConnectionListener(l accessory.ServiceConnectionListener) {
	a.mu.Lock()
	a.conn = l
	a.mu.Unlock()
}

// SetPeerAgentFindListener replaces the peer find listener.
func (a *Agent) SetPeerAgentFindListener(l accessory.PeerAgentFindListener) {
	a.mu.Lock()
	a.finder = l
	a.mu.Unlock()
}

// FindPeerAgents browses for BrowseTimeout. Every accessory found is
// reported; when none is, the error listener receives a
// PEERAGENT_NO_RESPONSE code error.
func (a *Agent) FindPeerAgents() error {
	p := a.platform
	return p.spawn(func() {
		ctx, cancel := context.WithTimeout(p.ctx, p.config.BrowseTimeout)
		defer cancel()

		added, _, err := p.browser.Browse(ctx, a.profile)
		if err != nil {
			a.peerError(err)
			return
		}

		found := 0
		for svc := range added {
			found++
			a.mu.Lock()
			fn := a.finder.OnPeerAgentFound
			a.mu.Unlock()
			if fn != nil {
				fn(&Peer{Service: svc})
			}
		}

		if found == 0 && p.ctx.Err() == nil {
			a.peerError(accessory.NewCodeError(CodePeerNoResponse, nil))
		}
	})
}

func (a *Agent) peerError(err error) {
	a.mu.Lock()
	fn := a.finder.OnError
	a.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

// RequestServiceConnection dials peer, trying its addresses in order.
func (a *Agent) RequestServiceConnection(peer accessory.PeerAgent) error {
	target, ok := peer.(*Peer)
	if !ok || target.Service == nil {
		return ErrUnknownPeer
	}
	if len(target.Service.Addresses) == 0 {
		return ErrNoAddress
	}

	p := a.platform
	return p.spawn(func() {
		ctx, cancel := context.WithTimeout(p.ctx, p.config.DialTimeout)
		defer cancel()

		var lastErr error
		for _, address := range target.Addresses() {
			socket, err := p.dialer.Dial(ctx, a.profile, address)
			if err == nil {
				a.mu.Lock()
				fn := a.conn.OnConnect
				a.mu.Unlock()
				if fn != nil {
					fn(&boundSocket{Socket: socket, peer: target.PeerID()})
				} else {
					_ = socket.Close()
				}
				return
			}
			p.logger.Debug("lan: dial failed", "peer", target.PeerID(), "address", address, "error", err)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
		}

		a.mu.Lock()
		fn := a.conn.OnError
		a.mu.Unlock()
		if fn != nil {
			fn(lastErr)
		}
	})
}

// Peer is an accessory found by browsing.
type Peer struct {
	Service *discovery.AccessoryService
}

// PeerID returns the accessory name, falling back to its instance.
func (p *Peer) PeerID() string {
	if p.Service.Name != "" {
		return p.Service.Name
	}
	return p.Service.InstanceName
}

// Addresses returns dialable host:port strings.
func (p *Peer) Addresses() []string {
	port := strconv.Itoa(int(p.Service.Port))
	out := make([]string, 0, len(p.Service.Addresses))
	for _, addr := range p.Service.Addresses {
		out = append(out, net.JoinHostPort(addr, port))
	}
	return out
}

// boundSocket names the discovered accessory a dialed socket reaches.
type boundSocket struct {
	accessory.Socket
	peer string
}

func (s *boundSocket) PeerName() string { return s.peer }

type transportDialer struct {
	name string
	conn transport.ConnConfig
}

func (d *transportDialer) Dial(ctx context.Context, profile, address string) (accessory.Socket, error) {
	client, err := transport.NewClient(transport.ClientConfig{
		Profile: profile,
		Name:    d.name,
		Conn:    d.conn,
	})
	if err != nil {
		return nil, err
	}
	return client.Connect(ctx, address)
}

// Compile-time interface satisfaction checks.
var (
	_ accessory.Platform  = (*Platform)(nil)
	_ accessory.Agent     = (*Agent)(nil)
	_ accessory.PeerAgent = (*Peer)(nil)
	_ accessory.Socket    = (*transport.Conn)(nil)
	_ accessory.PeerNamer = (*boundSocket)(nil)
)
