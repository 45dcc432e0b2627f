package accessory_test

import (
	"sync"

	"github.com/gearlink/gearlink-go/pkg/accessory"
	"github.com/gearlink/gearlink-go/pkg/eventbus"
	"github.com/gearlink/gearlink-go/pkg/log"
)

// fakePlatform records registrations and lets tests fire callbacks the way
// a platform thread would.
type fakePlatform struct {
	mu sync.Mutex

	listenerErr    error
	deviceListener accessory.DeviceStatusListener

	requestErr error
	onSuccess  func([]accessory.Agent)
	onError    func(error)
	requests   int
}

func (p *fakePlatform) SetDeviceStatusListener(fn accessory.DeviceStatusListener) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.listenerErr != nil {
		return p.listenerErr
	}
	p.deviceListener = fn
	return nil
}

func (p *fakePlatform) RequestAgent(onSuccess func([]accessory.Agent), onError func(error)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests++
	p.onSuccess, p.onError = onSuccess, onError
	return p.requestErr
}

func (p *fakePlatform) succeed(agents ...accessory.Agent) {
	p.mu.Lock()
	fn := p.onSuccess
	p.mu.Unlock()
	fn(agents)
}

func (p *fakePlatform) fail(err error) {
	p.mu.Lock()
	fn := p.onError
	p.mu.Unlock()
	fn(err)
}

func (p *fakePlatform) device(deviceType string, status accessory.DeviceStatus) {
	p.mu.Lock()
	fn := p.deviceListener
	p.mu.Unlock()
	fn(deviceType, status)
}

func (p *fakePlatform) requestCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests
}

type fakeAgent struct {
	mu sync.Mutex

	service accessory.ServiceConnectionListener
	finder  accessory.PeerAgentFindListener

	findErr    error
	finds      int
	requestErr error
	requested  []accessory.PeerAgent
}

func (a *fakeAgent) SetServiceConnectionListener(l accessory.ServiceConnectionListener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.service = l
}

func (a *fakeAgent) SetPeerAgentFindListener(l accessory.PeerAgentFindListener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.finder = l
}

func (a *fakeAgent) FindPeerAgents() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.finds++
	return a.findErr
}

func (a *fakeAgent) RequestServiceConnection(peer accessory.PeerAgent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requested = append(a.requested, peer)
	return a.requestErr
}

func (a *fakeAgent) found(peer accessory.PeerAgent) {
	a.mu.Lock()
	fn := a.finder.OnPeerAgentFound
	a.mu.Unlock()
	fn(peer)
}

func (a *fakeAgent) findFailed(err error) {
	a.mu.Lock()
	fn := a.finder.OnError
	a.mu.Unlock()
	fn(err)
}

func (a *fakeAgent) connect(s accessory.Socket) {
	a.mu.Lock()
	fn := a.service.OnConnect
	a.mu.Unlock()
	fn(s)
}

func (a *fakeAgent) connectFailed(err error) {
	a.mu.Lock()
	fn := a.service.OnError
	a.mu.Unlock()
	fn(err)
}

func (a *fakeAgent) requestedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requested)
}

type fakePeer string

func (p fakePeer) PeerID() string { return string(p) }

type sentFrame struct {
	channel int
	data    string
}

type fakeSocket struct {
	mu sync.Mutex

	onData   func(int, string)
	onStatus func(error)

	sent         []sentFrame
	sendErr      error
	disconnected bool
	closed       int
}

func (s *fakeSocket) SetDataReceiveListener(fn func(int, string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onData = fn
}

func (s *fakeSocket) SetSocketStatusListener(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStatus = fn
}

func (s *fakeSocket) SendData(channel int, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, sentFrame{channel, data})
	return nil
}

func (s *fakeSocket) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.disconnected && s.closed == 0
}

func (s *fakeSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *fakeSocket) receive(channel int, data string) {
	s.mu.Lock()
	fn := s.onData
	s.mu.Unlock()
	fn(channel, data)
}

func (s *fakeSocket) lose(err error) {
	s.mu.Lock()
	s.disconnected = true
	fn := s.onStatus
	s.mu.Unlock()
	fn(err)
}

func (s *fakeSocket) frames() []sentFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentFrame(nil), s.sent...)
}

func (s *fakeSocket) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// notification is one recorded bus publish.
type notification struct {
	topic   string
	payload any
}

type recorder struct {
	mu     sync.Mutex
	events []notification
}

var allTopics = []string{
	accessory.TopicConnectSuccess,
	accessory.TopicConnectError,
	accessory.TopicPeerAgentError,
	accessory.TopicServiceConnectSuccess,
	accessory.TopicServiceConnectError,
	accessory.TopicSocketStatus,
	accessory.TopicDeviceAttached,
	accessory.TopicDeviceDetached,
	accessory.TopicDecodeError,
}

func record(bus *eventbus.Bus, extra ...string) *recorder {
	r := &recorder{}
	for _, topic := range append(append([]string(nil), allTopics...), extra...) {
		bus.Subscribe(topic, func(topic string, payload any) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, notification{topic, payload})
		})
	}
	return r
}

func (r *recorder) topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.topic)
	}
	return out
}

func (r *recorder) payloads(topic string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []any
	for _, e := range r.events {
		if e.topic == topic {
			out = append(out, e.payload)
		}
	}
	return out
}

// eventLog collects protocol log events.
type eventLog struct {
	mu     sync.Mutex
	events []log.Event
}

func (l *eventLog) Log(e log.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) all() []log.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]log.Event(nil), l.events...)
}
