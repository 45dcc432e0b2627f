package history

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gearlink/gearlink-go/pkg/accessory"
	"github.com/gearlink/gearlink-go/pkg/eventbus"
)

// Source is the client a Recorder observes.
// Implemented by accessory.Client.
type Source interface {
	Bus() *eventbus.Bus
	ConnectionID() string
}

// Recorder writes a client's connection notifications to a Store.
type Recorder struct {
	store   *Store
	source  Source
	profile string
	logger  *slog.Logger

	mu   sync.Mutex
	subs []eventbus.SubscriptionID
}

// NewRecorder creates a recorder. Call Start to begin recording.
func NewRecorder(store *Store, source Source, profile string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, source: source, profile: profile, logger: logger}
}

// Start subscribes to the client's bus. Calling it twice has no effect.
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.subs != nil {
		return
	}

	bus := r.source.Bus()
	r.subs = []eventbus.SubscriptionID{
		bus.Subscribe(accessory.TopicServiceConnectSuccess, r.handle),
		bus.Subscribe(accessory.TopicServiceConnectError, r.handle),
		bus.Subscribe(accessory.TopicSocketStatus, r.handle),
	}
}

// Stop unsubscribes from the client's bus.
func (r *Recorder) Stop() {
	r.mu.Lock()
	subs := r.subs
	r.subs = nil
	r.mu.Unlock()

	bus := r.source.Bus()
	for _, id := range subs {
		bus.Unsubscribe(id)
	}
}

// Closed records a local close, which the client does not announce.
func (r *Recorder) Closed(ctx context.Context, peer string) error {
	return r.store.Record(ctx, r.entry(KindClosed, peer, ""))
}

func (r *Recorder) handle(topic string, payload any) {
	var e Entry
	switch p := payload.(type) {
	case accessory.Status:
		if p.Status {
			e = r.entry(KindConnected, p.Peer, "")
		} else {
			e = r.entry(KindConnectError, p.Peer, p.Data)
		}
	case accessory.SocketStatus:
		e = r.entry(KindLost, p.Peer, p.Data)
	default:
		return
	}

	if err := r.store.Record(context.Background(), e); err != nil {
		r.logger.Warn("history: record failed", "topic", topic, "error", err)
	}
}

func (r *Recorder) entry(kind, peer, detail string) Entry {
	return Entry{
		ConnectionID: r.source.ConnectionID(),
		Kind:         kind,
		Peer:         peer,
		Profile:      r.profile,
		Detail:       detail,
	}
}
