package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearlink/gearlink-go/pkg/accessory"
	"github.com/gearlink/gearlink-go/pkg/eventbus"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, Entry{ConnectionID: "c1", Kind: KindConnected, Peer: "lamp", At: base}))
	require.NoError(t, s.Record(ctx, Entry{ConnectionID: "c1", Kind: KindLost, Peer: "lamp", Detail: "read: EOF", At: base.Add(time.Minute)}))
	require.NoError(t, s.Record(ctx, Entry{ConnectionID: "c2", Kind: KindConnectError, At: base.Add(2 * time.Minute)}))

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, KindConnectError, all[0].Kind, "newest first")
	assert.Equal(t, KindConnected, all[2].Kind)

	recent, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "read: EOF", recent[1].Detail)

	conn, err := s.ListConnection(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, conn, 2)
	assert.Equal(t, KindConnected, conn[0].Kind, "oldest first")
	assert.True(t, conn[0].At.Equal(base))
}

func TestRecordSetsTimestamp(t *testing.T) {
	s := openStore(t)
	before := time.Now().Add(-time.Second)

	require.NoError(t, s.Record(context.Background(), Entry{Kind: KindClosed}))

	entries, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].At.After(before))
	assert.NotZero(t, entries[0].ID)
}

func TestPrune(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Record(ctx, Entry{Kind: KindConnected, At: now.Add(-48 * time.Hour)}))
	require.NoError(t, s.Record(ctx, Entry{Kind: KindConnected, At: now}))

	n, err := s.Prune(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestReopenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, Entry{Kind: KindConnected, Peer: "lamp"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "lamp", entries[0].Peer)
}

func TestClosedStore(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Record(context.Background(), Entry{Kind: KindClosed}), ErrClosed)
	_, err := s.List(context.Background(), 0)
	assert.ErrorIs(t, err, ErrClosed)
}

type fakeSource struct {
	bus *eventbus.Bus
}

func (f *fakeSource) Bus() *eventbus.Bus   { return f.bus }
func (f *fakeSource) ConnectionID() string { return "conn-1" }

func TestRecorder(t *testing.T) {
	s := openStore(t)
	src := &fakeSource{bus: eventbus.New()}
	r := NewRecorder(s, src, "watch", nil)
	r.Start()
	r.Start()

	src.bus.Publish(accessory.TopicServiceConnectSuccess, accessory.Status{Status: true, Peer: "Desk Lamp"})
	src.bus.Publish(accessory.TopicSocketStatus, accessory.SocketStatus{Status: accessory.SocketLost, Data: "read: EOF", Peer: "Desk Lamp"})
	src.bus.Publish(accessory.TopicServiceConnectError, accessory.Status{Data: "refused", Peer: "Speaker"})
	require.NoError(t, r.Closed(context.Background(), "Desk Lamp"))

	r.Stop()
	src.bus.Publish(accessory.TopicServiceConnectSuccess, accessory.Status{Status: true})

	entries, err := s.ListConnection(context.Background(), "conn-1")
	require.NoError(t, err)
	require.Len(t, entries, 4)

	kinds := make([]string, len(entries))
	for i, e := range entries {
		kinds[i] = e.Kind
		assert.Equal(t, "watch", e.Profile)
	}
	assert.Equal(t, []string{KindConnected, KindLost, KindConnectError, KindClosed}, kinds)
	assert.Equal(t, "Desk Lamp", entries[0].Peer)
	assert.Equal(t, "Desk Lamp", entries[1].Peer)
	assert.Equal(t, "read: EOF", entries[1].Detail)
	assert.Equal(t, "Speaker", entries[2].Peer)
	assert.Equal(t, "refused", entries[2].Detail)
	assert.Equal(t, 0, src.bus.Count(accessory.TopicServiceConnectSuccess))
}
