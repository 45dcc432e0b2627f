package commands

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/gearlink/gearlink-go/pkg/log"
)

func readEvents(t *testing.T, path string) []log.Event {
	t.Helper()
	reader, err := log.NewReader(path)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer reader.Close()

	var events []log.Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		events = append(events, event)
	}
	return events
}

func TestFilterByConnectionID(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, ConnectionID: "conn-1", Category: log.CategoryMessage},
		{Timestamp: ts, ConnectionID: "conn-2", Category: log.CategoryMessage},
		{Timestamp: ts, ConnectionID: "conn-1", Category: log.CategoryMessage},
	}

	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.glog")

	n, err := RunFilter(path, FilterOptions{Output: outPath, ConnID: "conn-1", Channel: -1})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 events written, got %d", n)
	}

	for _, event := range readEvents(t, outPath) {
		if event.ConnectionID != "conn-1" {
			t.Errorf("expected conn-1, got %s", event.ConnectionID)
		}
	}
}

func TestFilterByTimeRange(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: base, ConnectionID: "conn-1", Category: log.CategoryMessage},
		{Timestamp: base.Add(time.Hour), ConnectionID: "conn-1", Category: log.CategoryMessage},
		{Timestamp: base.Add(2 * time.Hour), ConnectionID: "conn-1", Category: log.CategoryMessage},
	}

	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.glog")

	_, err := RunFilter(path, FilterOptions{
		Output:    outPath,
		Channel:   -1,
		TimeStart: base.Add(30 * time.Minute).Format(time.RFC3339),
		TimeEnd:   base.Add(90 * time.Minute).Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	// Only the 11:00 event falls inside the window
	if got := len(readEvents(t, outPath)); got != 1 {
		t.Errorf("expected 1 event, got %d", got)
	}
}

func TestFilterCommandByLayer(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Layer: log.LayerTransport, Category: log.CategoryMessage},
		{Timestamp: ts, Layer: log.LayerWire, Category: log.CategoryMessage},
		{Timestamp: ts, Layer: log.LayerService, Category: log.CategoryMessage},
	}

	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.glog")

	if _, err := RunFilter(path, FilterOptions{Output: outPath, Channel: -1, Layer: "wire"}); err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	got := readEvents(t, outPath)
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Layer != log.LayerWire {
		t.Errorf("expected wire layer, got %v", got[0].Layer)
	}
}

func TestFilterByChannelAndPeer(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, PeerID: "lamp", Channel: log.ChannelRef(104)},
		{Timestamp: ts, PeerID: "lamp", Channel: log.ChannelRef(7)},
		{Timestamp: ts, PeerID: "lamp"},
		{Timestamp: ts, PeerID: "watch", Channel: log.ChannelRef(104)},
	}

	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.glog")

	n, err := RunFilter(path, FilterOptions{Output: outPath, Channel: 104, PeerID: "lamp"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 event, got %d", n)
	}
}

func TestFilterRejectsBadOptions(t *testing.T) {
	path := createTestLogFile(t, nil)
	outPath := filepath.Join(t.TempDir(), "filtered.glog")

	for _, opts := range []FilterOptions{
		{Output: outPath, Channel: -1, Layer: "radio"},
		{Output: outPath, Channel: -1, Direction: "sideways"},
		{Output: outPath, Channel: -1, Category: "snapshot"},
		{Output: outPath, Channel: -1, TimeStart: "yesterday"},
	} {
		if _, err := RunFilter(path, opts); err == nil {
			t.Errorf("expected error for %+v", opts)
		}
	}
}

func TestFilterWritesCBOR(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, ConnectionID: "conn-1", Category: log.CategoryMessage},
	}

	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.glog")

	if _, err := RunFilter(path, FilterOptions{Output: outPath, Channel: -1}); err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	got := readEvents(t, outPath)
	if len(got) != 1 || got[0].ConnectionID != "conn-1" {
		t.Errorf("expected conn-1 event, got %+v", got)
	}
}
