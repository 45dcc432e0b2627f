package log

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test"+Extension)

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()
	return path
}

func TestReaderIteratesInOrder(t *testing.T) {
	path := createTestLogFile(t, []Event{
		{Timestamp: time.Now(), ConnectionID: "conn-1"},
		{Timestamp: time.Now(), ConnectionID: "conn-2"},
		{Timestamp: time.Now(), ConnectionID: "conn-3"},
	})

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	for _, want := range []string{"conn-1", "conn-2", "conn-3"} {
		event, err := reader.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if event.ConnectionID != want {
			t.Errorf("ConnectionID = %q, want %q", event.ConnectionID, want)
		}
	}
	if _, err := reader.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after last event, got %v", err)
	}
}

func TestReaderHeaderOnlyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
	if reader.Header() == nil {
		t.Error("header not reported for header-only file")
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "absent.glog")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, []Event{
		{Timestamp: base, ConnectionID: "conn-A", Direction: DirectionIn, Layer: LayerTransport, Category: CategoryMessage, PeerID: "watch-1", Channel: ChannelRef(104)},
		{Timestamp: base.Add(time.Minute), ConnectionID: "conn-A", Direction: DirectionOut, Layer: LayerWire, Category: CategoryMessage, PeerID: "watch-1", Channel: ChannelRef(105)},
		{Timestamp: base.Add(2 * time.Minute), ConnectionID: "conn-B", Direction: DirectionIn, Layer: LayerWire, Category: CategoryMessage, PeerID: "watch-2", Channel: ChannelRef(104)},
		{Timestamp: base.Add(3 * time.Minute), ConnectionID: "conn-A", Direction: DirectionIn, Layer: LayerWire, Category: CategoryControl, PeerID: "watch-1"},
		{Timestamp: base.Add(4 * time.Minute), ConnectionID: "conn-C", Direction: DirectionOut, Layer: LayerService, Category: CategoryState},
	})

	wire := LayerWire
	in := DirectionIn
	out := DirectionOut
	state := CategoryState
	from := base.Add(time.Minute)
	until := base.Add(3 * time.Minute)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"none", Filter{}, []string{"conn-A", "conn-A", "conn-B", "conn-A", "conn-C"}},
		{"connection", Filter{ConnectionID: "conn-A"}, []string{"conn-A", "conn-A", "conn-A"}},
		{"layer", Filter{Layer: &wire}, []string{"conn-A", "conn-B", "conn-A"}},
		{"direction", Filter{Direction: &out}, []string{"conn-A", "conn-C"}},
		{"category", Filter{Category: &state}, []string{"conn-C"}},
		{"time range is half open", Filter{TimeStart: &from, TimeEnd: &until}, []string{"conn-A", "conn-B"}},
		{"peer", Filter{PeerID: "watch-2"}, []string{"conn-B"}},
		{"channel skips events without one", Filter{Channel: ChannelRef(104)}, []string{"conn-A", "conn-B"}},
		{"combined", Filter{ConnectionID: "conn-A", Layer: &wire, Direction: &in}, []string{"conn-A"}},
		{"no match", Filter{PeerID: "watch-1", Channel: ChannelRef(7)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadAll(path, tt.filter)
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d events, want %d", len(got), len(tt.want))
			}
			for i, e := range got {
				if e.ConnectionID != tt.want[i] {
					t.Errorf("event %d: ConnectionID = %q, want %q", i, e.ConnectionID, tt.want[i])
				}
			}
		})
	}
}

func TestReaderStopsAtPartialTrailingEvent(t *testing.T) {
	path := createTestLogFile(t, []Event{
		{Timestamp: time.Now(), ConnectionID: "conn-1"},
		{Timestamp: time.Now(), ConnectionID: "conn-2"},
	})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if err := os.WriteFile(path, data[:len(data)-3], 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := ReadAll(path, Filter{})
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != 1 || got[0].ConnectionID != "conn-1" {
		t.Errorf("got %d events, want only conn-1", len(got))
	}
}
