package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/gearlink/gearlink-go/pkg/log"
)

func runStats(t *testing.T, events []log.Event) string {
	t.Helper()
	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	return buf.String()
}

func TestStatsCountsByLayer(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	output := runStats(t, []log.Event{
		{Timestamp: ts, Layer: log.LayerTransport, Category: log.CategoryMessage},
		{Timestamp: ts, Layer: log.LayerTransport, Category: log.CategoryMessage},
		{Timestamp: ts, Layer: log.LayerWire, Category: log.CategoryMessage},
		{Timestamp: ts, Layer: log.LayerService, Category: log.CategoryMessage},
	})

	for _, want := range []string{"TRANSPORT:", "WIRE:", "SERVICE:"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output", want)
		}
	}
}

func TestStatsCountsByCategory(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	output := runStats(t, []log.Event{
		{Timestamp: ts, Category: log.CategoryMessage},
		{Timestamp: ts, Category: log.CategoryControl},
		{Timestamp: ts, Category: log.CategoryState},
		{Timestamp: ts, Category: log.CategoryDevice, Device: &log.DeviceEvent{Type: "LAMP", Status: "ATTACHED"}},
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "test"}},
	})

	for _, want := range []string{"MESSAGE:", "CONTROL:", "STATE:", "DEVICE:", "ERROR:"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output", want)
		}
	}
}

func TestStatsCountsConnections(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	output := runStats(t, []log.Event{
		{Timestamp: ts, ConnectionID: "conn-aaaa-bbbb", Category: log.CategoryMessage, PeerID: "lamp", Channel: log.ChannelRef(104)},
		{Timestamp: ts.Add(time.Second), ConnectionID: "conn-aaaa-bbbb", Category: log.CategoryState,
			StateChange: &log.StateChangeEvent{NewState: "CONNECTED", Attempt: 3}},
		{Timestamp: ts, ConnectionID: "conn-cccc-dddd", Category: log.CategoryMessage},
	})

	if !strings.Contains(output, "Connections: 2") {
		t.Errorf("expected 2 connections, got: %s", output)
	}
	if !strings.Contains(output, "[conn-aaa]") {
		t.Errorf("expected shortened connection ID, got: %s", output)
	}
	if !strings.Contains(output, "Peer: lamp") {
		t.Errorf("expected peer line, got: %s", output)
	}
	if !strings.Contains(output, "Attempts: 3") {
		t.Errorf("expected attempt count, got: %s", output)
	}
	if !strings.Contains(output, "Channels: [104]") {
		t.Errorf("expected channel list, got: %s", output)
	}
}

func TestStatsTotalEvents(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	output := runStats(t, []log.Event{
		{Timestamp: ts}, {Timestamp: ts}, {Timestamp: ts},
	})

	if !strings.Contains(output, "Total Events: 3") {
		t.Errorf("expected 3 total events, got: %s", output)
	}
}

func TestStatsTimeRange(t *testing.T) {
	start := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	output := runStats(t, []log.Event{
		{Timestamp: start.Add(time.Minute)},
		{Timestamp: start},
		{Timestamp: start.Add(5 * time.Minute)},
	})

	if !strings.Contains(output, "2026-01-28T10:00:00Z to 2026-01-28T10:05:00Z") {
		t.Errorf("expected time range, got: %s", output)
	}
	if !strings.Contains(output, "Duration:   5m0s") {
		t.Errorf("expected duration, got: %s", output)
	}
}

func TestStatsMessagesByID(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	output := runStats(t, []log.Event{
		{Timestamp: ts, Message: &log.MessageEvent{ID: "ping"}},
		{Timestamp: ts, Message: &log.MessageEvent{ID: "pong"}},
		{Timestamp: ts, Message: &log.MessageEvent{ID: "ping"}},
	})

	if !strings.Contains(output, "ping:        2") {
		t.Errorf("expected ping count, got: %s", output)
	}
}

func TestStatsErrorCount(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	output := runStats(t, []log.Event{
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "a"}},
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "b"}},
		{Timestamp: ts, Category: log.CategoryMessage},
	})

	if !strings.Contains(output, "Errors: 2") {
		t.Errorf("expected 2 errors, got: %s", output)
	}
}
