package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/gearlink/gearlink-go/pkg/log"
)

func TestFormatFrameEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	event := log.Event{
		Timestamp:    ts,
		ConnectionID: "abc12345-6789-0123-4567-890abcdef012",
		Direction:    log.DirectionOut,
		Layer:        log.LayerTransport,
		Category:     log.CategoryMessage,
		Channel:      log.ChannelRef(104),
		Frame: &log.FrameEvent{
			Size: 128,
			Data: []byte{0xa1, 0x01, 0x02, 0x03},
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "2026-01-28T10:15:32.123456Z") {
		t.Errorf("expected microsecond timestamp, got: %s", output)
	}
	if !strings.Contains(output, "[conn:abc12345]") {
		t.Errorf("expected shortened connection ID, got: %s", output)
	}
	if !strings.Contains(output, "OUT TRANSPORT Frame ch=104") {
		t.Errorf("expected header with channel, got: %s", output)
	}
	if !strings.Contains(output, "128 bytes") {
		t.Errorf("expected frame size, got: %s", output)
	}
	if !strings.Contains(output, "a1010203") {
		t.Errorf("expected hex data, got: %s", output)
	}
}

func TestFormatMessageEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	event := log.Event{
		Timestamp:    ts,
		ConnectionID: "abc12345",
		Direction:    log.DirectionIn,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		PeerID:       "lamp",
		Message: &log.MessageEvent{
			ID:      "pong",
			Codec:   "json",
			Size:    42,
			Payload: []byte(`{"from":"lamp"}`),
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "IN  WIRE Message pong") {
		t.Errorf("expected message header, got: %s", output)
	}
	if !strings.Contains(output, "Peer: lamp") {
		t.Errorf("expected peer line, got: %s", output)
	}
	if !strings.Contains(output, "Codec: json") {
		t.Errorf("expected codec, got: %s", output)
	}
	if !strings.Contains(output, `Payload: {"from":"lamp"}`) {
		t.Errorf("expected payload, got: %s", output)
	}
}

func TestFormatStateChangeEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	event := log.Event{
		Timestamp:    ts,
		ConnectionID: "abc12345",
		Layer:        log.LayerService,
		Category:     log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityConnection,
			OldState: "CONNECTING",
			NewState: "CONNECTED",
			Reason:   "service connected",
			Attempt:  2,
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "CONNECTION") {
		t.Errorf("expected entity, got: %s", output)
	}
	if !strings.Contains(output, "CONNECTING -> CONNECTED") {
		t.Errorf("expected transition, got: %s", output)
	}
	if !strings.Contains(output, "Attempt: 2") {
		t.Errorf("expected attempt, got: %s", output)
	}
	if !strings.Contains(output, "Reason: service connected") {
		t.Errorf("expected reason, got: %s", output)
	}
}

func TestFormatControlMsgEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	event := log.Event{
		Timestamp:    ts,
		ConnectionID: "abc12345",
		Direction:    log.DirectionOut,
		Layer:        log.LayerTransport,
		Category:     log.CategoryControl,
		ControlMsg: &log.ControlMsgEvent{
			Type:    log.ControlMsgHello,
			Profile: "/gearlink/watch",
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "CTRL HELLO") {
		t.Errorf("expected CTRL HELLO, got: %s", output)
	}
	if !strings.Contains(output, "Profile: /gearlink/watch") {
		t.Errorf("expected profile, got: %s", output)
	}
}

func TestFormatDeviceAndErrorEvents(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)

	var buf bytes.Buffer
	formatEvent(&buf, log.Event{
		Timestamp: ts,
		Layer:     log.LayerService,
		Category:  log.CategoryDevice,
		Device:    &log.DeviceEvent{Type: "LAN", Status: "ATTACHED"},
	})
	formatEvent(&buf, log.Event{
		Timestamp: ts,
		Layer:     log.LayerService,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerService,
			Message: "no peer agents responded",
			Code:    "PEERAGENT_NO_RESPONSE",
		},
	})
	output := buf.String()

	if !strings.Contains(output, "LAN ATTACHED") {
		t.Errorf("expected device line, got: %s", output)
	}
	if !strings.Contains(output, "Code: PEERAGENT_NO_RESPONSE") {
		t.Errorf("expected error code, got: %s", output)
	}
}

func TestFilterByLayer(t *testing.T) {
	events := []log.Event{
		{Layer: log.LayerTransport},
		{Layer: log.LayerWire},
		{Layer: log.LayerService},
	}

	layer := log.LayerWire
	filtered := filterEvents(events, ViewFilter{Layer: &layer})
	if len(filtered) != 1 {
		t.Errorf("expected 1 event, got %d", len(filtered))
	}
}

func TestFilterByDirection(t *testing.T) {
	events := []log.Event{
		{Direction: log.DirectionIn},
		{Direction: log.DirectionOut},
		{Direction: log.DirectionIn},
	}

	dir := log.DirectionIn
	filtered := filterEvents(events, ViewFilter{Direction: &dir})
	if len(filtered) != 2 {
		t.Errorf("expected 2 events, got %d", len(filtered))
	}
}

func TestFilterByCategory(t *testing.T) {
	events := []log.Event{
		{Category: log.CategoryMessage},
		{Category: log.CategoryDevice},
		{Category: log.CategoryError},
	}

	cat := log.CategoryDevice
	filtered := filterEvents(events, ViewFilter{Category: &cat})
	if len(filtered) != 1 {
		t.Errorf("expected 1 event, got %d", len(filtered))
	}
}

func TestFilterByChannel(t *testing.T) {
	events := []log.Event{
		{Channel: log.ChannelRef(104)},
		{Channel: log.ChannelRef(7)},
		{},
	}

	filtered := filterEvents(events, ViewFilter{Channel: log.ChannelRef(104)})
	if len(filtered) != 1 {
		t.Errorf("expected 1 event, got %d", len(filtered))
	}
}

func TestParseLayer(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Layer
		wantErr bool
	}{
		{"transport", log.LayerTransport, false},
		{"WIRE", log.LayerWire, false},
		{"Service", log.LayerService, false},
		{"radio", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseLayerFlag(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLayerFlag(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLayerFlag(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Direction
		wantErr bool
	}{
		{"in", log.DirectionIn, false},
		{"OUT", log.DirectionOut, false},
		{"sideways", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDirectionFlag(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirectionFlag(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseDirectionFlag(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Category
		wantErr bool
	}{
		{"message", log.CategoryMessage, false},
		{"Control", log.CategoryControl, false},
		{"state", log.CategoryState, false},
		{"ERROR", log.CategoryError, false},
		{"device", log.CategoryDevice, false},
		{"snapshot", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseCategoryFlag(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCategoryFlag(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseCategoryFlag(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRunViewAppliesFilter(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, []log.Event{
		{Timestamp: ts, PeerID: "lamp", Message: &log.MessageEvent{ID: "ping"}},
		{Timestamp: ts, PeerID: "watch", Message: &log.MessageEvent{ID: "status"}},
	})

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{PeerID: "lamp"}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Message ping") {
		t.Errorf("expected ping message, got: %s", output)
	}
	if strings.Contains(output, "Message status") {
		t.Errorf("expected status message filtered out, got: %s", output)
	}
}
