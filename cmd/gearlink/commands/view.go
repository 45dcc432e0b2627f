package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gearlink/gearlink-go/pkg/log"
)

// timestampLayout renders event times with microsecond precision.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

// ViewFilter selects the events "log view" prints.
type ViewFilter struct {
	Layer     *log.Layer
	Direction *log.Direction
	Category  *log.Category
	Channel   *int
	PeerID    string
}

func (f ViewFilter) readerFilter() log.Filter {
	return log.Filter{
		Layer:     f.Layer,
		Direction: f.Direction,
		Category:  f.Category,
		Channel:   f.Channel,
		PeerID:    f.PeerID,
	}
}

// filterEvents returns the events matching filter.
func filterEvents(events []log.Event, filter ViewFilter) []log.Event {
	rf := filter.readerFilter()
	var result []log.Event
	for _, e := range events {
		if rf.Matches(e) {
			result = append(result, e)
		}
	}
	return result
}

// RunView prints every matching event in path to output.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.readerFilter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
}

// formatEvent writes one event as a header line, optional detail lines and a
// blank separator:
//
//	2026-01-28T10:15:32.000000Z [conn:abc12345] IN  WIRE Message pong ch=104
func formatEvent(w io.Writer, event log.Event) {
	layer := event.Layer.String()
	if event.Category == log.CategoryControl {
		layer = "CTRL"
	}

	fmt.Fprintf(w, "%s [conn:%s] %-3s %s %s",
		event.Timestamp.UTC().Format(timestampLayout),
		shortenConnID(event.ConnectionID),
		event.Direction.String(),
		layer,
		viewLabel(event))
	if event.Channel != nil {
		fmt.Fprintf(w, " ch=%d", *event.Channel)
	}
	fmt.Fprintln(w)

	if event.PeerID != "" {
		fmt.Fprintf(w, "  Peer: %s\n", event.PeerID)
	}

	switch {
	case event.Frame != nil:
		writeFrame(w, event.Frame)
	case event.Message != nil:
		writeMessage(w, event.Message)
	case event.StateChange != nil:
		writeStateChange(w, event.StateChange)
	case event.ControlMsg != nil:
		writeField(w, "Profile", event.ControlMsg.Profile)
	case event.Device != nil:
		fmt.Fprintf(w, "  %s %s\n", event.Device.Type, event.Device.Status)
	case event.Error != nil:
		writeError(w, event.Error)
	}
	fmt.Fprintln(w)
}

// viewLabel is the payload name shown in the header line.
func viewLabel(event log.Event) string {
	switch kind := eventKind(event); kind {
	case "message":
		return "Message " + event.Message.ID
	case "frame", "state", "device", "error", "unknown":
		return strings.ToUpper(kind[:1]) + kind[1:]
	default:
		return kind
	}
}

func shortenConnID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// writeField prints "  name: value" unless value is empty.
func writeField(w io.Writer, name, value string) {
	if value != "" {
		fmt.Fprintf(w, "  %s: %s\n", name, value)
	}
}

func writeFrame(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) == 0 {
		return
	}
	suffix := ""
	if frame.Truncated {
		suffix = " (truncated)"
	}
	fmt.Fprintf(w, "  Data: %s%s\n", hex.EncodeToString(frame.Data), suffix)
}

func writeMessage(w io.Writer, msg *log.MessageEvent) {
	writeField(w, "MessageID", msg.ID)
	writeField(w, "Codec", msg.Codec)
	if msg.Size > 0 {
		fmt.Fprintf(w, "  Size: %d bytes\n", msg.Size)
	}
	writeField(w, "Payload", string(msg.Payload))
}

func writeStateChange(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity)
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Attempt != 0 {
		fmt.Fprintf(w, "  Attempt: %d\n", sc.Attempt)
	}
	writeField(w, "Reason", sc.Reason)
}

func writeError(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", e.Layer)
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
	writeField(w, "Code", e.Code)
	writeField(w, "Context", e.Context)
}

var (
	layerNames = map[string]log.Layer{
		"transport": log.LayerTransport,
		"wire":      log.LayerWire,
		"service":   log.LayerService,
	}
	directionNames = map[string]log.Direction{
		"in":  log.DirectionIn,
		"out": log.DirectionOut,
	}
	categoryNames = map[string]log.Category{
		"message": log.CategoryMessage,
		"control": log.CategoryControl,
		"state":   log.CategoryState,
		"error":   log.CategoryError,
		"device":  log.CategoryDevice,
	}
)

// parseName looks s up case-insensitively in names.
func parseName[T any](kind, s string, names map[string]T, allowed string) (T, error) {
	if v, ok := names[strings.ToLower(s)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s: %s (must be %s)", kind, s, allowed)
}

// ParseLayerFlag parses a --layer value.
func ParseLayerFlag(s string) (log.Layer, error) {
	return parseName("layer", s, layerNames, "transport, wire, or service")
}

// ParseDirectionFlag parses a --direction value.
func ParseDirectionFlag(s string) (log.Direction, error) {
	return parseName("direction", s, directionNames, "in or out")
}

// ParseCategoryFlag parses a --category value.
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseName("category", s, categoryNames, "message, control, state, error, or device")
}
