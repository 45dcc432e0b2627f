package commands

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gearlink/gearlink-go/pkg/log"
)

// csvColumns is the header row of a CSV export.
var csvColumns = []string{"timestamp", "connection_id", "direction", "layer", "category", "peer_id", "channel", "type", "message_id"}

// exporter writes one event per call in a particular output format.
type exporter interface {
	write(event log.Event) error
	flush() error
}

// RunExport converts the log file to jsonl or csv. An empty output writes to
// stdout.
func RunExport(path, format, output string, stdout io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	w := stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	exp, err := newExporter(format, w)
	if err != nil {
		return err
	}
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := exp.write(event); err != nil {
			return err
		}
	}
	return exp.flush()
}

func newExporter(format string, w io.Writer) (exporter, error) {
	switch format {
	case "jsonl":
		return jsonlExporter{enc: json.NewEncoder(w)}, nil
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write(csvColumns); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		return csvExporter{w: cw}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

type jsonlExporter struct {
	enc *json.Encoder
}

func (e jsonlExporter) write(event log.Event) error {
	if err := e.enc.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return nil
}

func (jsonlExporter) flush() error { return nil }

type csvExporter struct {
	w *csv.Writer
}

func (e csvExporter) write(event log.Event) error {
	var channel, msgID string
	if event.Channel != nil {
		channel = strconv.Itoa(*event.Channel)
	}
	if event.Message != nil {
		msgID = event.Message.ID
	}
	row := []string{
		event.Timestamp.UTC().Format(timestampLayout),
		event.ConnectionID,
		event.Direction.String(),
		event.Layer.String(),
		event.Category.String(),
		event.PeerID,
		channel,
		eventKind(event),
		msgID,
	}
	if err := e.w.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

func (e csvExporter) flush() error {
	e.w.Flush()
	return e.w.Error()
}

// eventKind names the payload an event carries.
func eventKind(event log.Event) string {
	switch {
	case event.Frame != nil:
		return "frame"
	case event.Message != nil:
		return "message"
	case event.StateChange != nil:
		return "state"
	case event.ControlMsg != nil:
		return event.ControlMsg.Type.String()
	case event.Device != nil:
		return "device"
	case event.Error != nil:
		return "error"
	default:
		return "unknown"
	}
}
