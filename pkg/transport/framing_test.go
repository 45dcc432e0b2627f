package transport

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/gearlink/gearlink-go/pkg/log"
)

func TestFrameWriterReader(t *testing.T) {
	tests := []struct {
		name    string
		channel uint16
		payload []byte
	}{
		{"small message", 0, []byte("hello")},
		{"medium message", 104, bytes.Repeat([]byte("x"), 1000)},
		{"max size message", MaxDataChannel, bytes.Repeat([]byte("y"), DefaultMaxMessageSize)},
		{"single byte", 1, []byte{0x42}},
		{"control channel", ChannelControl, []byte{0x00, 0xFF, 0x7F, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)

			writer := NewFrameWriter(buf)
			if err := writer.WriteFrame(tt.channel, tt.payload); err != nil {
				t.Fatalf("WriteFrame failed: %v", err)
			}

			if buf.Len() != FrameSize(len(tt.payload)) {
				t.Errorf("frame size = %d, want %d", buf.Len(), FrameSize(len(tt.payload)))
			}

			reader := NewFrameReader(buf)
			got, err := reader.ReadFrame()
			if err != nil {
				t.Fatalf("ReadFrame failed: %v", err)
			}
			if got.Channel != tt.channel {
				t.Errorf("channel = %d, want %d", got.Channel, tt.channel)
			}
			if !bytes.Equal(got.Payload, tt.payload) {
				t.Errorf("payload mismatch: got %d bytes, want %d bytes", len(got.Payload), len(tt.payload))
			}
		})
	}
}

func TestFrameLayout(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := NewFrameWriter(buf).WriteFrame(0x0102, []byte("ab")); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}
	want := []byte{0, 0, 0, 4, 0x01, 0x02, 'a', 'b'}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("frame = % x, want % x", buf.Bytes(), want)
	}
}

func TestFrameWriterEmptyMessage(t *testing.T) {
	writer := NewFrameWriter(new(bytes.Buffer))

	if err := writer.WriteFrame(1, []byte{}); !errors.Is(err, ErrMessageEmpty) {
		t.Errorf("expected ErrMessageEmpty, got %v", err)
	}
	if err := writer.WriteFrame(1, nil); !errors.Is(err, ErrMessageEmpty) {
		t.Errorf("expected ErrMessageEmpty for nil, got %v", err)
	}
}

func TestFrameWriterMessageTooLarge(t *testing.T) {
	writer := NewFrameWriterWithMaxSize(new(bytes.Buffer), 100)

	err := writer.WriteFrame(1, bytes.Repeat([]byte("x"), 101))
	if !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("expected ErrMessageTooLarge, got %v", err)
	}
}

// rawFrame builds a frame with an arbitrary length prefix.
func rawFrame(length uint32, rest []byte) *bytes.Buffer {
	buf := new(bytes.Buffer)
	var lengthBuf [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(lengthBuf[:], length)
	buf.Write(lengthBuf[:])
	buf.Write(rest)
	return buf
}

func TestFrameReaderErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  *bytes.Buffer
		max  uint32
		want error
	}{
		{"too large", rawFrame(1002, append([]byte{0, 1}, bytes.Repeat([]byte("x"), 1000)...)), 100, ErrMessageTooLarge},
		{"zero length", rawFrame(0, nil), DefaultMaxMessageSize, ErrFrameMalformed},
		{"no channel", rawFrame(1, []byte{0}), DefaultMaxMessageSize, ErrFrameMalformed},
		{"channel only", rawFrame(2, []byte{0, 1}), DefaultMaxMessageSize, ErrMessageEmpty},
		{"truncated length", bytes.NewBuffer([]byte{0x00, 0x01}), DefaultMaxMessageSize, ErrFrameTruncated},
		{"truncated channel", rawFrame(10, []byte{0}), DefaultMaxMessageSize, ErrFrameTruncated},
		{"truncated payload", rawFrame(102, append([]byte{0, 1}, bytes.Repeat([]byte("x"), 50)...)), DefaultMaxMessageSize, ErrFrameTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFrameReaderWithMaxSize(tt.buf, tt.max).ReadFrame()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFrameReaderEOF(t *testing.T) {
	_, err := NewFrameReader(new(bytes.Buffer)).ReadFrame()
	if err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestFramerBidirectional(t *testing.T) {
	r, w := io.Pipe()
	defer r.Close()
	defer w.Close()

	done := make(chan struct{})
	payload := []byte(`{"msgId":"ping"}`)

	go func() {
		defer close(done)
		framer := NewFramer(&readWriter{r: r, w: w})
		if err := framer.WriteFrame(3, payload); err != nil {
			t.Errorf("WriteFrame failed: %v", err)
		}
	}()

	framer := NewFramer(&readWriter{r: r, w: w})
	got, err := framer.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if got.Channel != 3 || !bytes.Equal(got.Payload, payload) {
		t.Errorf("got channel %d payload %q", got.Channel, got.Payload)
	}

	<-done
}

// readWriter combines a reader and writer for testing.
type readWriter struct {
	r io.Reader
	w io.Writer
}

func (rw *readWriter) Read(p []byte) (n int, err error) {
	return rw.r.Read(p)
}

func (rw *readWriter) Write(p []byte) (n int, err error) {
	return rw.w.Write(p)
}

func TestMultipleFrames(t *testing.T) {
	buf := new(bytes.Buffer)
	writer := NewFrameWriter(buf)

	frames := []Frame{
		{1, []byte("first")},
		{2, []byte("second")},
		{1, []byte("third")},
	}
	for _, f := range frames {
		if err := writer.WriteFrame(f.Channel, f.Payload); err != nil {
			t.Fatalf("WriteFrame failed: %v", err)
		}
	}

	reader := NewFrameReader(buf)
	for i, want := range frames {
		got, err := reader.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame %d failed: %v", i, err)
		}
		if got.Channel != want.Channel || !bytes.Equal(got.Payload, want.Payload) {
			t.Errorf("frame %d = %d/%q, want %d/%q", i, got.Channel, got.Payload, want.Channel, want.Payload)
		}
	}

	if _, err := reader.ReadFrame(); err != io.EOF {
		t.Errorf("expected EOF after all frames, got %v", err)
	}
}

func TestFrameSize(t *testing.T) {
	if got := FrameSize(100); got != 106 {
		t.Errorf("FrameSize(100) = %d, want 106", got)
	}
	if got := FrameSize(0); got != HeaderSize {
		t.Errorf("FrameSize(0) = %d, want %d", got, HeaderSize)
	}
}

func TestFrameIsControl(t *testing.T) {
	for ch, want := range map[uint16]bool{0: false, MaxDataChannel: false, ChannelHello: true, ChannelControl: true} {
		if got := (Frame{Channel: ch}).IsControl(); got != want {
			t.Errorf("Frame{%d}.IsControl() = %v, want %v", ch, got, want)
		}
	}
}

func BenchmarkFrameWrite(b *testing.B) {
	buf := new(bytes.Buffer)
	writer := NewFrameWriter(buf)
	payload := bytes.Repeat([]byte("x"), 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		writer.WriteFrame(1, payload)
	}
}

// capturingLogger captures log events for testing.
type capturingLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (l *capturingLogger) Log(event log.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *capturingLogger) Events() []log.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]log.Event(nil), l.events...)
}

func TestFrameWriterLogsOnWrite(t *testing.T) {
	logger := &capturingLogger{}
	writer := NewFrameWriter(new(bytes.Buffer))
	writer.SetLogger(logger, "conn-123")

	payload := []byte("hello")
	if err := writer.WriteFrame(7, payload); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	events := logger.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	e := events[0]
	if e.ConnectionID != "conn-123" {
		t.Errorf("ConnectionID = %q, want %q", e.ConnectionID, "conn-123")
	}
	if e.Direction != log.DirectionOut {
		t.Errorf("Direction = %v, want DirectionOut", e.Direction)
	}
	if e.Layer != log.LayerTransport {
		t.Errorf("Layer = %v, want LayerTransport", e.Layer)
	}
	if e.Category != log.CategoryMessage {
		t.Errorf("Category = %v, want CategoryMessage", e.Category)
	}
	if e.Channel == nil || *e.Channel != 7 {
		t.Errorf("Channel = %v, want 7", e.Channel)
	}
	if e.Frame == nil {
		t.Fatal("Frame is nil")
	}
	if e.Frame.Size != FrameSize(len(payload)) {
		t.Errorf("Frame.Size = %d, want %d", e.Frame.Size, FrameSize(len(payload)))
	}
	if !bytes.Equal(e.Frame.Data, payload) {
		t.Errorf("Frame.Data = %v, want %v", e.Frame.Data, payload)
	}
}

func TestFrameReaderLogsControlFrames(t *testing.T) {
	buf := new(bytes.Buffer)
	NewFrameWriter(buf).WriteFrame(ChannelControl, []byte{1})

	logger := &capturingLogger{}
	reader := NewFrameReader(buf)
	reader.SetLogger(logger, "conn-456")
	if _, err := reader.ReadFrame(); err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}

	events := logger.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Direction != log.DirectionIn {
		t.Errorf("Direction = %v, want DirectionIn", events[0].Direction)
	}
	if events[0].Category != log.CategoryControl {
		t.Errorf("Category = %v, want CategoryControl", events[0].Category)
	}
}

func TestFramerNoLoggerNoPanic(t *testing.T) {
	buf := new(bytes.Buffer)

	writer := NewFrameWriter(buf)
	if err := writer.WriteFrame(1, []byte("hello")); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}
	if _, err := NewFrameReader(buf).ReadFrame(); err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}

	writer.SetLogger(nil, "conn-id")
	if err := writer.WriteFrame(1, []byte("world")); err != nil {
		t.Fatalf("WriteFrame with nil logger failed: %v", err)
	}
}

func TestFramerLogsTruncatedData(t *testing.T) {
	logger := &capturingLogger{}
	writer := NewFrameWriter(new(bytes.Buffer))
	writer.SetLogger(logger, "conn-trunc")

	large := bytes.Repeat([]byte("x"), 5000)
	if err := writer.WriteFrame(1, large); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	e := logger.Events()[0]
	if e.Frame.Size != FrameSize(len(large)) {
		t.Errorf("Frame.Size = %d, want %d", e.Frame.Size, FrameSize(len(large)))
	}
	if len(e.Frame.Data) != log.MaxCapture {
		t.Errorf("Frame.Data length = %d, want %d", len(e.Frame.Data), log.MaxCapture)
	}
	if !e.Frame.Truncated {
		t.Error("Frame.Truncated = false, want true")
	}
}
