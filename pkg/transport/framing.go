package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gearlink/gearlink-go/pkg/log"
)

// Framing constants.
const (
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4

	// ChannelSize is the size of the channel tag in bytes.
	ChannelSize = 2

	// HeaderSize is the full frame header: length prefix plus channel tag.
	HeaderSize = LengthPrefixSize + ChannelSize

	// DefaultMaxMessageSize is the default maximum payload size (64 KB).
	DefaultMaxMessageSize = 65536
)

// Reserved channels. Application data uses 0 through MaxDataChannel.
const (
	// ChannelControl carries ping, pong and close.
	ChannelControl uint16 = 0xFFFF

	// ChannelHello carries the one-frame service hello exchange.
	ChannelHello uint16 = 0xFFFE

	// MaxDataChannel is the highest channel available to applications.
	MaxDataChannel = 0xFFFD
)

// Framing errors.
var (
	// ErrMessageTooLarge indicates the payload exceeds the maximum size.
	ErrMessageTooLarge = errors.New("message too large")

	// ErrMessageEmpty indicates an empty payload.
	ErrMessageEmpty = errors.New("message is empty")

	// ErrFrameTruncated indicates the frame was truncated.
	ErrFrameTruncated = errors.New("frame truncated")

	// ErrFrameMalformed indicates a length prefix too short for a channel tag.
	ErrFrameMalformed = errors.New("frame malformed")
)

// Frame is one channel-tagged unit on the wire.
type Frame struct {
	Channel uint16
	Payload []byte
}

// IsControl reports whether the frame is on a reserved channel.
func (f Frame) IsControl() bool {
	return f.Channel > MaxDataChannel
}

// FrameWriter writes length-prefixed, channel-tagged frames.
type FrameWriter struct {
	w              io.Writer
	maxMessageSize uint32
	mu             sync.Mutex

	// Logging support (optional)
	logger log.Logger
	connID string
}

// NewFrameWriter creates a new frame writer.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return NewFrameWriterWithMaxSize(w, DefaultMaxMessageSize)
}

// NewFrameWriterWithMaxSize creates a frame writer with a custom max size.
func NewFrameWriterWithMaxSize(w io.Writer, maxSize uint32) *FrameWriter {
	return &FrameWriter{
		w:              w,
		maxMessageSize: maxSize,
	}
}

// SetLogger configures logging for this writer.
// Pass nil to disable logging.
func (fw *FrameWriter) SetLogger(logger log.Logger, connID string) {
	fw.logger = logger
	fw.connID = connID
}

// WriteFrame writes payload on channel as a single write.
// Thread-safe: can be called from multiple goroutines.
func (fw *FrameWriter) WriteFrame(channel uint16, payload []byte) error {
	if len(payload) == 0 {
		return ErrMessageEmpty
	}
	if uint32(len(payload)) > fw.maxMessageSize {
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(payload), fw.maxMessageSize)
	}

	buf := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint32(buf[:LengthPrefixSize], uint32(ChannelSize+len(payload)))
	binary.BigEndian.PutUint16(buf[LengthPrefixSize:HeaderSize], channel)
	copy(buf[HeaderSize:], payload)

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if _, err := fw.w.Write(buf); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	if fw.logger != nil {
		fw.logger.Log(frameEvent(fw.connID, Frame{channel, payload}, log.DirectionOut))
	}
	return nil
}

// FrameReader reads length-prefixed, channel-tagged frames.
type FrameReader struct {
	r              io.Reader
	maxMessageSize uint32
	header         [HeaderSize]byte

	// Logging support (optional)
	logger log.Logger
	connID string
}

// NewFrameReader creates a new frame reader.
func NewFrameReader(r io.Reader) *FrameReader {
	return NewFrameReaderWithMaxSize(r, DefaultMaxMessageSize)
}

// NewFrameReaderWithMaxSize creates a frame reader with a custom max size.
func NewFrameReaderWithMaxSize(r io.Reader, maxSize uint32) *FrameReader {
	return &FrameReader{
		r:              r,
		maxMessageSize: maxSize,
	}
}

// SetLogger configures logging for this reader.
// Pass nil to disable logging.
func (fr *FrameReader) SetLogger(logger log.Logger, connID string) {
	fr.logger = logger
	fr.connID = connID
}

// ReadFrame reads the next frame. It returns io.EOF only on a clean
// boundary between frames.
func (fr *FrameReader) ReadFrame() (Frame, error) {
	if _, err := io.ReadFull(fr.r, fr.header[:LengthPrefixSize]); err != nil {
		if err == io.EOF {
			return Frame{}, err
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, ErrFrameTruncated
		}
		return Frame{}, fmt.Errorf("failed to read length prefix: %w", err)
	}

	length := binary.BigEndian.Uint32(fr.header[:LengthPrefixSize])
	if length < ChannelSize {
		return Frame{}, fmt.Errorf("%w: length %d", ErrFrameMalformed, length)
	}
	size := length - ChannelSize
	if size == 0 {
		return Frame{}, ErrMessageEmpty
	}
	if size > fr.maxMessageSize {
		return Frame{}, fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, size, fr.maxMessageSize)
	}

	if _, err := io.ReadFull(fr.r, fr.header[LengthPrefixSize:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || err == io.EOF {
			return Frame{}, ErrFrameTruncated
		}
		return Frame{}, fmt.Errorf("failed to read channel: %w", err)
	}
	channel := binary.BigEndian.Uint16(fr.header[LengthPrefixSize:])

	payload := make([]byte, size)
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || err == io.EOF {
			return Frame{}, ErrFrameTruncated
		}
		return Frame{}, fmt.Errorf("failed to read payload: %w", err)
	}

	f := Frame{Channel: channel, Payload: payload}
	if fr.logger != nil {
		fr.logger.Log(frameEvent(fr.connID, f, log.DirectionIn))
	}
	return f, nil
}

// SetMaxMessageSize updates the maximum payload size.
func (fr *FrameReader) SetMaxMessageSize(size uint32) {
	fr.maxMessageSize = size
}

// frameEvent creates a transport log event for f.
func frameEvent(connID string, f Frame, direction log.Direction) log.Event {
	data, truncated := log.Capture(f.Payload)
	category := log.CategoryMessage
	if f.IsControl() {
		category = log.CategoryControl
	}
	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    direction,
		Layer:        log.LayerTransport,
		Category:     category,
		Channel:      log.ChannelRef(int(f.Channel)),
		Frame: &log.FrameEvent{
			Size:      FrameSize(len(f.Payload)),
			Data:      data,
			Truncated: truncated,
		},
	}
}

// Framer combines frame reading and writing.
type Framer struct {
	*FrameReader
	*FrameWriter
}

// NewFramer creates a new framer for bidirectional communication.
func NewFramer(rw io.ReadWriter) *Framer {
	return NewFramerWithMaxSize(rw, DefaultMaxMessageSize)
}

// NewFramerWithMaxSize creates a framer with a custom max message size.
func NewFramerWithMaxSize(rw io.ReadWriter, maxSize uint32) *Framer {
	return &Framer{
		FrameReader: NewFrameReaderWithMaxSize(rw, maxSize),
		FrameWriter: NewFrameWriterWithMaxSize(rw, maxSize),
	}
}

// SetLogger configures logging for both reader and writer.
// Pass nil to disable logging.
func (f *Framer) SetLogger(logger log.Logger, connID string) {
	f.FrameReader.SetLogger(logger, connID)
	f.FrameWriter.SetLogger(logger, connID)
}

// FrameSize returns the total frame size including the header.
func FrameSize(payloadSize int) int {
	return HeaderSize + payloadSize
}
