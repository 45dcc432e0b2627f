package log

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Magic identifies a protocol log file header.
const Magic = "GLOG"

// FormatVersion is the on-disk format written by FileLogger.
const FormatVersion = 1

// ErrUnsupportedFormat is returned for log files newer than FormatVersion.
var ErrUnsupportedFormat = errors.New("unsupported log format")

// Header is the first record of a protocol log file. Its keys do not
// overlap with Event keys, so the two cannot be confused.
type Header struct {
	Magic   string    `cbor:"100,keyasint"`
	Version uint8     `cbor:"101,keyasint"`
	Created time.Time `cbor:"102,keyasint,omitempty"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	// Timestamps keep nanoseconds; map keys are canonical so files diff cleanly.
	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: CBOR encoder mode: %v", err))
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes an Event to CBOR using integer keys.
func EncodeEvent(event Event) ([]byte, error) {
	return encMode.Marshal(event)
}

// DecodeEvent decodes one CBOR-encoded Event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := decMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder creates a CBOR encoder for log records that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder creates a CBOR decoder for log records that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}

// newHeader returns the header written at the start of a new file.
func newHeader() Header {
	return Header{Magic: Magic, Version: FormatVersion, Created: time.Now()}
}

// parseHeader reports whether raw is a file header. A header with a newer
// version fails with ErrUnsupportedFormat.
func parseHeader(raw cbor.RawMessage) (Header, bool, error) {
	var h Header
	if err := decMode.Unmarshal(raw, &h); err != nil || h.Magic != Magic {
		return Header{}, false, nil
	}
	if h.Version > FormatVersion {
		return h, true, fmt.Errorf("%w: version %d", ErrUnsupportedFormat, h.Version)
	}
	return h, true, nil
}
