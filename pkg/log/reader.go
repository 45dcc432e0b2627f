package log

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter selects events while reading. Zero fields match everything. The
// time window is half open: TimeStart inclusive, TimeEnd exclusive.
type Filter struct {
	ConnectionID string
	PeerID       string
	Channel      *int // events without a channel never match
	Direction    *Direction
	Layer        *Layer
	Category     *Category
	TimeStart    *time.Time
	TimeEnd      *time.Time
}

// Matches reports whether event passes every set criterion.
func (f Filter) Matches(event Event) bool {
	switch {
	case f.ConnectionID != "" && event.ConnectionID != f.ConnectionID,
		f.PeerID != "" && event.PeerID != f.PeerID,
		f.Channel != nil && (event.Channel == nil || *event.Channel != *f.Channel),
		f.Direction != nil && event.Direction != *f.Direction,
		f.Layer != nil && event.Layer != *f.Layer,
		f.Category != nil && event.Category != *f.Category,
		f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart),
		f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd):
		return false
	}
	return true
}

// Reader streams events from a .glog file. Files written before headers
// were introduced are read the same way.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
	header  *Header
	started bool
}

// NewReader creates a Reader for every event in path.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader for the events in path that match filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// Header returns the file header, or nil if the file has none. It is
// known after the first call to Next.
func (r *Reader) Header() *Header {
	return r.header
}

// Next returns the next matching event, or io.EOF at the end of the file.
func (r *Reader) Next() (Event, error) {
	for {
		var raw cbor.RawMessage
		if err := r.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				// A crash can leave a partial trailing event.
				return Event{}, io.EOF
			}
			return Event{}, err
		}

		if !r.started {
			r.started = true
			h, ok, err := parseHeader(raw)
			if err != nil {
				return Event{}, err
			}
			if ok {
				r.header = &h
				continue
			}
		}

		event, err := DecodeEvent(raw)
		if err != nil {
			return Event{}, err
		}
		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// ReadAll reads every matching event from path.
func ReadAll(path string, filter Filter) ([]Event, error) {
	r, err := NewFilteredReader(path, filter)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var events []Event
	for {
		event, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
}
