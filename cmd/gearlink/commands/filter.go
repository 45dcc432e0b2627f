package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gearlink/gearlink-go/pkg/log"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output    string
	ConnID    string
	PeerID    string
	Channel   int // negative means any
	TimeStart string
	TimeEnd   string
	Layer     string
	Direction string
	Category  string
}

// optional parses s with parse unless it is empty.
func optional[T any](s string, parse func(string) (T, error)) (*T, error) {
	if s == "" {
		return nil, nil
	}
	v, err := parse(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseRFC3339(flag string) func(string) (time.Time, error) {
	return func(s string) (time.Time, error) {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid %s format: %w", flag, err)
		}
		return t, nil
	}
}

// buildFilter turns command-line options into a reader filter.
func buildFilter(opts FilterOptions) (log.Filter, error) {
	filter := log.Filter{ConnectionID: opts.ConnID, PeerID: opts.PeerID}
	if opts.Channel >= 0 {
		filter.Channel = log.ChannelRef(opts.Channel)
	}

	var err error
	if filter.TimeStart, err = optional(opts.TimeStart, parseRFC3339("time-start")); err != nil {
		return log.Filter{}, err
	}
	if filter.TimeEnd, err = optional(opts.TimeEnd, parseRFC3339("time-end")); err != nil {
		return log.Filter{}, err
	}
	if filter.Layer, err = optional(opts.Layer, ParseLayerFlag); err != nil {
		return log.Filter{}, err
	}
	if filter.Direction, err = optional(opts.Direction, ParseDirectionFlag); err != nil {
		return log.Filter{}, err
	}
	if filter.Category, err = optional(opts.Category, ParseCategoryFlag); err != nil {
		return log.Filter{}, err
	}
	return filter, nil
}

// RunFilter filters the log file and writes matching events to a new file.
// It returns the number of events written.
func RunFilter(path string, opts FilterOptions) (int, error) {
	filter, err := buildFilter(opts)
	if err != nil {
		return 0, err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	count := 0
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("failed to read event: %w", err)
		}

		logger.Log(event)
		count++
	}

	return count, nil
}
