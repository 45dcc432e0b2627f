package commands

import (
	"fmt"
	"errors"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/gearlink/gearlink-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	MessagesByID      map[string]int
	Connections       map[string]*ConnectionStats
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ConnectionStats holds statistics for a single connection.
type ConnectionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	PeerID    string
	Attempts  uint64
	Channels  map[int]int
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		MessagesByID:      make(map[string]int),
		Connections:       make(map[string]*ConnectionStats),
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	conn, ok := s.Connections[event.ConnectionID]
	if !ok {
		conn = &ConnectionStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
			Channels:  make(map[int]int),
		}
		s.Connections[event.ConnectionID] = conn
	}
	conn.Events++
	if event.Timestamp.After(conn.LastSeen) {
		conn.LastSeen = event.Timestamp
	}
	if event.PeerID != "" && conn.PeerID == "" {
		conn.PeerID = event.PeerID
	}
	if event.Channel != nil {
		conn.Channels[*event.Channel]++
	}
	if sc := event.StateChange; sc != nil && sc.Attempt > conn.Attempts {
		conn.Attempts = sc.Attempt
	}

	if event.Message != nil {
		s.MessagesByID[event.Message.ID]++
	}
	if event.Error != nil {
		s.Errors++
	}
}

// printCounts writes a titled section listing the non-zero counts of keys in
// order. Nothing is written when every count is zero.
func printCounts[K comparable](w io.Writer, title string, counts map[K]int, keys []K, name func(K) string) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range keys {
		if n := counts[k]; n > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", name(k)+":", n)
		}
	}
	fmt.Fprintln(w)
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprint(w, "=== Gearlink Protocol Log Statistics ===\n\n")

	if stats.TotalEvents > 0 {
		start, end := stats.TimeRange.Start, stats.TimeRange.End
		fmt.Fprintf(w, "Time Range: %s to %s\n", start.Format(time.RFC3339), end.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n\n", end.Sub(start).Round(time.Second))
	}
	fmt.Fprintf(w, "Total Events: %d\n\n", stats.TotalEvents)

	printCounts(w, "Events by Layer", stats.EventsByLayer,
		[]log.Layer{log.LayerTransport, log.LayerWire, log.LayerService}, log.Layer.String)
	printCounts(w, "Events by Category", stats.EventsByCategory,
		[]log.Category{log.CategoryMessage, log.CategoryControl, log.CategoryState, log.CategoryError, log.CategoryDevice},
		log.Category.String)
	printCounts(w, "Events by Direction", stats.EventsByDirection,
		[]log.Direction{log.DirectionIn, log.DirectionOut}, log.Direction.String)
	printCounts(w, "Messages by ID", stats.MessagesByID,
		slices.Sorted(maps.Keys(stats.MessagesByID)), func(id string) string { return id })

	fmt.Fprintf(w, "Connections: %d\n", len(stats.Connections))
	ids := slices.SortedFunc(maps.Keys(stats.Connections), func(a, b string) int {
		return stats.Connections[a].FirstSeen.Compare(stats.Connections[b].FirstSeen)
	})
	if len(ids) > 0 {
		fmt.Fprintln(w)
	}
	for _, id := range ids {
		c := stats.Connections[id]
		fmt.Fprintf(w, "  [%s] %d events, duration %s\n",
			shortenConnID(id), c.Events, c.LastSeen.Sub(c.FirstSeen).Round(time.Millisecond))
		if c.PeerID != "" {
			fmt.Fprintf(w, "           Peer: %s\n", c.PeerID)
		}
		if c.Attempts > 0 {
			fmt.Fprintf(w, "           Attempts: %d\n", c.Attempts)
		}
		if len(c.Channels) > 0 {
			fmt.Fprintf(w, "           Channels: %v\n", slices.Sorted(maps.Keys(c.Channels)))
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintf(w, "\nErrors: %d\n", stats.Errors)
	}
}
