package log

// MaxCapture is the number of payload bytes kept in frame and message events.
const MaxCapture = 1024

// Logger is the interface applications implement to receive protocol log events.
// Pass nil or NoopLogger to disable logging.
type Logger interface {
	// Log records a protocol event. Implementations must be thread-safe.
	// The event should be processed quickly or queued; blocking affects performance.
	Log(event Event)
}

// NoopLogger discards all events. Use when logging is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}

// Capture returns a copy of data limited to MaxCapture bytes and whether it
// was cut.
func Capture(data []byte) ([]byte, bool) {
	n := len(data)
	truncated := n > MaxCapture
	if truncated {
		n = MaxCapture
	}
	out := make([]byte, n)
	copy(out, data[:n])
	return out, truncated
}

// ChannelRef returns a pointer suitable for Event.Channel.
func ChannelRef(channel int) *int {
	return &channel
}
