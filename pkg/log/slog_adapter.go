package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger as flat attributes,
// one record per event. It is meant for console tracing at debug level.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter returns an adapter logging at slog.LevelDebug.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the adapter that logs at level.
func (a *SlogAdapter) WithLevel(level slog.Level) *SlogAdapter {
	return &SlogAdapter{logger: a.logger, level: level}
}

// Log implements Logger.
func (a *SlogAdapter) Log(event Event) {
	ctx := context.Background()
	if !a.logger.Enabled(ctx, a.level) {
		return
	}

	attrs := make([]slog.Attr, 0, 12)
	attrs = append(attrs,
		slog.String("conn_id", event.ConnectionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	)
	attrs = appendNonEmpty(attrs, "peer_id", event.PeerID)
	attrs = appendNonEmpty(attrs, "remote", event.RemoteAddr)
	if event.Channel != nil {
		attrs = append(attrs, slog.Int("channel", *event.Channel))
	}
	attrs = append(attrs, payloadAttrs(event)...)

	a.logger.LogAttrs(ctx, a.level, "protocol", attrs...)
}

// payloadAttrs describes whichever payload the event carries.
func payloadAttrs(event Event) []slog.Attr {
	var attrs []slog.Attr
	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.Bool("truncated", event.Frame.Truncated))
	case event.Message != nil:
		attrs = append(attrs,
			slog.String("msg_id", event.Message.ID),
			slog.Int("msg_size", event.Message.Size))
		attrs = appendNonEmpty(attrs, "codec", event.Message.Codec)
	case event.StateChange != nil:
		sc := event.StateChange
		attrs = append(attrs,
			slog.String("entity", sc.Entity.String()),
			slog.String("old_state", sc.OldState),
			slog.String("new_state", sc.NewState))
		if sc.Attempt != 0 {
			attrs = append(attrs, slog.Uint64("attempt", sc.Attempt))
		}
		attrs = appendNonEmpty(attrs, "reason", sc.Reason)
	case event.ControlMsg != nil:
		attrs = append(attrs, slog.String("ctrl_type", event.ControlMsg.Type.String()))
		attrs = appendNonEmpty(attrs, "profile", event.ControlMsg.Profile)
	case event.Device != nil:
		attrs = append(attrs,
			slog.String("device_type", event.Device.Type),
			slog.String("device_status", event.Device.Status))
	case event.Error != nil:
		e := event.Error
		attrs = append(attrs,
			slog.String("error_layer", e.Layer.String()),
			slog.String("error_msg", e.Message))
		attrs = appendNonEmpty(attrs, "error_context", e.Context)
		attrs = appendNonEmpty(attrs, "error_code", e.Code)
	}
	return attrs
}

func appendNonEmpty(attrs []slog.Attr, key, value string) []slog.Attr {
	if value == "" {
		return attrs
	}
	return append(attrs, slog.String(key, value))
}

var _ Logger = (*SlogAdapter)(nil)
