// Package log provides structured protocol logging for gearlink.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events at multiple layers (transport, wire, service).
// It is separate from operational logging (slog): protocol capture provides
// a complete machine-readable event trace for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	fl, err := log.NewFileLogger("/var/log/gearlink/host.glog")
//	if err != nil {
//		return err
//	}
//	pl := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//	defer pl.Close()
//
//	cfg := accessory.DefaultClientConfig()
//	cfg.ProtocolLogger = pl
//	client, err := accessory.NewClient(platform, cfg)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: Raw frame bytes (FrameEvent)
//   - Wire: Decoded messages (MessageEvent)
//   - Service: Connection state changes (StateChangeEvent) and device
//     attach/detach reports (DeviceEvent)
//
// Control frames (hello/ping/pong/close) and errors have dedicated event types.
//
// # File Format
//
// Log files use the .glog extension: a CBOR Header record (magic "GLOG" and
// FormatVersion) followed by a stream of CBOR-encoded events. Reader skips
// the header, accepts files without one and rejects newer format versions.
// "gearlink log view" and "gearlink log stats" read them back.
package log
