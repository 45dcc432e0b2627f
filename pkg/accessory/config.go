package accessory

import (
	"errors"
	"log/slog"

	"github.com/gearlink/gearlink-go/pkg/eventbus"
	"github.com/gearlink/gearlink-go/pkg/log"
	"github.com/gearlink/gearlink-go/pkg/wire"
)

// DefaultMessageID is the identifier used for payloads that carry none.
const DefaultMessageID = "data"

// ClientConfig configures a Client.
type ClientConfig struct {
	// Bus receives all notifications. If nil, the client creates its own.
	Bus *eventbus.Bus

	// Codec frames messages on the socket. Default: wire.JSONCodec.
	Codec wire.Codec

	// DefaultMessageID is used by SendData for payloads without an
	// identifier. Default: "data".
	DefaultMessageID string

	// ConnectionID tags protocol log events. If empty, a UUID is generated.
	ConnectionID string

	// Logger is the optional logger for debug output.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// ProtocolLogger captures state changes and messages (optional).
	ProtocolLogger log.Logger
}

// DefaultClientConfig returns a ClientConfig with sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Codec:            wire.JSONCodec{},
		DefaultMessageID: DefaultMessageID,
	}
}

// Validate checks the configuration.
func (c ClientConfig) Validate() error {
	if c.Codec == nil {
		return errors.New("accessory: codec is required")
	}
	if c.DefaultMessageID == "" {
		return errors.New("accessory: default message id is required")
	}
	return nil
}
