package transport

import (
	"context"
	"net"
)

// Socket is the message-level view of a link.
// Implemented by Conn.
type Socket interface {
	SetDataReceiveListener(fn func(channel int, data string))
	SetSocketStatusListener(fn func(error))
	SendData(channel int, data string) error
	IsConnected() bool
	Close() error
}

// TransportServer represents an accessory listener.
// Implemented by Server.
type TransportServer interface {
	// Start begins accepting connections.
	Start(ctx context.Context) error

	// Stop gracefully stops the server.
	Stop() error

	// Addr returns the server's listen address.
	Addr() net.Addr

	// ConnectionCount returns the number of active connections.
	ConnectionCount() int
}

// FrameReadWriter provides channel-tagged frame I/O.
// Implemented by Framer.
type FrameReadWriter interface {
	ReadFrame() (Frame, error)
	WriteFrame(channel uint16, payload []byte) error
}

// Compile-time interface satisfaction checks.
var (
	_ Socket          = (*Conn)(nil)
	_ TransportServer = (*Server)(nil)
	_ FrameReadWriter = (*Framer)(nil)
)
