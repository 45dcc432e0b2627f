// Package transport provides the LAN link between a host and an accessory.
//
// The transport layer handles:
//   - Length-prefixed, channel-tagged framing
//   - A one-frame hello that agrees the service profile
//   - Keep-alive ping/pong for connection liveness
//   - Loss reporting through a status listener
//
// # Frame Layout
//
//	┌──────────────┬────────────┬─────────────────┐
//	│ length (4B)  │ channel 2B │ payload         │
//	└──────────────┴────────────┴─────────────────┘
//
// The length covers the channel tag and the payload, big-endian.
// Channels 0 through MaxDataChannel carry application messages.
// ChannelControl (0xFFFF) carries CBOR ping/pong/close and ChannelHello
// (0xFFFE) carries the hello exchange.
//
// # Keep-Alive
//
// Each side pings its peer:
//   - Ping interval: 15 seconds
//   - Pong timeout: 5 seconds
//   - Max missed pongs: 2
//
// A link is reported lost on read error, keep-alive timeout or a close
// from the peer. A local Close is not reported.
package transport
