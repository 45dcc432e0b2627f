// Package wire defines the message format exchanged over an accessory socket.
//
// Every message carries an application-chosen identifier and a payload.
// The identifier doubles as the event topic on the receiving side, so the
// wire layer only guarantees that it is present and non-empty; the payload
// is opaque beyond being well-formed.
//
// # Codecs
//
// Two codecs share the same Message model:
//   - JSONCodec: {"msgId": <id>, "payload": <payload>} (default)
//   - CBORCodec: CBOR map with integer keys {1: id, 2: payload JSON bytes}
//
// Both satisfy Decode(Encode(id, p)) == {id, p}. Payloads are kept as raw
// JSON so that a decoded Message re-encodes unchanged with either codec.
//
// # Flat frames
//
// JSONCodec also accepts frames without a "payload" key, such as
// {"msgId": "ping", "seq": 4}. The whole object is then the payload, which
// is how accessories that inline the identifier into their data objects
// send messages.
package wire
