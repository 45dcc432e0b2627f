// Package accessory implements the host side of an accessory link: it
// acquires a local service agent, discovers a peer accessory, opens a
// service connection to it and then exchanges framed messages over numbered
// channels of the resulting socket.
//
// # Handshake
//
// Client.Connect starts one attempt and returns immediately. The platform
// answers through callbacks, and each answer advances the connection state
// machine (see package connection) and emits a notification on the client's
// event bus:
//
//	connect.success          agent acquired, peer discovery started
//	connect.error            listener registration or agent request failed
//	peeragent.error          peer discovery failed
//	service.connect.success  socket established
//	service.connect.error    service connection failed
//	service.socket.status    socket lost (status "lost")
//	device.attached          device reported attached
//	device.detached          device reported detached
//	message.decode.error     inbound frame could not be decoded
//
// connect.success is sent as soon as discovery has started, before any
// peer is found. Subscribers that need a usable socket should wait for
// service.connect.success.
//
// Every decoded inbound message is published under its own identifier with
// a Received payload.
//
// # Execution model
//
// All platform callbacks, the transitions they cause and all bus publishes
// run on one dispatch goroutine per Client, in arrival order. Connect,
// Close, SendData and IsConnected may be called from any goroutine,
// including from inside a bus handler.
//
// There is no retry: a failed attempt leaves the client Disconnected until
// Connect is called again.
package accessory
