// Package connection implements the accessory connection state machine.
//
// A connection attempt walks a fixed handshake:
//
//	Disconnected -> RequestingAgent -> DiscoveringPeer -> EstablishingService -> Connected
//
// Every stage can fail. A failure passes through Errored(reason) and settles
// in Disconnected within the same transition, so the resting state after any
// failure is always Disconnected and observers still see why it happened.
// A connected socket ends in Disconnected too, either because the transport
// reported it lost or because the owner closed it.
//
// # Triggers
//
// Transitions are driven by triggers and validated against a fixed table
// (see Rules). A trigger that does not apply to the current state is
// rejected without side effects; this is how duplicate or late callbacks
// are absorbed:
//
//   - a second service connection success while Connected is a no-op
//   - peers may be found repeatedly while a service request is pending
//   - connect while not Disconnected is refused
//
// # Attempts
//
// Each accepted TriggerConnect starts a new attempt and increments the
// attempt counter. All other triggers carry the attempt they belong to, and
// triggers from a superseded attempt are rejected.
//
// There is no retry, backoff or timeout here: a failed attempt stays
// Disconnected until the owner starts a new one.
package connection
