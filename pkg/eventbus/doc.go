// Package eventbus provides a topic-keyed publish/subscribe registry.
//
// Handlers subscribe to a string topic and receive every payload published
// to that topic afterwards. There is no persistence: a handler registered
// after a publish never sees it.
//
// # Dispatch
//
// Publish is synchronous. Handlers run on the publishing goroutine in
// subscription order, iterating over a snapshot taken when Publish starts:
//
//   - a handler unsubscribed during a publish still receives that publish
//   - a handler subscribed during a publish does not
//   - a panicking handler is recovered; the remaining handlers still run
//
// Because the snapshot is taken before any handler runs, handlers may call
// Subscribe, Unsubscribe or Publish themselves without deadlocking.
package eventbus
