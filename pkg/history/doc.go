// Package history persists a host's connection history in SQLite.
//
// A Recorder subscribes to an accessory client's bus and stores one Entry
// per service connection, connection failure and lost link. Local closes
// are recorded explicitly with Recorder.Closed.
package history
