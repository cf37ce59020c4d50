// Package events records reconciliation outcomes as typed events.
//
// Events are kept in an in-memory ring buffer and surfaced by the events
// command. Each event carries a reason code, a templated human-readable
// message and the raw context it was built from.
package events
