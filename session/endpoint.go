// Package session is the game session coordinator: the registry of
// active games, the per-game state machine, the player-to-game index,
// and the invite-to-game transition. Every mutation of a single game
// is serialized through that game's own goroutine; the Manager itself
// only ever takes its registry lock for the lookup/insert/delete the
// concurrency model calls a "short critical section".
package session

import "go-chessd"

// Endpoint is a handle to one connected client. Transport packages
// implement it; the manager never knows how a message actually
// crosses the wire.
type Endpoint interface {
	// Send enqueues an outbound message. The implementation must
	// preserve per-endpoint ordering: sends issued in one order must
	// arrive in that order.
	Send(route, action string, payload interface{}, correlationID string)
	IsOpen() bool

	// Subscription reports the game and seat this endpoint is
	// currently attached to, if any.
	Subscription() (gameID string, color chessd.Color, ok bool)
	SetSubscription(gameID string, color chessd.Color)
	ClearSubscription()

	// Handle identifies which player this endpoint belongs to.
	// Identity resolution itself happens upstream of the session
	// package; the endpoint only carries the result.
	Handle() chessd.Handle
}

// CloseReason distinguishes a deliberate disconnect (tab closed) from
// an involuntary one (network drop), per the disconnect state machine.
type CloseReason int

const (
	ByChoice CloseReason = iota
	NotByChoice
)
