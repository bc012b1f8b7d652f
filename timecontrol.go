package chessd

import "time"

// TimeControl is either Infinite (untimed) or Timed with an initial
// reserve and a per-move increment. It is derived once from the
// invite's time-control string (package clock) and is immutable for the
// lifetime of a game.
type TimeControl struct {
	Timed       bool
	InitialMs   int64
	IncrementMs int64
}

// Infinite is the untimed time control, denoted "-" on the wire.
var Infinite = TimeControl{}

// Timed constructs a timed control from an initial reserve and an
// increment, both in milliseconds (clock.Parse's output units).
func Timed(initialMs, incrementMs int64) TimeControl {
	return TimeControl{Timed: true, InitialMs: initialMs, IncrementMs: incrementMs}
}

func (tc TimeControl) InitialDuration() time.Duration {
	return time.Duration(tc.InitialMs) * time.Millisecond
}

func (tc TimeControl) IncrementDuration() time.Duration {
	return time.Duration(tc.IncrementMs) * time.Millisecond
}
