package session

// command is one unit of work for a game's worker goroutine: an
// inbound message, an endpoint-closed notification, or a timer
// firing. Funnelling all three through the same channel is what makes
// the per-game total order fall out of single-goroutine execution
// rather than locking.
type command struct {
	fn   func(g *Game)
	done chan struct{}
}

// run drains g.commands until it is closed, which happens exactly
// once, when the manager removes the game from its registry.
func (g *Game) run() {
	for cmd := range g.commands {
		cmd.fn(g)
		if cmd.done != nil {
			close(cmd.done)
		}
	}
}

// submit enqueues fn and blocks until it has run. Used by every
// synchronous manager entry point so callers observe the game's state
// immediately after the call returns.
func (g *Game) submit(fn func(g *Game)) {
	done := make(chan struct{})
	g.commands <- command{fn: fn, done: done}
	<-done
}

// submitAsync enqueues fn without waiting for it to run. Used by
// timer callbacks, which must not block the timer goroutine on game
// processing.
func (g *Game) submitAsync(fn func(g *Game)) {
	g.commands <- command{fn: fn}
}
