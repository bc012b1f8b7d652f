package session

import (
	"time"

	"go-chessd"
)

// pushClock implements the push-clock protocol run after every
// successful move. mover is the color that just moved. Moves 1 and 2
// never advance the clock; increment is first credited starting on
// move 3, matching the "first two plies are free" rule.
func (m *Manager) pushClock(g *Game, mover chessd.Color) {
	next := mover.Opposite()
	g.WhoseTurn = &next

	if !g.TimeControl.Timed {
		return
	}

	n := now()
	if len(g.Moves) >= 3 {
		spent := n.Sub(g.TurnStartedAt)
		g.Clock[mover] = g.RemainingAtTurnStart - spent.Milliseconds()
		g.Clock[mover] += g.TimeControl.IncrementMs
	}

	g.TurnStartedAt = n
	g.RemainingAtTurnStart = g.Clock[next]
	g.NextLossAt = g.TurnStartedAt.Add(time.Duration(g.RemainingAtTurnStart) * time.Millisecond)

	m.rearmAutoTimeLoss(g)
}

// rearmAutoTimeLoss cancels any previous time-loss timer and arms a
// fresh one for g.NextLossAt against whoever is now on the clock.
func (m *Manager) rearmAutoTimeLoss(g *Game) {
	if g.AutoTimeLossTimer != nil {
		g.AutoTimeLossTimer.Cancel()
	}
	if !g.TimeControl.Timed || g.WhoseTurn == nil {
		return
	}
	lossAt := g.NextLossAt
	losingColor := *g.WhoseTurn
	delay := lossAt.Sub(now())
	if delay < 0 {
		delay = 0
	}
	g.AutoTimeLossTimer = m.timers.After(delay, func() {
		g.submitAsync(func(g *Game) { m.onTimeLoss(g, losingColor, lossAt) })
	})
}

// onTimeLoss fires from the timer and rechecks live state: the game
// may have concluded, or a later move may have rearmed the timer to a
// new deadline, and a late fire must lose that race rather than act
// on stale data.
func (m *Manager) onTimeLoss(g *Game, losingColor chessd.Color, expectedLossAt time.Time) {
	if !g.Conclusion.IsActive() {
		return
	}
	if g.WhoseTurn == nil || *g.WhoseTurn != losingColor {
		return
	}
	if !g.NextLossAt.Equal(expectedLossAt) {
		return
	}

	g.Clock[losingColor] = 0
	g.Conclusion = chessd.TimeLoss(losingColor)
	m.concludeGame(g)
	broadcastGameUpdate(g)
}
