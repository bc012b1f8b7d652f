package session

import (
	"time"

	"go-chessd"
)

// concludeGame runs the bookkeeping common to every path that ends a
// game: freeze the clock, clear turn state, cancel play timers, force
// both draw-offer slots to Declined, and arm the deletion grace timer.
// Callers must have already set g.Conclusion to its final value.
func (m *Manager) concludeGame(g *Game) {
	if g.TimeControl.Timed && g.WhoseTurn != nil {
		spent := now().Sub(g.TurnStartedAt)
		remaining := g.RemainingAtTurnStart - spent.Milliseconds()
		if remaining < 0 {
			remaining = 0
		}
		g.Clock[*g.WhoseTurn] = remaining
	}

	g.WhoseTurn = nil
	g.TurnStartedAt = time.Time{}
	g.NextLossAt = time.Time{}
	g.RemainingAtTurnStart = 0

	cancelPlayTimers(g)

	g.DrawOffer[chessd.White] = chessd.DrawDeclined
	g.DrawOffer[chessd.Black] = chessd.DrawDeclined

	armDeletionTimer(m, g)
}

func cancelPlayTimers(g *Game) {
	if g.AutoTimeLossTimer != nil {
		g.AutoTimeLossTimer.Cancel()
		g.AutoTimeLossTimer = nil
	}
	if g.AFKAutoResignTimer != nil {
		g.AFKAutoResignTimer.Cancel()
		g.AFKAutoResignTimer = nil
	}
	g.AFKLossAt = time.Time{}
	for _, rec := range g.Disconnect {
		if rec.StartDelayTimer != nil {
			rec.StartDelayTimer.Cancel()
			rec.StartDelayTimer = nil
		}
		if rec.AutoResignTimer != nil {
			rec.AutoResignTimer.Cancel()
			rec.AutoResignTimer = nil
		}
		rec.Armed = false
	}
}

func armDeletionTimer(m *Manager, g *Game) {
	if g.DeletionTimer != nil {
		g.DeletionTimer.Cancel()
	}
	id := g.ID
	g.DeletionTimer = m.timers.After(m.conf.DeletionGrace, func() {
		m.archiveAndRemove(id)
	})
}

// archiveAndRemove is called by the deletion timer. It looks the game
// up fresh (it may already be gone, e.g. removed by a drain) and
// performs the archive+remove sequence exactly once.
func (m *Manager) archiveAndRemove(id string) {
	g, ok := m.gameByID(id)
	if !ok {
		return
	}
	g.submit(func(g *Game) {
		m.archiveGame(g)
	})
	m.unindexSeats(g)
	m.removeGame(id)
}

func (m *Manager) unindexSeats(g *Game) {
	for _, h := range g.Seats {
		m.unindexPlayer(h)
	}
}

func (m *Manager) archiveGame(g *Game) {
	if len(g.Moves) == 0 {
		return
	}
	finalClock := map[chessd.Color]int64{
		chessd.White: g.Clock[chessd.White],
		chessd.Black: g.Clock[chessd.Black],
	}
	rec := ArchiveRecord{
		ID:          g.ID,
		CreatedAt:   g.CreatedAt,
		Publicity:   g.Publicity,
		Variant:     g.Variant,
		TimeControl: g.TimeControl,
		Rated:       g.Rated,
		Seats:       g.Seats,
		Moves:       append([]string(nil), g.Moves...),
		Conclusion:  g.Conclusion,
		FinalClock:  finalClock,
	}
	m.archive.Archive(rec)
	m.stats.Record(g.Variant, len(g.Moves), g.CreatedAt)
}

func broadcastGameUpdate(g *Game) {
	for color, ep := range g.Endpoints {
		if ep == nil || !ep.IsOpen() {
			continue
		}
		ep.Send("game", "gameupdate", safeView(g, color), "")
	}
}
