package session

import (
	"time"

	"go-chessd"
)

// BroadcastShutdownWindow walks every active game and notifies both
// seats of an upcoming restart. Every subsequent join/resync/
// game-update projection carries the same timestamp, so late joiners
// learn of it too.
func (m *Manager) BroadcastShutdownWindow(restartAt time.Time) {
	m.mu.RLock()
	games := make([]*Game, 0, len(m.games))
	for _, g := range m.games {
		games = append(games, g)
	}
	m.mu.RUnlock()

	for _, g := range games {
		g.submit(func(g *Game) {
			t := restartAt
			g.RestartAt = &t
			for color, ep := range g.Endpoints {
				if ep == nil || !ep.IsOpen() {
					continue
				}
				ep.Send("game", "serverrestart", map[string]int64{"restartAt": restartAt.UnixMilli()}, "")
				_ = color
			}
		})
	}
}

// DrainAndLogAllGames concludes every still-active game as Aborted,
// cancels its deletion grace, and archives it synchronously. It
// blocks until every game has been processed, so callers can rely on
// it completing before the process exits.
func (m *Manager) DrainAndLogAllGames() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.games))
	for id := range m.games {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		g, ok := m.gameByID(id)
		if !ok {
			continue
		}
		g.submit(func(g *Game) {
			if g.Conclusion.IsActive() {
				g.Conclusion = chessd.Aborted
				m.concludeGame(g)
				broadcastGameUpdate(g)
			}
			if g.DeletionTimer != nil {
				g.DeletionTimer.Cancel()
				g.DeletionTimer = nil
			}
			m.archiveGame(g)
		})
		m.unindexSeats(g)
		m.removeGame(id)
	}
}
