package session

import "go-chessd"

// Abort succeeds only if the game is active and not yet resignable
// (fewer than 2 plies played).
func (m *Manager) Abort(ep Endpoint) {
	m.withSubscribedGame(ep, func(g *Game, color chessd.Color) {
		if !g.Conclusion.IsActive() {
			return
		}
		if g.Resignable() {
			ep.Send("general", "notify", "ws-no_abort_after_moves", "")
			return
		}
		ep.ClearSubscription()
		g.Conclusion = chessd.Aborted
		m.concludeGame(g)
		broadcastGameUpdate(g)
	})
}

// Resign succeeds if the game is active. If it isn't yet resignable,
// the recorded outcome is Aborted rather than a resignation.
func (m *Manager) Resign(ep Endpoint) {
	m.withSubscribedGame(ep, func(g *Game, color chessd.Color) {
		if !g.Conclusion.IsActive() {
			hackLog.WithField("game_id", g.ID).Warn("resign of a concluded game")
			return
		}
		ep.ClearSubscription()
		if g.Resignable() {
			g.Conclusion = chessd.Resignation(color)
		} else {
			g.Conclusion = chessd.Aborted
		}
		m.concludeGame(g)
		broadcastGameUpdate(g)
	})
}

// Unsubscribe detaches the endpoint from its current game without
// otherwise affecting game state (the client acknowledging it no
// longer needs a subscription, e.g. after navigating away from a
// concluded game).
func (m *Manager) Unsubscribe(ep Endpoint) {
	gameID, color, ok := ep.Subscription()
	if !ok {
		return
	}
	ep.ClearSubscription()
	g, ok := m.gameByID(gameID)
	if !ok {
		return
	}
	g.submit(func(g *Game) {
		if g.Endpoints[color] == ep {
			g.Endpoints[color] = nil
		}
	})
}
