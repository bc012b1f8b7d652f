package session

import "go-chessd"

// Resync is sent by a client on its own initiative after a hiccup, or
// triggered internally to let a client recover from a move-number
// mismatch. The game is located by the endpoint's current
// subscription first, then by gameID if it is non-empty, then by the
// caller's handle.
func (m *Manager) Resync(ep Endpoint, h chessd.Handle, gameID string, correlationID string) {
	g := m.locateGame(ep, h, gameID)
	if g == nil {
		ep.Send("game", "nogame", nil, correlationID)
		return
	}
	g.submit(func(g *Game) {
		color, ok := seatOf(g, h)
		if !ok {
			ep.Send("game", "nogame", nil, correlationID)
			return
		}
		if _, _, subscribed := ep.Subscription(); !subscribed {
			ep.SetSubscription(g.ID, color)
		}
		ep.Send("game", "gameupdate", safeView(g, color), correlationID)
	})
}

// resyncLocked is the internal variant called from inside a game's
// own worker (e.g. after a move-number mismatch), so it must not
// re-enter g.submit.
func (m *Manager) resyncLocked(g *Game, ep Endpoint) {
	_, color, ok := ep.Subscription()
	if !ok {
		return
	}
	ep.Send("game", "gameupdate", safeView(g, color), "")
}

func (m *Manager) locateGame(ep Endpoint, h chessd.Handle, gameID string) *Game {
	if id, color, ok := ep.Subscription(); ok {
		_ = color
		if g, found := m.gameByID(id); found {
			return g
		}
	}
	if gameID != "" {
		if g, found := m.gameByID(gameID); found {
			return g
		}
	}
	if g, found := m.gameForHandle(h); found {
		return g
	}
	return nil
}
