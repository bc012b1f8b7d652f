package session

import (
	"time"

	"go-chessd"
)

// DeclareAFK handles the active player telling us "I am AFK". Active
// seat only, and only if no disconnect timer is already armed for it
// (invariant 4: at most one of afkAutoResignTimer/disconnect
// auto-resign is armed for the active seat at a time).
func (m *Manager) DeclareAFK(ep Endpoint) {
	gameID, color, ok := ep.Subscription()
	if !ok {
		protoLog.Warn("AFK from unsubscribed endpoint")
		return
	}
	g, ok := m.gameByID(gameID)
	if !ok {
		return
	}
	g.submit(func(g *Game) {
		if !g.Conclusion.IsActive() || g.WhoseTurn == nil || *g.WhoseTurn != color {
			return
		}
		if g.Disconnect[color].Armed {
			return
		}
		if g.AFKAutoResignTimer != nil {
			return
		}

		lossAt := now().Add(m.conf.AFKResignAfter)
		g.AFKLossAt = lossAt
		g.AFKAutoResignTimer = m.timers.After(m.conf.AFKResignAfter, func() {
			g.submitAsync(func(g *Game) { m.onAFKResign(g, color, lossAt) })
		})

		if opp, ok := g.Endpoints[color.Opposite()]; ok && opp != nil && opp.IsOpen() {
			opp.Send("game", "opponentafk", map[string]int64{"autoAFKResignTime": lossAt.UnixMilli()}, "")
		}
	})
}

// ReturnFromAFK cancels an armed AFK timer and notifies the opponent.
func (m *Manager) ReturnFromAFK(ep Endpoint) {
	gameID, color, ok := ep.Subscription()
	if !ok {
		return
	}
	g, ok := m.gameByID(gameID)
	if !ok {
		return
	}
	g.submit(func(g *Game) {
		if g.AFKAutoResignTimer == nil {
			return
		}
		g.AFKAutoResignTimer.Cancel()
		g.AFKAutoResignTimer = nil
		g.AFKLossAt = time.Time{}

		if opp, ok := g.Endpoints[color.Opposite()]; ok && opp != nil && opp.IsOpen() {
			opp.Send("game", "opponentafkreturn", nil, "")
		}
	})
}

func (m *Manager) onAFKResign(g *Game, loser chessd.Color, expectedLossAt time.Time) {
	if !g.Conclusion.IsActive() {
		return
	}
	if g.AFKLossAt.IsZero() || !g.AFKLossAt.Equal(expectedLossAt) {
		return
	}
	g.AFKAutoResignTimer = nil
	g.AFKLossAt = time.Time{}
	g.Conclusion = chessd.Resignation(loser)
	m.concludeGame(g)
	broadcastGameUpdate(g)
}

// OnEndpointClosed begins or schedules the disconnect flow for
// whichever seat the endpoint occupies. A no-op if the endpoint isn't
// currently seated.
func (m *Manager) OnEndpointClosed(ep Endpoint, reason CloseReason) {
	gameID, color, ok := ep.Subscription()
	if !ok {
		return
	}
	g, ok := m.gameByID(gameID)
	if !ok {
		return
	}
	g.submit(func(g *Game) {
		if g.Endpoints[color] == ep {
			g.Endpoints[color] = nil
		}
		if !g.Conclusion.IsActive() {
			return
		}
		startDisconnect(m, g, color, reason)
	})
}

// startDisconnect arms the appropriate timer(s) for a seat that has
// just gone away. By-choice disconnects arm the auto-resign timer
// immediately; not-by-choice disconnects first arm a short grace
// timer and only escalate to auto-resign if the player hasn't
// rejoined by the time it fires.
func startDisconnect(m *Manager, g *Game, color chessd.Color, reason CloseReason) {
	rec := g.Disconnect[color]
	if rec.StartDelayTimer != nil {
		rec.StartDelayTimer.Cancel()
		rec.StartDelayTimer = nil
	}
	if rec.AutoResignTimer != nil {
		rec.AutoResignTimer.Cancel()
		rec.AutoResignTimer = nil
	}
	rec.WasByChoice = reason == ByChoice

	if reason == ByChoice {
		armAutoResign(m, g, color, reason)
		return
	}

	rec.StartDelayTimer = m.timers.After(m.conf.DisconnectGrace, func() {
		g.submitAsync(func(g *Game) {
			if !g.Conclusion.IsActive() {
				return
			}
			if g.Endpoints[color] != nil && g.Endpoints[color].IsOpen() {
				return
			}
			armAutoResign(m, g, color, reason)
		})
	})
}

// armAutoResign arms the seat's auto-resign timer, transplanting an
// earlier AFK loss time if one was armed and would have fired sooner.
func armAutoResign(m *Manager, g *Game, color chessd.Color, reason CloseReason) {
	rec := g.Disconnect[color]

	delay := m.conf.DisconnectResignAbortable
	if reason == NotByChoice && g.Resignable() {
		delay = m.conf.DisconnectResignResignable
	}
	lossAt := now().Add(delay)

	if g.WhoseTurn != nil && *g.WhoseTurn == color && g.AFKAutoResignTimer != nil && !g.AFKLossAt.IsZero() && g.AFKLossAt.Before(lossAt) {
		lossAt = g.AFKLossAt
		g.AFKAutoResignTimer.Cancel()
		g.AFKAutoResignTimer = nil
		g.AFKLossAt = time.Time{}
	}

	rec.Armed = true
	rec.AutoLossAt = lossAt
	delayUntilFire := lossAt.Sub(now())
	if delayUntilFire < 0 {
		delayUntilFire = 0
	}
	rec.AutoResignTimer = m.timers.After(delayUntilFire, func() {
		g.submitAsync(func(g *Game) { m.onDisconnectResign(g, color, lossAt) })
	})

	if opp, ok := g.Endpoints[color.Opposite()]; ok && opp != nil && opp.IsOpen() {
		opp.Send("game", "opponentdisconnect", map[string]interface{}{
			"autoDisconnectResignTime": lossAt.UnixMilli(),
			"wasByChoice":              rec.WasByChoice,
		}, "")
	}
}

func (m *Manager) onDisconnectResign(g *Game, loser chessd.Color, expectedLossAt time.Time) {
	rec := g.Disconnect[loser]
	if !g.Conclusion.IsActive() || !rec.Armed || !rec.AutoLossAt.Equal(expectedLossAt) {
		return
	}
	rec.AutoResignTimer = nil
	rec.Armed = false
	if g.Resignable() {
		g.Conclusion = chessd.Disconnect(loser)
	} else {
		g.Conclusion = chessd.Aborted
	}
	m.concludeGame(g)
	broadcastGameUpdate(g)
}

// Rejoin re-subscribes an endpoint to the game it was previously
// seated in, sends the full join snapshot, and cancels any AFK or
// disconnect timer the returning seat no longer needs.
func (m *Manager) Rejoin(ep Endpoint, h chessd.Handle) {
	g, ok := m.gameForHandle(h)
	if !ok {
		ep.Send("game", "nogame", nil, "")
		return
	}
	g.submit(func(g *Game) {
		color, ok := seatOf(g, h)
		if !ok {
			ep.Send("game", "nogame", nil, "")
			return
		}

		attachEndpoint(g, color, ep)
		sendJoinSnapshot(g, color, ep)

		if g.WhoseTurn != nil && *g.WhoseTurn == color && g.AFKAutoResignTimer != nil {
			g.AFKAutoResignTimer.Cancel()
			g.AFKAutoResignTimer = nil
			g.AFKLossAt = time.Time{}
			if opp, ok := g.Endpoints[color.Opposite()]; ok && opp != nil && opp.IsOpen() {
				opp.Send("game", "opponentafkreturn", nil, "")
			}
		}

		rec := g.Disconnect[color]
		if rec.StartDelayTimer != nil {
			rec.StartDelayTimer.Cancel()
			rec.StartDelayTimer = nil
		}
		if rec.Armed {
			rec.AutoResignTimer.Cancel()
			rec.AutoResignTimer = nil
			rec.Armed = false
			if opp, ok := g.Endpoints[color.Opposite()]; ok && opp != nil && opp.IsOpen() {
				opp.Send("game", "opponentdisconnectreturn", nil, "")
			}
		}
	})
}

func seatOf(g *Game, h chessd.Handle) (chessd.Color, bool) {
	for color, seated := range g.Seats {
		if seated.Equal(h) {
			return color, true
		}
	}
	return 0, false
}
