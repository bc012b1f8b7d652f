package session

import "go-chessd"

// OfferDraw runs the offer transition: requires an active, resignable
// game, no currently-offered draw, and at least conf.DrawOfferCadence
// plies since this color's own last offer.
func (m *Manager) OfferDraw(ep Endpoint) {
	m.withSubscribedGame(ep, func(g *Game, color chessd.Color) {
		if !g.Conclusion.IsActive() || !g.Resignable() {
			return
		}
		if g.DrawOffer[color] == chessd.DrawOffered || g.DrawOffer[color.Opposite()] == chessd.DrawOffered {
			return
		}
		if len(g.Moves)-g.DrawOfferLastMove[color] < m.conf.DrawOfferCadence {
			return
		}

		g.DrawOffer[color] = chessd.DrawOffered
		g.DrawOffer[color.Opposite()] = chessd.DrawUnconfirmed
		g.DrawOfferLastMove[color] = len(g.Moves)

		if opp, ok := g.Endpoints[color.Opposite()]; ok && opp != nil && opp.IsOpen() {
			opp.Send("game", "drawoffer", nil, "")
		}
	})
}

// AcceptDraw requires the opponent to currently be in Offered.
func (m *Manager) AcceptDraw(ep Endpoint) {
	m.withSubscribedGame(ep, func(g *Game, color chessd.Color) {
		if !g.Conclusion.IsActive() {
			return
		}
		opp := color.Opposite()
		if g.DrawOffer[opp] != chessd.DrawOffered {
			return
		}
		g.DrawOffer[color] = chessd.DrawConfirmed
		g.Conclusion = chessd.DrawAgreement
		m.concludeGame(g)
		broadcastGameUpdate(g)
	})
}

// DeclineDraw requires the opponent to currently be in Offered.
func (m *Manager) DeclineDraw(ep Endpoint) {
	m.withSubscribedGame(ep, func(g *Game, color chessd.Color) {
		opp := color.Opposite()
		if g.DrawOffer[opp] != chessd.DrawOffered {
			return
		}
		g.DrawOffer[color] = chessd.DrawDeclined
		g.DrawOffer[opp] = chessd.DrawNone

		if oppEp, ok := g.Endpoints[opp]; ok && oppEp != nil && oppEp.IsOpen() {
			oppEp.Send("game", "declinedraw", nil, "")
		}
	})
}

// autoDeclineOnMove is run after every accepted move: if the mover's
// opponent had an outstanding offer, it is auto-declined. Silent if
// there is nothing to decline.
func autoDeclineOnMove(g *Game, mover chessd.Color) {
	opp := mover.Opposite()
	if g.DrawOffer[opp] != chessd.DrawOffered {
		return
	}
	g.DrawOffer[opp] = chessd.DrawDeclined
	g.DrawOffer[mover] = chessd.DrawNone

	if oppEp, ok := g.Endpoints[opp]; ok && oppEp != nil && oppEp.IsOpen() {
		oppEp.Send("game", "declinedraw", nil, "")
	}
}

// withSubscribedGame is the common "find my game, run this inside its
// worker" shape shared by the simple single-precondition handlers.
func (m *Manager) withSubscribedGame(ep Endpoint, fn func(g *Game, color chessd.Color)) {
	gameID, color, ok := ep.Subscription()
	if !ok {
		protoLog.Warn("action from unsubscribed endpoint")
		return
	}
	g, ok := m.gameByID(gameID)
	if !ok {
		return
	}
	g.submit(func(g *Game) { fn(g, color) })
}
