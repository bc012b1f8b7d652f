package session

import (
	"go-chessd"
	"go-chessd/icn"
)

// SubmitMoveRequest is the decoded payload of a submitmove action.
type SubmitMoveRequest struct {
	Move           string
	MoveNumber     int
	GameConclusion string
	HasConclusion  bool
}

// SubmitMove applies one move submission. Every precondition failure
// either sends a targeted error reply or silently drops, per the
// error-handling taxonomy; none of them panic or propagate past this
// call.
func (m *Manager) SubmitMove(ep Endpoint, req SubmitMoveRequest) {
	gameID, color, ok := ep.Subscription()
	if !ok {
		return
	}
	g, ok := m.gameByID(gameID)
	if !ok {
		ep.Send("general", "printerror", "game does not exist", "")
		return
	}

	g.submit(func(g *Game) {
		if !g.Conclusion.IsActive() {
			return
		}

		if req.MoveNumber != len(g.Moves)+1 {
			hackLog.WithFields(map[string]interface{}{
				"game_id": g.ID, "color": color.String(), "got": req.MoveNumber, "want": len(g.Moves) + 1,
			}).Warn("move number mismatch")
			m.resyncLocked(g, ep)
			return
		}

		if g.WhoseTurn == nil || *g.WhoseTurn != color {
			ep.Send("general", "printerror", "not your turn", "")
			return
		}

		if _, err := icn.DecodeMove(req.Move); err != nil {
			hackLog.WithField("game_id", g.ID).WithError(err).Warn("invalid move format")
			ep.Send("general", "printerror", "invalid move format", "")
			return
		}

		claimed := chessd.Active
		if req.HasConclusion && req.GameConclusion != "" {
			claimed = chessd.Conclusion(req.GameConclusion)
		}
		if !plausibleClaim(claimed, color) {
			hackLog.WithField("game_id", g.ID).Warn("implausible conclusion claim")
			ep.Send("general", "printerror", "invalid conclusion", "")
			return
		}

		g.Moves = append(g.Moves, req.Move)
		m.pushClock(g, color)
		g.Conclusion = claimed

		autoDeclineOnMove(g, color)

		if !g.Conclusion.IsActive() {
			m.concludeGame(g)
			ep.Send("game", "gameupdate", safeView(g, color), "")
		} else {
			ep.Send("game", "clock", safeView(g, color).Clock, "")
		}

		if opp, ok := g.Endpoints[color.Opposite()]; ok && opp != nil && opp.IsOpen() {
			opp.Send("game", "move", moveView(g, req.Move), "")
		}
	})
}

// plausibleClaim reports whether a player claiming conclusion c for
// themself is allowed to: Active is always fine; otherwise it must be
// a decisive conclusion whose winner is not the opponent, or a draw,
// or an abort.
func plausibleClaim(c chessd.Conclusion, claimant chessd.Color) bool {
	if c.IsActive() {
		return true
	}
	if c == chessd.Aborted || c.IsDraw() {
		return true
	}
	if !c.IsDecisive() {
		return false
	}
	winner, ok := c.Winner()
	if !ok {
		return false
	}
	return winner != claimant.Opposite()
}

type moveOutbound struct {
	Move  string
	Clock map[chessd.Color]int64
}

func moveView(g *Game, move string) moveOutbound {
	return moveOutbound{Move: move, Clock: map[chessd.Color]int64{
		chessd.White: g.Clock[chessd.White],
		chessd.Black: g.Clock[chessd.Black],
	}}
}
