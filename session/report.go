package session

import "go-chessd"

// ReportRequest is the decoded payload of a report action.
type ReportRequest struct {
	Reason              string
	OpponentsMoveNumber int
}

// Report accepts a cheat report against a move played by the
// reporter's opponent. Rejected (and logged to the hack log) if the
// reporter isn't in a game, the game is private, or the reported move
// was the reporter's own. On success, the last move of the list is
// popped (the only place a move is ever removed), the game is aborted,
// and both seats are notified.
func (m *Manager) Report(ep Endpoint, req ReportRequest) {
	gameID, color, ok := ep.Subscription()
	if !ok {
		hackLog.Warn("report from unsubscribed endpoint")
		return
	}
	g, ok := m.gameByID(gameID)
	if !ok {
		return
	}
	g.submit(func(g *Game) {
		if g.Publicity == chessd.Private {
			hackLog.WithField("game_id", g.ID).Warn("report rejected: private game")
			return
		}
		reportedMoveIndex := req.OpponentsMoveNumber - 1
		if reportedMoveIndex < 0 || reportedMoveIndex >= len(g.Moves) {
			hackLog.WithField("game_id", g.ID).Warn("report rejected: move out of range")
			return
		}
		reporterMoved := reportedMoveIndex%2 == 0 && color == chessd.White ||
			reportedMoveIndex%2 == 1 && color == chessd.Black
		if reporterMoved {
			hackLog.WithField("game_id", g.ID).Warn("report rejected: self-report")
			return
		}
		if !g.Conclusion.IsActive() {
			return
		}

		g.Moves = g.Moves[:len(g.Moves)-1]
		g.Conclusion = chessd.Aborted
		m.concludeGame(g)

		for _, ep := range g.Endpoints {
			if ep != nil && ep.IsOpen() {
				ep.Send("general", "notify", "ws-game_aborted_cheating", "")
			}
		}
		broadcastGameUpdate(g)
	})
}
