package session

import "go-chessd"

// InboundMessage is the already-decoded wire envelope the transport
// hands to the manager: {route, action, value, id?}. Only
// route == "game" is handled here; route == "invites" with
// action == "acceptinvite" is expected to call CreateGameFromInvite
// directly rather than go through this dispatcher.
type InboundMessage struct {
	Route         string
	Action        string
	Value         interface{}
	CorrelationID string
}

// HandleIncomingMessage routes a decoded client message to the
// matching game operation. Unknown actions are logged and ignored, as
// are messages on routes this package doesn't own.
func (m *Manager) HandleIncomingMessage(ep Endpoint, h chessd.Handle, msg InboundMessage) {
	if msg.Route != "game" {
		return
	}

	switch msg.Action {
	case "submitmove":
		req, ok := msg.Value.(SubmitMoveRequest)
		if !ok {
			protoLog.WithField("action", msg.Action).Warn("malformed payload")
			return
		}
		m.SubmitMove(ep, req)
	case "joingame":
		m.Rejoin(ep, h)
	case "removefromplayersinactivegames":
		m.Unsubscribe(ep)
	case "resync":
		gameID, _ := msg.Value.(string)
		m.Resync(ep, h, gameID, msg.CorrelationID)
	case "abort":
		m.Abort(ep)
	case "resign":
		m.Resign(ep)
	case "offerdraw":
		m.OfferDraw(ep)
	case "acceptdraw":
		m.AcceptDraw(ep)
	case "declinedraw":
		m.DeclineDraw(ep)
	case "AFK":
		m.DeclareAFK(ep)
	case "AFK-Return":
		m.ReturnFromAFK(ep)
	case "report":
		req, ok := msg.Value.(ReportRequest)
		if !ok {
			protoLog.WithField("action", msg.Action).Warn("malformed payload")
			return
		}
		m.Report(ep, req)
	default:
		protoLog.WithField("action", msg.Action).Warn("unknown action")
	}
}
