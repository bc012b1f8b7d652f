package transport

import (
	"context"
	"encoding/json"

	ws "nhooyr.io/websocket"

	"go-chessd"
	"go-chessd/session"
)

// Dispatcher owns the session.Manager and the open-invite registry,
// and turns decoded WebSocket frames into calls against both. One
// Dispatcher is shared by every connection.
type Dispatcher struct {
	manager *session.Manager
	invites *PendingInvites
}

// NewDispatcher wires a Dispatcher to a session.Manager.
func NewDispatcher(manager *session.Manager) *Dispatcher {
	return &Dispatcher{manager: manager, invites: newPendingInvites()}
}

// Serve reads and interprets frames from conn until the connection is
// closed, then tears down whatever game subscription the endpoint
// held. It is meant to run in its own goroutine per connection.
func (d *Dispatcher) Serve(ctx context.Context, conn *ws.Conn, h chessd.Handle) {
	ep := newEndpoint(conn, h)
	defer ep.markClosed()

	reason := session.NotByChoice
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		env, err := decodeEnvelope(data)
		if err != nil {
			log.WithError(err).Debug("dropping malformed frame")
			continue
		}
		if closing := d.dispatch(ep, h, env); closing {
			reason = session.ByChoice
		}
	}

	d.manager.OnEndpointClosed(ep, reason)
	conn.Close(ws.StatusNormalClosure, "")
}

// dispatch interprets one decoded envelope. It returns true if the
// message was a deliberate sign-off, so Serve can report the right
// CloseReason once the read loop ends.
func (d *Dispatcher) dispatch(ep *wsEndpoint, h chessd.Handle, env envelope) bool {
	switch env.Route {
	case "invites":
		d.dispatchInvites(ep, env)
		return false
	case "game":
		d.dispatchGame(ep, h, env)
		return env.Action == "removefromplayersinactivegames"
	default:
		log.WithField("route", env.Route).Warn("unknown route")
		return false
	}
}

func (d *Dispatcher) dispatchInvites(ep *wsEndpoint, env envelope) {
	switch env.Action {
	case "create":
		var req createInviteRequest
		if err := json.Unmarshal(env.Value, &req); err != nil {
			log.WithError(err).Warn("malformed invite create payload")
			return
		}
		d.handleCreateInvite(ep, req)
	case "acceptinvite":
		var req acceptInviteRequest
		if err := json.Unmarshal(env.Value, &req); err != nil {
			log.WithError(err).Warn("malformed invite accept payload")
			return
		}
		d.handleAcceptInvite(ep, req)
	case "cancel":
		var req acceptInviteRequest
		if err := json.Unmarshal(env.Value, &req); err == nil {
			d.invites.cancel(req.ID)
		}
	default:
		log.WithField("action", env.Action).Warn("unknown invites action")
	}
}

func (d *Dispatcher) dispatchGame(ep *wsEndpoint, h chessd.Handle, env envelope) {
	msg := session.InboundMessage{Route: "game", Action: env.Action, CorrelationID: env.ID}

	switch env.Action {
	case "submitmove":
		var req session.SubmitMoveRequest
		if err := json.Unmarshal(env.Value, &req); err != nil {
			log.WithError(err).Warn("malformed submitmove payload")
			return
		}
		msg.Value = req
	case "report":
		var req session.ReportRequest
		if err := json.Unmarshal(env.Value, &req); err != nil {
			log.WithError(err).Warn("malformed report payload")
			return
		}
		msg.Value = req
	case "resync":
		var gameID string
		_ = json.Unmarshal(env.Value, &gameID)
		msg.Value = gameID
	}

	d.manager.HandleIncomingMessage(ep, h, msg)
}
