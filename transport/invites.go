package transport

import (
	"sync"

	"go-chessd"
)

// pendingInvite is an invite that has been posted by its owner and is
// waiting for someone to accept it. The lobby/matchmaking UI that
// lets a second player discover and pick one lives outside this
// package; PendingInvites only tracks the bookkeeping this transport
// needs to turn an accept message into a CreateGameFromInvite call.
type pendingInvite struct {
	options chessd.InviteOptions
	owner   *wsEndpoint
}

// PendingInvites is the in-memory registry of open invites, keyed by
// the id the owner supplies when posting one (echoed back in the
// "inviteposted" acknowledgement).
// Like the session registry itself, it is in-memory only and does not
// survive a restart.
type PendingInvites struct {
	mu    sync.Mutex
	byID  map[string]pendingInvite
}

func newPendingInvites() *PendingInvites {
	return &PendingInvites{byID: make(map[string]pendingInvite)}
}

func (p *PendingInvites) post(id string, opts chessd.InviteOptions, owner *wsEndpoint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byID[id] = pendingInvite{options: opts, owner: owner}
}

func (p *PendingInvites) take(id string) (pendingInvite, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	inv, ok := p.byID[id]
	if ok {
		delete(p.byID, id)
	}
	return inv, ok
}

func (p *PendingInvites) cancel(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.byID, id)
}

type createInviteRequest struct {
	ID              string `json:"id"`
	Variant         string `json:"variant"`
	TimeControl     string `json:"timeControl"`
	ColorPreference string `json:"colorPreference"`
	Rated           bool   `json:"rated"`
	Private         bool   `json:"private"`
	BlackStarts     bool   `json:"blackStarts"`
}

type acceptInviteRequest struct {
	ID string `json:"id"`
}

func colorPreferenceFromWire(s string) chessd.ColorPreference {
	switch s {
	case "white":
		return chessd.PreferWhite
	case "black":
		return chessd.PreferBlack
	default:
		return chessd.PreferRandom
	}
}

func (d *Dispatcher) handleCreateInvite(ep *wsEndpoint, req createInviteRequest) {
	publicity := chessd.Public
	if req.Private {
		publicity = chessd.Private
	}
	opts := chessd.InviteOptions{
		Variant:         req.Variant,
		TimeControlStr:  req.TimeControl,
		ColorPreference: colorPreferenceFromWire(req.ColorPreference),
		Rated:           req.Rated,
		Publicity:       publicity,
		Owner:           ep.Handle(),
		BlackStarts:     req.BlackStarts,
	}
	d.invites.post(req.ID, opts, ep)
	ep.Send("invites", "inviteposted", map[string]string{"id": req.ID}, "")
}

func (d *Dispatcher) handleAcceptInvite(ep *wsEndpoint, req acceptInviteRequest) {
	inv, ok := d.invites.take(req.ID)
	if !ok {
		ep.Send("invites", "invitenotfound", nil, "")
		return
	}
	if d.manager.IsPlayerInActiveGame(ep.Handle()) || d.manager.IsPlayerInActiveGame(inv.owner.Handle()) {
		ep.Send("invites", "invitenotfound", nil, "")
		return
	}
	if _, err := d.manager.CreateGameFromInvite(inv.options, inv.owner, ep); err != nil {
		ep.Send("invites", "invitenotfound", nil, "")
	}
}
