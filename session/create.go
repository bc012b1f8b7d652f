package session

import (
	"math/rand"

	"go-chessd"
	"go-chessd/clock"
)

// CreateGameFromInvite creates a new game from an accepted invite,
// seats both players, attaches whatever endpoints are currently live,
// and sends each a join-game snapshot. ownerEndpoint may be nil if the
// owner's channel closed between invite acceptance and this call; in
// that case the owner immediately enters the not-by-choice disconnect
// flow.
func (m *Manager) CreateGameFromInvite(invite chessd.InviteOptions, ownerEndpoint Endpoint, accepterEndpoint Endpoint) (*Game, error) {
	tc, err := clock.Parse(invite.TimeControlStr)
	if err != nil {
		return nil, err
	}

	id := m.freshID()
	g := newGame(id, invite, tc)

	owner := invite.Owner
	accepter := accepterEndpoint.Handle()

	ownerColor, accepterColor := assignSeats(invite.ColorPreference)

	g.Seats[ownerColor] = owner
	g.Seats[accepterColor] = accepter

	startColor := chessd.White
	if invite.BlackStarts {
		startColor = chessd.Black
	}
	g.WhoseTurn = &startColor
	if tc.Timed {
		g.TurnStartedAt = now()
		g.RemainingAtTurnStart = g.Clock[startColor]
	}

	m.insertGame(g)
	m.indexPlayer(owner, id)
	m.indexPlayer(accepter, id)

	g.submit(func(g *Game) {
		attachEndpoint(g, accepterColor, accepterEndpoint)
		sendJoinSnapshot(g, accepterColor, accepterEndpoint)

		if ownerEndpoint != nil && ownerEndpoint.IsOpen() {
			attachEndpoint(g, ownerColor, ownerEndpoint)
			sendJoinSnapshot(g, ownerColor, ownerEndpoint)
		} else {
			startDisconnect(m, g, ownerColor, NotByChoice)
		}
	})

	return g, nil
}

// freshID generates a 5-character id, retrying on collision against
// the active registry.
func (m *Manager) freshID() string {
	for {
		id := generateID()
		m.mu.RLock()
		_, taken := m.games[id]
		m.mu.RUnlock()
		if !taken {
			return id
		}
	}
}

// assignSeats resolves an invite's color preference to concrete
// seats for (owner, accepter). Random is a fair coin.
func assignSeats(pref chessd.ColorPreference) (owner, accepter chessd.Color) {
	switch pref {
	case chessd.PreferWhite:
		return chessd.White, chessd.Black
	case chessd.PreferBlack:
		return chessd.Black, chessd.White
	default:
		if rand.Intn(2) == 0 {
			return chessd.White, chessd.Black
		}
		return chessd.Black, chessd.White
	}
}

// attachEndpoint seats an endpoint into a game, detaching and
// notifying any prior occupant of that seat (a duplicate tab).
func attachEndpoint(g *Game, color chessd.Color, ep Endpoint) {
	if prior, ok := g.Endpoints[color]; ok && prior != nil && prior != ep {
		prior.Send("game", "leavegame", nil, "")
		prior.ClearSubscription()
	}
	g.Endpoints[color] = ep
	ep.SetSubscription(g.ID, color)
}

func sendJoinSnapshot(g *Game, color chessd.Color, ep Endpoint) {
	ep.Send("game", "joingame", safeView(g, color), "")
}
