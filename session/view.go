package session

import (
	"strconv"

	"go-chessd"
)

// GuestDisplayName is shown in place of a guest's own display name,
// which they don't have one of.
const GuestDisplayName = "Guest"

// PlayerView is what a client is told about one seat: never the
// opposing guest's browser token.
type PlayerView struct {
	DisplayName string
	IsGuest     bool
}

// GameView is the safe projection of a Game sent to one of its two
// seats. It never carries the caller's opponent's guest token, and it
// carries only the opponent's disconnect record (a player always
// knows their own disconnect state by definition — they're the one
// connected).
type GameView struct {
	ID          string
	CreatedAt   int64
	Publicity   chessd.Publicity
	Variant     string
	TimeControl string
	Rated       bool

	Players map[chessd.Color]PlayerView

	Moves []string

	YourColor  chessd.Color
	WhoseTurn  *chessd.Color
	Clock      map[chessd.Color]int64
	NextLossAt *int64

	Conclusion string

	AFKLossAt           *int64
	OpponentDisconnect  *OpponentDisconnectView

	RestartAt *int64
}

// OpponentDisconnectView is the subset of a DisconnectRecord safe to
// reveal to the other seat.
type OpponentDisconnectView struct {
	WasByChoice bool
	AutoLossAt  int64
}

func playerView(h chessd.Handle) PlayerView {
	if h.IsGuest() {
		return PlayerView{DisplayName: GuestDisplayName, IsGuest: true}
	}
	return PlayerView{DisplayName: h.DisplayName()}
}

// safeView builds the projection sent to the seat "for".
func safeView(g *Game, forColor chessd.Color) GameView {
	opp := forColor.Opposite()

	v := GameView{
		ID:          g.ID,
		CreatedAt:   g.CreatedAt.UnixMilli(),
		Publicity:   g.Publicity,
		Variant:     g.Variant,
		TimeControl: timeControlString(g.TimeControl),
		Rated:       g.Rated,
		Players: map[chessd.Color]PlayerView{
			chessd.White: playerView(g.Seats[chessd.White]),
			chessd.Black: playerView(g.Seats[chessd.Black]),
		},
		Moves:      append([]string(nil), g.Moves...),
		YourColor:  forColor,
		WhoseTurn:  g.WhoseTurn,
		Conclusion: string(g.Conclusion),
	}

	if g.TimeControl.Timed {
		v.Clock = map[chessd.Color]int64{
			chessd.White: g.Clock[chessd.White],
			chessd.Black: g.Clock[chessd.Black],
		}
		if g.WhoseTurn != nil {
			ms := g.NextLossAt.UnixMilli()
			v.NextLossAt = &ms
		}
	}

	if g.WhoseTurn != nil && *g.WhoseTurn == forColor && !g.AFKLossAt.IsZero() {
		ms := g.AFKLossAt.UnixMilli()
		v.AFKLossAt = &ms
	}

	if rec := g.Disconnect[opp]; rec != nil && rec.Armed {
		v.OpponentDisconnect = &OpponentDisconnectView{
			WasByChoice: rec.WasByChoice,
			AutoLossAt:  rec.AutoLossAt.UnixMilli(),
		}
	}

	if g.RestartAt != nil {
		ms := g.RestartAt.UnixMilli()
		v.RestartAt = &ms
	}

	return v
}

func timeControlString(tc chessd.TimeControl) string {
	if !tc.Timed {
		return "-"
	}
	return msToClockString(tc.InitialMs, tc.IncrementMs)
}

func msToClockString(initialMs, incrementMs int64) string {
	return formatSeconds(initialMs) + "+" + formatSeconds(incrementMs)
}

func formatSeconds(ms int64) string {
	return strconv.FormatInt(ms/1000, 10)
}
