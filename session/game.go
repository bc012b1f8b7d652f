package session

import (
	"time"

	"github.com/sirupsen/logrus"

	"go-chessd"
	"go-chessd/timer"
)

// DisconnectRecord tracks the two competing timers that can fire for a
// seat whose endpoint has gone away.
type DisconnectRecord struct {
	StartDelayTimer *timer.Handle
	AutoResignTimer *timer.Handle
	AutoLossAt      time.Time
	WasByChoice     bool
	Armed           bool
}

// Game is one active match. Every field is only ever touched from the
// game's own worker goroutine (see worker.go); nothing outside that
// goroutine may read or write a Game directly.
type Game struct {
	ID        string
	CreatedAt time.Time
	Publicity chessd.Publicity
	Variant   string
	TimeControl chessd.TimeControl
	Rated     bool

	Seats     map[chessd.Color]chessd.Handle
	Endpoints map[chessd.Color]Endpoint

	Moves []string

	WhoseTurn             *chessd.Color
	TurnStartedAt         time.Time
	RemainingAtTurnStart  int64
	NextLossAt            time.Time
	Clock                 map[chessd.Color]int64
	AutoTimeLossTimer     *timer.Handle

	AFKAutoResignTimer *timer.Handle
	AFKLossAt          time.Time

	Disconnect map[chessd.Color]*DisconnectRecord

	DrawOffer         map[chessd.Color]chessd.DrawOfferState
	DrawOfferLastMove map[chessd.Color]int

	Conclusion chessd.Conclusion

	DeletionTimer *timer.Handle

	PositionPasted bool

	// RestartAt is set by broadcastShutdownWindow and echoed in every
	// subsequent snapshot sent to a client of this game.
	RestartAt *time.Time

	logger *logrus.Entry

	commands chan command
	done     chan struct{}
}

func newGame(id string, opts chessd.InviteOptions, tc chessd.TimeControl) *Game {
	g := &Game{
		ID:                id,
		CreatedAt:         now(),
		Publicity:         opts.Publicity,
		Variant:           opts.Variant,
		TimeControl:       tc,
		Rated:             opts.Rated,
		Seats:             make(map[chessd.Color]chessd.Handle, 2),
		Endpoints:         make(map[chessd.Color]Endpoint, 2),
		Moves:             nil,
		Clock:             make(map[chessd.Color]int64, 2),
		Disconnect:        map[chessd.Color]*DisconnectRecord{chessd.White: {}, chessd.Black: {}},
		DrawOffer:         map[chessd.Color]chessd.DrawOfferState{chessd.White: chessd.DrawNone, chessd.Black: chessd.DrawNone},
		DrawOfferLastMove: map[chessd.Color]int{chessd.White: -1 << 30, chessd.Black: -1 << 30},
		Conclusion:        chessd.Active,
		commands:          make(chan command, 32),
		done:              make(chan struct{}),
	}
	g.logger = protoLog.WithField("game_id", id)
	if tc.Timed {
		g.Clock[chessd.White] = tc.InitialMs
		g.Clock[chessd.Black] = tc.InitialMs
	}
	return g
}

// Resignable reports whether the game has had enough plies played
// that ending it counts as a resignation rather than an abort.
func (g *Game) Resignable() bool {
	return len(g.Moves) >= 2
}

// now is the single indirection point for wall-clock reads in the
// session package, so tests can swap it out via nowFunc.
var nowFunc = time.Now

func now() time.Time { return nowFunc() }
