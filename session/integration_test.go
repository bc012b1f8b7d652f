package session_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-chessd"
	"go-chessd/session"
)

type recordingArchive struct {
	mu  sync.Mutex
	got []session.ArchiveRecord
}

func newRecordingArchive() *recordingArchive {
	return &recordingArchive{}
}

func (a *recordingArchive) Archive(rec session.ArchiveRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.got = append(a.got, rec)
}

func (a *recordingArchive) records() []session.ArchiveRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]session.ArchiveRecord(nil), a.got...)
}

type recordingStats struct {
	mu    sync.Mutex
	calls int
}

func (s *recordingStats) Record(variant string, moveCount int, when time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
}

func (s *recordingStats) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testConfig() session.Config {
	return session.Config{
		AFKResignAfter:             40 * time.Millisecond,
		DisconnectGrace:            20 * time.Millisecond,
		DisconnectResignResignable: 60 * time.Millisecond,
		DisconnectResignAbortable:  30 * time.Millisecond,
		DeletionGrace:              20 * time.Millisecond,
		DrawOfferCadence:           2,
	}
}

func createTestGame(t *testing.T, m *session.Manager, timeControl string) (*fakeEndpoint, *fakeEndpoint, string) {
	t.Helper()
	owner := chessd.MemberHandle(1, "alice")
	ownerEp := newFakeEndpoint(owner)
	accepterEp := newFakeEndpoint(chessd.GuestHandle("bob-token"))

	invite := chessd.InviteOptions{
		Variant:         "Standard",
		TimeControlStr:  timeControl,
		ColorPreference: chessd.PreferWhite,
		Rated:           false,
		Publicity:       chessd.Public,
		Owner:           owner,
	}

	_, err := m.CreateGameFromInvite(invite, ownerEp, accepterEp)
	require.NoError(t, err)

	gameID, _, ok := ownerEp.Subscription()
	require.True(t, ok)
	return ownerEp, accepterEp, gameID
}

// Scenario 1: basic play, then a decisive conclusion claimed by the
// mover, archived with the game's moves.
func TestScenarioBasicPlayToDecisiveConclusion(t *testing.T) {
	archiveSink := newRecordingArchive()
	statsSink := &recordingStats{}
	m := session.NewManager(testConfig(), archiveSink, statsSink)

	white, black, gameID := createTestGame(t, m, "600+4")
	_ = gameID

	m.SubmitMove(white, session.SubmitMoveRequest{Move: "5,2>5,4", MoveNumber: 1})
	m.SubmitMove(black, session.SubmitMoveRequest{Move: "5,7>5,5", MoveNumber: 2})
	m.SubmitMove(white, session.SubmitMoveRequest{
		Move: "7,1>6,3", MoveNumber: 3,
		GameConclusion: "white checkmate", HasConclusion: true,
	})

	assert.True(t, white.has("gameupdate"))
	assert.True(t, black.has("move"))

	time.Sleep(50 * time.Millisecond)
	records := archiveSink.records()
	require.Len(t, records, 1)
	assert.Equal(t, chessd.Conclusion("white checkmate"), records[0].Conclusion)
	assert.Equal(t, 1, statsSink.count())
}

// Scenario 2 (as implemented): abort succeeds while the game has not
// yet become resignable (fewer than 2 plies played) — see the Open
// Question decision in the design ledger about the tension between
// this rule and the scenario's literal move count.
func TestAbortBeforeResignableSucceeds(t *testing.T) {
	m := session.NewManager(testConfig(), nil, nil)
	white, _, _ := createTestGame(t, m, "60+2")

	m.SubmitMove(white, session.SubmitMoveRequest{Move: "5,2>5,4", MoveNumber: 1})
	m.Abort(white)

	assert.Equal(t, "gameupdate", white.lastAction())
}

// Abort after the game has become resignable (>= 2 plies) is
// rejected.
func TestAbortAfterResignableRejected(t *testing.T) {
	m := session.NewManager(testConfig(), nil, nil)
	white, black, _ := createTestGame(t, m, "60+2")

	m.SubmitMove(white, session.SubmitMoveRequest{Move: "5,2>5,4", MoveNumber: 1})
	m.SubmitMove(black, session.SubmitMoveRequest{Move: "5,7>5,5", MoveNumber: 2})
	m.Abort(white)

	assert.Equal(t, "notify", white.lastAction())
}

// Scenario 3: AFK then return. After white's move 1 and black's move
// 2, it is white's turn; white is the one who can declare AFK.
func TestScenarioAFKThenReturn(t *testing.T) {
	m := session.NewManager(testConfig(), nil, nil)
	white, black, _ := createTestGame(t, m, "60+2")

	m.SubmitMove(white, session.SubmitMoveRequest{Move: "5,2>5,4", MoveNumber: 1})
	m.SubmitMove(black, session.SubmitMoveRequest{Move: "5,7>5,5", MoveNumber: 2})

	m.DeclareAFK(white)
	assert.True(t, black.has("opponentafk"))

	time.Sleep(5 * time.Millisecond)
	m.ReturnFromAFK(white)
	assert.True(t, black.has("opponentafkreturn"))

	time.Sleep(60 * time.Millisecond)
	assert.False(t, black.has("gameupdate"))
}

// Scenario 4: not-by-choice disconnect, with a rejoin inside the grace
// period cancelling the timers so the game is never auto-resigned.
func TestScenarioDisconnectThenRejoinCancelsTimers(t *testing.T) {
	m := session.NewManager(testConfig(), nil, nil)
	white, black, _ := createTestGame(t, m, "60+2")

	m.SubmitMove(white, session.SubmitMoveRequest{Move: "5,2>5,4", MoveNumber: 1})
	m.SubmitMove(black, session.SubmitMoveRequest{Move: "5,7>5,5", MoveNumber: 2})

	m.OnEndpointClosed(white, session.NotByChoice)
	time.Sleep(10 * time.Millisecond)
	m.Rejoin(white, white.Handle())

	assert.True(t, white.has("joingame"))

	time.Sleep(150 * time.Millisecond)
	assert.False(t, black.has("gameupdate"))
}

// Disconnect that is never rejoined escalates all the way to an
// auto-resign conclusion.
func TestScenarioDisconnectEscalatesToAutoResign(t *testing.T) {
	m := session.NewManager(testConfig(), nil, nil)
	white, black, _ := createTestGame(t, m, "60+2")

	m.SubmitMove(white, session.SubmitMoveRequest{Move: "5,2>5,4", MoveNumber: 1})
	m.SubmitMove(black, session.SubmitMoveRequest{Move: "5,7>5,5", MoveNumber: 2})

	m.OnEndpointClosed(white, session.NotByChoice)
	time.Sleep(150 * time.Millisecond)

	assert.True(t, black.has("gameupdate"))
}

// Scenario 5: draw offer, explicit decline, an immediate re-offer
// blocked by the cadence rule, and finally an auto-decline triggered
// by the recipient moving instead of responding.
func TestScenarioDrawOfferDeclineAutoDeclineCadence(t *testing.T) {
	m := session.NewManager(testConfig(), nil, nil)
	white, black, _ := createTestGame(t, m, "-")

	playMoves := func(from int, squares ...string) int {
		n := from
		for _, mv := range squares {
			mover := white
			if n%2 == 1 {
				mover = black
			}
			n++
			m.SubmitMove(mover, session.SubmitMoveRequest{Move: mv, MoveNumber: n})
		}
		return n
	}

	// Moves 1-4: White, Black, White, Black. Next to move is White.
	played := playMoves(0, "5,2>5,4", "5,7>5,5", "6,2>6,4", "6,7>6,5")

	m.OfferDraw(white)
	assert.True(t, black.has("drawoffer"))

	m.DeclineDraw(black)
	assert.True(t, white.has("declinedraw"))

	// Cadence blocks an immediate re-offer: no second "drawoffer" is
	// sent to Black.
	drawOffersSoFar := len(black.actions())
	m.OfferDraw(white)
	assert.Equal(t, drawOffersSoFar, len(black.actions()))

	// Moves 5-7: White, Black, White. Next to move is Black, and three
	// plies have now passed since White's first offer, clearing the
	// cadence gate.
	played = playMoves(played, "6,4>6,5", "6,5>5,6", "7,1>6,3")

	m.OfferDraw(white)
	assert.True(t, black.has("drawoffer"))

	actionsSoFar := len(white.actions())
	m.SubmitMove(black, session.SubmitMoveRequest{Move: "8,7>8,6", MoveNumber: played + 1})
	// Black's move both auto-declines White's outstanding offer and is
	// relayed to White as the opponent: two new messages land.
	assert.Equal(t, actionsSoFar+2, len(white.actions()))
	assert.Contains(t, white.actions(), "declinedraw")
	assert.Equal(t, "move", white.lastAction())
}

// Scenario 6: a cheat report pops the reported move and aborts the
// game.
func TestScenarioCheatReport(t *testing.T) {
	m := session.NewManager(testConfig(), nil, nil)
	white, black, _ := createTestGame(t, m, "-")

	moves := []string{"5,2>5,4", "5,7>5,5", "6,2>6,4", "6,7>6,5"}
	for i, mv := range moves {
		mover := white
		if i%2 == 1 {
			mover = black
		}
		m.SubmitMove(mover, session.SubmitMoveRequest{Move: mv, MoveNumber: i + 1})
	}

	m.Report(white, session.ReportRequest{Reason: "engine use", OpponentsMoveNumber: 4})

	assert.True(t, white.has("notify"))
	assert.True(t, black.has("notify"))
}
