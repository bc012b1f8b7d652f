package session

import (
	"sync"
	"time"

	"go-chessd"
	"go-chessd/timer"
)

// ArchiveRecord is everything the archival sink needs to write a
// completed game's two log lines. The session package only builds and
// hands off this value; it never touches a file itself.
type ArchiveRecord struct {
	ID          string
	CreatedAt   time.Time
	Publicity   chessd.Publicity
	Variant     string
	TimeControl chessd.TimeControl
	Rated       bool
	Seats       map[chessd.Color]chessd.Handle
	Moves       []string
	Conclusion  chessd.Conclusion
	FinalClock  map[chessd.Color]int64
}

// ArchiveSink receives a completed game's record. Implementations
// must not block the caller for long; the manager calls this from
// inside a game's worker goroutine during ordinary play, and
// synchronously (by design) during shutdown drain.
type ArchiveSink interface {
	Archive(rec ArchiveRecord)
}

// StatsSink is notified once per archived game.
type StatsSink interface {
	Record(variant string, moveCount int, when time.Time)
}

// noopArchive/noopStats let a Manager be constructed without wiring a
// real sink, useful in tests that don't care about archival.
type noopArchive struct{}

func (noopArchive) Archive(ArchiveRecord) {}

type noopStats struct{}

func (noopStats) Record(string, int, time.Time) {}

// Manager is the top-level session coordinator: the active-game
// registry, the player-to-game index, and the entry points every
// external event (message, socket close, invite acceptance, shutdown)
// flows through.
type Manager struct {
	mu       sync.RWMutex
	games    map[string]*Game
	byMember map[int64]string
	byGuest  map[string]string

	timers  timer.Service
	archive ArchiveSink
	stats   StatsSink
	conf    Config

	countMu        sync.Mutex
	onCountChanged func(int)
}

// NewManager constructs an empty registry. archive/stats may be nil,
// in which case archival and stats recording are no-ops.
func NewManager(conf Config, archive ArchiveSink, stats StatsSink) *Manager {
	if archive == nil {
		archive = noopArchive{}
	}
	if stats == nil {
		stats = noopStats{}
	}
	return &Manager{
		games:    make(map[string]*Game),
		byMember: make(map[int64]string),
		byGuest:  make(map[string]string),
		archive:  archive,
		stats:    stats,
		conf:     conf,
	}
}

// IsPlayerInActiveGame is consulted by invite acceptance before
// creating a new game; a player may only be seated in one game at a
// time (invariant 5).
func (m *Manager) IsPlayerInActiveGame(h chessd.Handle) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexedGameID(h) != ""
}

func (m *Manager) indexedGameID(h chessd.Handle) string {
	if h.IsGuest() {
		return m.byGuest[h.BrowserToken()]
	}
	return m.byMember[h.StableID()]
}

func (m *Manager) indexPlayer(h chessd.Handle, gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.IsGuest() {
		m.byGuest[h.BrowserToken()] = gameID
	} else {
		m.byMember[h.StableID()] = gameID
	}
}

func (m *Manager) unindexPlayer(h chessd.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.IsGuest() {
		delete(m.byGuest, h.BrowserToken())
	} else {
		delete(m.byMember, h.StableID())
	}
}

// gameByID looks the game up under the registry lock. The returned
// *Game is safe to submit commands to even after the lock is
// released: only the registry map itself is protected, not the
// Game's fields.
func (m *Manager) gameByID(id string) (*Game, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	return g, ok
}

func (m *Manager) gameForHandle(h chessd.Handle) (*Game, bool) {
	m.mu.RLock()
	id := m.indexedGameID(h)
	m.mu.RUnlock()
	if id == "" {
		return nil, false
	}
	return m.gameByID(id)
}

func (m *Manager) insertGame(g *Game) {
	m.mu.Lock()
	m.games[g.ID] = g
	n := len(m.games)
	m.mu.Unlock()
	go g.run()
	m.fireCountChanged(n)
}

// removeGame deletes the game from the registry and stops its worker.
// Closing g.commands lets run() drain any already-queued commands
// before exiting.
func (m *Manager) removeGame(id string) {
	m.mu.Lock()
	g, ok := m.games[id]
	if ok {
		delete(m.games, id)
	}
	n := len(m.games)
	m.mu.Unlock()
	if !ok {
		return
	}
	close(g.commands)
	m.fireCountChanged(n)
}

// SetOnActiveGameCountChanged registers a callback fired whenever the
// number of active games changes, used by the invite subsystem to
// broadcast lobby counts.
func (m *Manager) SetOnActiveGameCountChanged(cb func(int)) {
	m.countMu.Lock()
	defer m.countMu.Unlock()
	m.onCountChanged = cb
}

func (m *Manager) fireCountChanged(n int) {
	m.countMu.Lock()
	cb := m.onCountChanged
	m.countMu.Unlock()
	if cb != nil {
		cb(n)
	}
}

// GetActiveGameCount returns the current number of active games.
func (m *Manager) GetActiveGameCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
