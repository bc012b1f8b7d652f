// Package archive is the archival sink: it turns a completed game
// into the two append-only log lines the rest of the system never
// reads back (the log exists for operators and offline analysis, not
// for server-restart recovery — see the Non-goals on persistent
// consistency).
package archive

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"go-chessd"
	"go-chessd/icn"
	"go-chessd/session"
)

var log = chessd.Debug.WithField("component", "archive")

// job is one unit of writer work, queued by Archive and drained by a
// single writer goroutine so concurrent games never interleave lines.
type job struct {
	rec session.ArchiveRecord
}

// Writer implements session.ArchiveSink over a single append-only
// file. Its internal channel + dedicated goroutine mirrors the
// teacher's single-writer database-action channel: every write is
// serialized without needing a lock around the file itself.
type Writer struct {
	jobs chan job
	wg   sync.WaitGroup

	mu   sync.Mutex
	file *os.File
}

// Open opens (creating if necessary) the append-only log at path and
// starts its writer goroutine.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", path, err)
	}
	w := &Writer{jobs: make(chan job, 64), file: f}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Archive enqueues a completed game for writing. It never blocks the
// caller on file I/O.
func (w *Writer) Archive(rec session.ArchiveRecord) {
	w.jobs <- job{rec: rec}
}

// Close stops accepting new jobs and waits for the writer goroutine to
// drain whatever is already queued.
func (w *Writer) Close() error {
	close(w.jobs)
	w.wg.Wait()
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func (w *Writer) run() {
	defer w.wg.Done()
	for j := range w.jobs {
		w.writeOne(j.rec)
	}
}

func (w *Writer) writeOne(rec session.ArchiveRecord) {
	if len(rec.Moves) == 0 {
		return
	}

	header := formatHeaderLine(rec)
	// The ICN text spans several lines; it is folded onto one so each
	// game occupies exactly two lines of the log.
	transcript := strings.ReplaceAll(formatTranscript(rec), "\n", " ")

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := fmt.Fprintf(w.file, "%s\n%s\n", header, transcript); err != nil {
		log.WithError(err).WithField("game_id", rec.ID).Error("archive write failed")
	}
}

func formatHeaderLine(rec session.ArchiveRecord) string {
	white := displayName(rec.Seats[chessd.White])
	black := displayName(rec.Seats[chessd.Black])
	return fmt.Sprintf(
		"Players: White=%s Black=%s Game={id=%s, publicity=%s, clockWhite=%d, clockBlack=%d}",
		white, black, rec.ID, rec.Publicity.String(), rec.FinalClock[chessd.White], rec.FinalClock[chessd.Black],
	)
}

func displayName(h chessd.Handle) string {
	if h.IsGuest() {
		return "Guest"
	}
	return h.DisplayName()
}

func formatTranscript(rec session.ArchiveRecord) string {
	r := icn.Record{
		Headers: []icn.HeaderField{
			{Key: "Event", Value: "Casual game"},
			{Key: "Site", Value: "go-chessd"},
			{Key: "Round", Value: "-"},
			{Key: "Variant", Value: rec.Variant},
			{Key: "White", Value: displayName(rec.Seats[chessd.White])},
			{Key: "Black", Value: displayName(rec.Seats[chessd.Black])},
			{Key: "TimeControl", Value: timeControlHeader(rec.TimeControl)},
			{Key: "UTCDate", Value: rec.CreatedAt.UTC().Format("2006.01.02")},
			{Key: "UTCTime", Value: rec.CreatedAt.UTC().Format("15:04:05")},
			{Key: "Result", Value: resultToken(rec.Conclusion)},
			{Key: "Termination", Value: terminationToken(rec.Conclusion)},
		},
		Turn:          chessd.White,
		MoveRuleLimit: 100,
		FullMove:      int64(len(rec.Moves)/2) + 1,
	}

	moves := make([]icn.Move, 0, len(rec.Moves))
	for _, m := range rec.Moves {
		mv, err := icn.DecodeMove(m)
		if err != nil {
			log.WithField("game_id", rec.ID).WithError(err).Error("codec error during archival")
			hackLog().WithField("game_id", rec.ID).Warn("unarchivable move list")
			return "ICN UNAVAILABLE"
		}
		moves = append(moves, mv)
	}
	r.Moves = moves

	text, err := icn.Serialize(r)
	if err != nil {
		log.WithField("game_id", rec.ID).WithError(err).Error("codec error during archival")
		return "ICN UNAVAILABLE"
	}
	return text
}

func hackLog() *logrus.Entry {
	return logrus.NewEntry(chessd.Hack)
}

func timeControlHeader(tc chessd.TimeControl) string {
	if !tc.Timed {
		return "-"
	}
	return fmt.Sprintf("%d+%d", tc.InitialMs/1000, tc.IncrementMs/1000)
}

func resultToken(c chessd.Conclusion) string {
	if c.IsDraw() {
		return "1/2-1/2"
	}
	if winner, ok := c.Winner(); ok {
		if winner == chessd.White {
			return "1-0"
		}
		return "0-1"
	}
	return "0-0"
}

func terminationToken(c chessd.Conclusion) string {
	s := string(c)
	if s == "" || s == string(chessd.Aborted) {
		return "Abandoned"
	}
	switch {
	case hasAnySuffix(s, " time"):
		return "Time forfeit"
	case hasAnySuffix(s, " resignation"):
		return "Resignation"
	case hasAnySuffix(s, " disconnect"):
		return "Disconnection"
	default:
		return "Normal"
	}
}

func hasAnySuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
