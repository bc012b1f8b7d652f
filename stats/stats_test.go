package stats_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-chessd/stats"
)

func TestRecordUpdatesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	w, err := stats.Open(path)
	require.NoError(t, err)

	when := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	w.Record("Standard", 10, when)
	w.Record("Standard", 20, when)
	require.NoError(t, w.Close())

	snap := w.Snapshot()
	assert.Equal(t, int64(2), snap.GamesPlayed.AllTime)
	assert.Equal(t, int64(2), snap.GamesPlayed.ByDay["2026-03-15"])
	assert.Equal(t, int64(30), snap.MoveCount["all"])
	assert.Equal(t, int64(30), snap.MoveCount["Standard"])
	assert.Equal(t, int64(30), snap.MoveCount["2026-03"])
}

func TestOpenStartsFromEmptyWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.json")
	w, err := stats.Open(path)
	require.NoError(t, err)
	snap := w.Snapshot()
	assert.Zero(t, snap.GamesPlayed.AllTime)
}
