package conf_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-chessd/conf"
)

func TestDefaultMatchesBoundaryBehaviors(t *testing.T) {
	c := conf.Default()
	assert.Equal(t, 20, c.AFKResignAfterSeconds)
	assert.Equal(t, 5, c.DisconnectGraceSeconds)
	assert.Equal(t, 60, c.DisconnectResignResignableSeconds)
	assert.Equal(t, 20, c.DisconnectResignAbortableSeconds)
	assert.Equal(t, 15, c.DeletionGraceSeconds)
	assert.Equal(t, 2, c.DrawOfferCadence)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chessd.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
port = 9001
draw_offer_cadence = 5
`), 0o644))

	c, err := conf.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9001, c.Port)
	assert.Equal(t, 5, c.DrawOfferCadence)
	assert.Equal(t, "0.0.0.0", c.BindAddress)
}

func TestLoadMissingPathReturnsDefaults(t *testing.T) {
	c, err := conf.Load("")
	require.NoError(t, err)
	assert.Equal(t, conf.Default(), c)
}

func TestSessionConfigProjection(t *testing.T) {
	c := conf.Default()
	c.Env = conf.Development
	sc := c.SessionConfig()
	assert.Equal(t, 20*1e9, float64(sc.AFKResignAfter))
	assert.True(t, sc.DevMode)
}

func TestWatchAllowInvitesDefaultsToAllowed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allowinvites.json")
	w, err := conf.WatchAllowInvites(path)
	require.NoError(t, err)
	assert.True(t, w.Current().Allowed)
	assert.Nil(t, w.Current().RestartAt)
}

func TestWatchAllowInvitesReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allowinvites.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"allowInvites": false, "restartAt": "2026-08-01T00:00:00Z"}`), 0o644))

	w, err := conf.WatchAllowInvites(path)
	require.NoError(t, err)
	assert.False(t, w.Current().Allowed)
	require.NotNil(t, w.Current().RestartAt)
	assert.Equal(t, 2026, w.Current().RestartAt.Year())
}
