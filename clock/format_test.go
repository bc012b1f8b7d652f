package clock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-chessd"
	"go-chessd/clock"
)

func TestIsValid(t *testing.T) {
	for _, s := range []string{"-", "60+2", "600+4", "2400+20"} {
		assert.True(t, clock.IsValid(s, false), s)
	}
	assert.False(t, clock.IsValid("15+2", false), "dev control rejected outside dev mode")
	assert.True(t, clock.IsValid("15+2", true), "dev control accepted in dev mode")
	assert.False(t, clock.IsValid("61+2", false), "off-whitelist control rejected")
	assert.False(t, clock.IsValid("", false))
}

func TestParseInfinite(t *testing.T) {
	tc, err := clock.Parse("-")
	require.NoError(t, err)
	assert.Equal(t, chessd.Infinite, tc)
	assert.False(t, tc.Timed)
}

func TestParseTimed(t *testing.T) {
	tc, err := clock.Parse("600+4")
	require.NoError(t, err)
	assert.True(t, tc.Timed)
	assert.Equal(t, int64(600_000), tc.InitialMs)
	assert.Equal(t, int64(4_000), tc.IncrementMs)
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{"abc", "60", "60+", "+60", "60+2+1", "inf+2", "60+inf"} {
		_, err := clock.Parse(s)
		assert.Error(t, err, s)
	}
}

func TestIsValidImpliesParses(t *testing.T) {
	// Every string the whitelist accepts must also parse cleanly.
	for s := range map[string]bool{
		"-": true, "60+2": true, "120+2": true, "180+2": true, "300+2": true,
		"480+3": true, "600+4": true, "600+6": true, "720+5": true, "900+6": true,
		"1200+8": true, "1500+10": true, "1800+15": true, "2400+20": true, "15+2": true,
	} {
		if !clock.IsValid(s, true) {
			continue
		}
		_, err := clock.Parse(s)
		assert.NoError(t, err, s)
	}
}
