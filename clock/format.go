// Package clock parses and validates the time-control strings used on
// invites: the sentinel "-" for untimed play, and "<seconds>+<increment>"
// for a timed game.
package clock

import (
	"fmt"
	"strconv"
	"strings"

	"go-chessd"
)

// Infinite is the sentinel string denoting an untimed game.
const Infinite = "-"

// whitelist is the closed set of time controls offered in production:
// the controls the lobby actually offers, not every mathematically
// valid "seconds+increment" pair.
var whitelist = map[string]bool{
	"-":       true,
	"60+2":    true,
	"120+2":   true,
	"180+2":   true,
	"300+2":   true,
	"480+3":   true,
	"600+4":   true,
	"600+6":   true,
	"720+5":   true,
	"900+6":   true,
	"1200+8":  true,
	"1500+10": true,
	"1800+15": true,
	"2400+20": true,
}

// devWhitelist is additionally accepted when devMode is true, for
// exercising short games without waiting out a real-length clock.
var devWhitelist = map[string]bool{
	"15+2": true,
}

// IsValid reports whether s is one of the literal time-control strings
// the server accepts. devMode additionally allows the short
// development-only controls.
func IsValid(s string, devMode bool) bool {
	if whitelist[s] {
		return true
	}
	return devMode && devWhitelist[s]
}

// Parse converts a validated time-control string into a chessd.TimeControl.
// It does not itself consult the whitelist: callers that need to reject
// controls outside the production/dev set should call IsValid first.
// Parse only rejects strings that don't match the "-" or
// "<seconds>+<increment>" grammar.
func Parse(s string) (chessd.TimeControl, error) {
	if s == Infinite {
		return chessd.Infinite, nil
	}

	parts := strings.SplitN(s, "+", 2)
	if len(parts) != 2 {
		return chessd.TimeControl{}, fmt.Errorf("clock: malformed time control %q", s)
	}

	seconds, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || seconds < 0 {
		return chessd.TimeControl{}, fmt.Errorf("clock: invalid initial time in %q: %w", s, err)
	}
	increment, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || increment < 0 {
		return chessd.TimeControl{}, fmt.Errorf("clock: invalid increment in %q: %w", s, err)
	}

	return chessd.Timed(seconds*1000, increment*1000), nil
}
