package session

import "time"

// Config carries every timing/behavioral knob the manager consults.
// The conf package constructs one of these from chessd.toml; tests
// construct it directly with DefaultConfig.
type Config struct {
	AFKResignAfter             time.Duration
	DisconnectGrace            time.Duration
	DisconnectResignResignable time.Duration
	DisconnectResignAbortable  time.Duration
	DeletionGrace              time.Duration
	DrawOfferCadence           int
	DevMode                    bool
}

// DefaultConfig returns the timing constants named in the boundary
// behaviors: AFK 20s, not-by-choice grace 5s, resignable auto-resign
// 60s, non-resignable auto-resign 20s, deletion grace 15s, draw
// cadence 2.
func DefaultConfig() Config {
	return Config{
		AFKResignAfter:             20 * time.Second,
		DisconnectGrace:            5 * time.Second,
		DisconnectResignResignable: 60 * time.Second,
		DisconnectResignAbortable:  20 * time.Second,
		DeletionGrace:              15 * time.Second,
		DrawOfferCadence:           2,
	}
}
