// Package conf loads the server's static configuration from a TOML
// file and exposes a second, independently-watched source — the
// allow-invites flags file — for settings that change while the
// process is running.
package conf

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"go-chessd/session"
)

// Env is the deployment mode. Default sets Production and neither Load
// nor the TOML file changes it; the NODE_ENV environment variable is
// not read. SessionConfig maps Development to session.Config.DevMode,
// which the session manager does not consult: time controls are not
// checked against the whitelist at game creation.
type Env string

const (
	Development Env = "development"
	Production  Env = "production"
	Test        Env = "test"
)

// Conf is the fully-resolved static configuration.
type Conf struct {
	BindAddress string `toml:"bind_address"`
	Port        int    `toml:"port"`

	AFKResignAfterSeconds             int `toml:"afk_resign_after_seconds"`
	DisconnectGraceSeconds            int `toml:"disconnect_grace_seconds"`
	DisconnectResignResignableSeconds int `toml:"disconnect_resign_resignable_seconds"`
	DisconnectResignAbortableSeconds  int `toml:"disconnect_resign_abortable_seconds"`
	DeletionGraceSeconds              int `toml:"deletion_grace_seconds"`
	DrawOfferCadence                  int `toml:"draw_offer_cadence"`

	ArchiveLogPath string `toml:"archive_log_path"`
	StatsFilePath  string `toml:"stats_file_path"`
	AllowInvitesPath string `toml:"allow_invites_path"`

	Env Env `toml:"-"`
}

// Default returns the configuration used when no TOML file is
// supplied: the timer durations named in the boundary behaviors, and
// the repository-relative persisted-file layout.
func Default() Conf {
	return Conf{
		BindAddress: "0.0.0.0",
		Port:        8080,

		AFKResignAfterSeconds:             20,
		DisconnectGraceSeconds:            5,
		DisconnectResignResignableSeconds: 60,
		DisconnectResignAbortableSeconds:  20,
		DeletionGraceSeconds:              15,
		DrawOfferCadence:                  2,

		ArchiveLogPath:   "database/games.log",
		StatsFilePath:    "database/stats.json",
		AllowInvitesPath: "database/allowinvites.json",

		Env: Production,
	}
}

// Load decodes a TOML file into Conf, starting from Default so any
// field the file omits keeps its default value.
func Load(path string) (Conf, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Conf{}, fmt.Errorf("conf: decode %s: %w", path, err)
	}
	return c, nil
}

// SessionConfig projects the timer/cadence fields into the
// session.Config the manager consumes.
func (c Conf) SessionConfig() session.Config {
	return session.Config{
		AFKResignAfter:             time.Duration(c.AFKResignAfterSeconds) * time.Second,
		DisconnectGrace:            time.Duration(c.DisconnectGraceSeconds) * time.Second,
		DisconnectResignResignable: time.Duration(c.DisconnectResignResignableSeconds) * time.Second,
		DisconnectResignAbortable:  time.Duration(c.DisconnectResignAbortableSeconds) * time.Second,
		DeletionGrace:              time.Duration(c.DeletionGraceSeconds) * time.Second,
		DrawOfferCadence:           c.DrawOfferCadence,
		DevMode:                    c.Env == Development,
	}
}
