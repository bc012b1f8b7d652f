package conf

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"go-chessd"
)

var watchLog = chessd.Debug.WithField("component", "conf")

// AllowInvites is the hot-reloaded content of the allow-invites flags
// file: whether new invites may currently be accepted, and — when a
// restart is scheduled — the timestamp to broadcast to every active
// game.
type AllowInvites struct {
	Allowed   bool       `mapstructure:"allowInvites"`
	RestartAt *time.Time `mapstructure:"restartAt"`
}

// AllowInvitesWatcher tracks the flags file via viper's fsnotify-backed
// watch, with a 5-second fallback poll in case the filesystem watch is
// missed (common with editors that write via rename-into-place).
type AllowInvitesWatcher struct {
	v *viper.Viper

	mu      sync.RWMutex
	current AllowInvites

	onChange func(AllowInvites)
}

// WatchAllowInvites starts watching path. The file need not exist yet;
// until it does, Current returns the default (invites allowed, no
// restart scheduled).
func WatchAllowInvites(path string) (*AllowInvitesWatcher, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault("allowInvites", true)

	w := &AllowInvitesWatcher{v: v, current: AllowInvites{Allowed: true}}

	if err := v.ReadInConfig(); err == nil {
		w.reload()
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		w.reload()
	})
	v.WatchConfig()

	go w.fallbackPoll()

	return w, nil
}

func (w *AllowInvitesWatcher) reload() {
	var parsed AllowInvites
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeHookFunc(time.RFC3339),
	)
	if err := w.v.Unmarshal(&parsed, viper.DecodeHook(hook)); err != nil {
		watchLog.WithError(err).Warn("allow-invites file failed to parse")
		return
	}

	w.mu.Lock()
	w.current = parsed
	cb := w.onChange
	w.mu.Unlock()

	if cb != nil {
		cb(parsed)
	}
}

// fallbackPoll re-reads the file every 5 seconds regardless of
// whether fsnotify fired, matching the polling cadence the invite
// subsystem relies on.
func (w *AllowInvitesWatcher) fallbackPoll() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		if err := w.v.ReadInConfig(); err != nil {
			continue
		}
		w.reload()
	}
}

// Current returns the most recently loaded flags.
func (w *AllowInvitesWatcher) Current() AllowInvites {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback fired whenever the file is reloaded.
func (w *AllowInvitesWatcher) OnChange(cb func(AllowInvites)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = cb
}
