// Command chessd runs the session coordinator: it accepts WebSocket
// connections, relays moves between the two seats of a game, arbitrates
// clocks, AFK and disconnect timeouts, draw offers and resignation, and
// archives completed games.
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go-chessd"
	"go-chessd/archive"
	"go-chessd/conf"
	"go-chessd/session"
	"go-chessd/stats"
	"go-chessd/transport"
	"go-chessd/web"
)

const releaseVersion = "0.1.0"

func main() {
	flags := &cliFlags{}
	cobra.CheckErr(newRootCmd(flags, run).Execute())
}

func run(flags *cliFlags) error {
	if flags.verbose {
		chessd.Debug.SetLevel(logrus.DebugLevel)
	}

	cfg, err := conf.Load(flags.confFile)
	if err != nil {
		return err
	}
	cfg.BindAddress = flags.bind
	cfg.Port = flags.port
	cfg.ArchiveLogPath = filepath.Join(flags.databaseDir, filepath.Base(cfg.ArchiveLogPath))
	cfg.StatsFilePath = filepath.Join(flags.databaseDir, filepath.Base(cfg.StatsFilePath))
	cfg.AllowInvitesPath = filepath.Join(flags.databaseDir, filepath.Base(cfg.AllowInvitesPath))

	if err := os.MkdirAll(flags.databaseDir, 0o755); err != nil {
		return err
	}

	archiveSink, err := archive.Open(cfg.ArchiveLogPath)
	if err != nil {
		return err
	}
	defer archiveSink.Close()

	statsSink, err := stats.Open(cfg.StatsFilePath)
	if err != nil {
		return err
	}
	defer statsSink.Close()

	allowInvites, err := conf.WatchAllowInvites(cfg.AllowInvitesPath)
	if err != nil {
		return err
	}

	manager := session.NewManager(cfg.SessionConfig(), archiveSink, statsSink)

	allowInvites.OnChange(func(ai conf.AllowInvites) {
		if ai.RestartAt != nil {
			manager.BroadcastShutdownWindow(*ai.RestartAt)
		}
	})

	dispatcher := transport.NewDispatcher(manager)
	srv := web.NewServer(net.JoinHostPort(cfg.BindAddress, strconv.Itoa(cfg.Port)), manager, dispatcher, statsSink, identifyGuest)

	errs := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			errs <- err
		}
	}()

	intr := make(chan os.Signal, 1)
	signal.Notify(intr, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errs:
		return err
	case <-intr:
		chessd.Debug.Println("caught interrupt, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// identifyGuest is a placeholder identity resolver: every connection
// is treated as a fresh guest keyed by a browser-supplied token
// header. A deployment with signed-in members would replace this with
// one that checks a session cookie first.
func identifyGuest(r *http.Request) (chessd.Handle, error) {
	tok := r.Header.Get("X-Guest-Token")
	if tok == "" {
		tok = r.RemoteAddr
	}
	return chessd.GuestHandle(tok), nil
}
