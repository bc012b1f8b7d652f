package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// cliFlags mirrors the command-line surface. confFile names the TOML
// file passed to conf.Load; bind, port and databaseDir then replace the
// loaded bind address, port and persisted-file directory (the flag
// defaults apply even when the TOML file sets those fields). The rest
// of the runtime configuration comes from the TOML file itself.
type cliFlags struct {
	bind        string
	port        int
	confFile    string
	databaseDir string
	verbose     bool
}

func (c *cliFlags) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	return nil
}

func newRootCmd(flags *cliFlags, run func(*cliFlags) error) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CHESSD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "chessd",
		Short:         "Session coordinator for online chess games: invite to game, move relay, clock/AFK/disconnect arbitration.",
		Args:          cobra.ExactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			return run(flags)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&flags.bind, "bind", "b", "0.0.0.0", "address to bind to (env: CHESSD_BIND)")
	fs.IntVarP(&flags.port, "port", "p", 8080, "port to listen on (env: CHESSD_PORT)")
	fs.StringVar(&flags.confFile, "conf", "", "path to a chessd.toml configuration file (env: CHESSD_CONF)")
	fs.StringVar(&flags.databaseDir, "database-dir", "database", "directory holding the archive log, stats file, and allow-invites flag file (env: CHESSD_DATABASE_DIR)")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug-level logging (env: CHESSD_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetVersionTemplate("chessd v{{.Version}}\n")

	return cmd
}
