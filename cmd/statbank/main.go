package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/statbank-go/statbank/internal/cliconfig"
)

const helpDescription = `
Upload tables to the Statbank transfer API.

Each --data argument names one dataset file (name=path). The files are sent
together as a single load job for the main table given with --table. On
success the job id, publish time and load-log links are printed.

Configuration is read from $HOME/.statbank/config.toml, then STATBANK_*
environment variables, then flags. JUPYTERHUB_USER supplies the initials
and recipients when they are not set elsewhere.
`

var exampleUsage = strings.TrimSpace(`
  statbank transfer --table 05300 --data delfil1.dat=./05300_1.csv
  statbank transfer --table 05300 --data a.dat=a.csv --data b.dat=b.csv --date 2024-06-01 --json
  statbank --config $HOME/.statbank/config.toml transfer --table 05300 --data ./delfil1.dat
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func bootstrapLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

func newRootCmd() *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "statbank",
		Short:         "Upload tables to the Statbank transfer API",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.statbank/config.toml)")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (console, json)")

	root.AddCommand(newTransferCmd(&cfg, &cfgPath))
	return root
}

func main() {
	log := bootstrapLogger()
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("statbank")
		os.Exit(1)
	}
}
