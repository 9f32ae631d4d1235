package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/statbank-go/statbank"
	"github.com/statbank-go/statbank/internal/cliconfig"
	"github.com/statbank-go/statbank/pkg/auth"
	"github.com/statbank-go/statbank/pkg/dataset"
	"github.com/statbank-go/statbank/pkg/log"
	"github.com/statbank-go/statbank/pkg/transfer"
)

type transferFlags struct {
	table   string
	data    []string
	jsonOut bool
}

func newTransferCmd(cfg *cliconfig.Config, cfgPath *string) *cobra.Command {
	var f transferFlags

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Send one or more dataset files as a single load job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(fl *pflag.Flag) { changed[fl.Name] = true })

			if err := loadConfig(cfg, *cfgPath, changed); err != nil {
				return err
			}

			adapter := log.NewZerologAdapter(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			zl := adapter.Logger()
			zl.Debug().Interface("config", cfg.Masked()).Msg("configuration")

			tables, err := loadTables(f.data, cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			t, err := runTransfer(ctx, *cfg, f.table, tables, adapter)
			if err != nil {
				if t != nil && t.State() == transfer.StateSent {
					zl.Error().Str("transfer", t.ID().String()).Msg("transfer was sent but not accepted; check the load log before retrying")
				}
				return err
			}

			if f.jsonOut {
				return printJSON(cmd.OutOrStdout(), t)
			}
			printResult(cmd.OutOrStdout(), t)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.table, "table", "", "main table id, e.g. 05300")
	fl.StringArrayVar(&f.data, "data", nil, "dataset file as name=path (repeatable)")
	fl.BoolVar(&f.jsonOut, "json", false, "print the transfer as JSON")

	fl.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Statbank base URL")
	fl.StringVar(&cfg.LoadUser, "loaduser", cfg.LoadUser, "Statbank load user")
	fl.StringVar(&cfg.Password, "password", cfg.Password, "load user password (prefer STATBANK_PASSWORD)")
	fl.StringVar(&cfg.ShortUser, "shortuser", cfg.ShortUser, "submitter initials")
	fl.StringVar(&cfg.CC, "cc", cfg.CC, "first notification recipient (defaults to shortuser)")
	fl.StringVar(&cfg.BCC, "bcc", cfg.BCC, "second notification recipient (defaults to cc)")
	fl.StringVar(&cfg.Date, "date", cfg.Date, "publish date YYYY-MM-DD (default: tomorrow)")
	fl.StringVar(&cfg.Overwrite, "overwrite", cfg.Overwrite, "overwrite existing data: 0 no, 1 yes")
	fl.StringVar(&cfg.Approve, "approve", cfg.Approve, "approval: 0 manual, 1 immediate, 2 just-in-time")
	fl.BoolVar(&cfg.Validation, "validation", cfg.Validation, "validate parameters before sending")
	fl.StringVar(&cfg.MessageFormat, "message-format", cfg.MessageFormat, "response message language (english, norwegian)")
	fl.StringVar(&cfg.Delimiter, "delimiter", cfg.Delimiter, "CSV delimiter of the input files")
	fl.BoolVar(&cfg.Header, "header", cfg.Header, "input files start with a header row")
	fl.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout (0 disables)")

	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

// loadConfig layers file, env and user fallback under the changed flags.
func loadConfig(cfg *cliconfig.Config, cfgPath string, changed map[string]bool) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	cliconfig.ApplyUserFallback(cfg, os.Getenv("JUPYTERHUB_USER"))

	return cfg.Validate()
}

func loadTables(args []string, cfg *cliconfig.Config) ([]dataset.Table, error) {
	opts := dataset.CSVOptions{Delimiter: cfg.DelimiterRune(), Header: cfg.Header}
	tables := make([]dataset.Table, 0, len(args))
	for _, arg := range args {
		name, path, err := dataset.ParseArg(arg)
		if err != nil {
			return nil, err
		}
		tbl, err := dataset.LoadCSVFile(name, path, opts)
		if err != nil {
			return nil, fmt.Errorf("load dataset %s: %w", name, err)
		}
		tables = append(tables, tbl)
	}
	return tables, nil
}

func runTransfer(ctx context.Context, cfg cliconfig.Config, tableID string, tables []dataset.Table, logger log.Logger) (*transfer.Transfer, error) {
	provider, err := auth.NewBasic(auth.BasicConfig{
		BaseURL:  cfg.BaseURL,
		LoadUser: cfg.LoadUser,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create auth provider: %w", err)
	}

	clientCfg, err := cfg.ClientConfig()
	if err != nil {
		return nil, err
	}

	client, err := statbank.NewClient(clientCfg, provider,
		transfer.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		transfer.WithLogger(logger),
		transfer.WithMessageFormat(cfg.Format()),
	)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return client.Transfer(ctx, tableID, tables...)
}

func printResult(w io.Writer, t *transfer.Transfer) {
	res := t.Result()
	if res == nil {
		fmt.Fprintln(w, t.String())
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Table", "Job id", "Publish", "Load log", "API"})
	tw.AppendRow(table.Row{
		t.Request().TableID,
		res.JobID,
		res.Publish.Format("2006-01-02 15:04"),
		res.LogURL,
		res.APIURL,
	})
	tw.Render()
}

func printJSON(w io.Writer, t *transfer.Transfer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode transfer: %w", err)
	}
	return nil
}
