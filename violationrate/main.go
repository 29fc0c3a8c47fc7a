package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer
}

type runFunc func(ctx context.Context, cfg *Config, stdout io.Writer, log zerolog.Logger) error

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "violationrate",
		Short: "Per-physician resection-after-benign-screening violation rates from claims data",
		Long: `violationrate reads colonoscopy (screening) and colectomy (resection) claim lines
from a PostgreSQL claims store, keeps encounters coded benign and not malignant,
and reports for every screening physician how many of their screening encounters
were matched by a resection they billed.`,
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (yaml, json or toml)")
	pf.String("database-url", defaultDatabaseURL, "PostgreSQL connection string for the claims store")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "console", "Log format (console or json)")
	a.bind(pf, "config", "config")
	a.bind(pf, "database_url", "database-url")
	a.bind(pf, "log_level", "log-level")
	a.bind(pf, "log_format", "log-format")

	root.AddCommand(a.reportCmd())
	root.AddCommand(a.loadCmd())
	root.AddCommand(a.initSchemaCmd())
	return root
}

func (a *app) bind(fs *pflag.FlagSet, key, flag string) {
	if err := a.v.BindPFlag(key, fs.Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

// run loads configuration and the logger, then hands off to fn.
func (a *app) run(fn runFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(a.v)
		if err != nil {
			return err
		}
		log, err := newLogger(a.stderr, cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}

		log.Debug().Str("command", cmd.Name()).Msg("starting")
		if err := fn(cmd.Context(), cfg, a.stdout, log); err != nil {
			log.Error().Err(err).Str("command", cmd.Name()).Msg("failed")
			return err
		}
		return nil
	}
}

func (a *app) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute the violation rate table",
		Long: `Compute the violation rate table and print it as CSV.

Code lists may be repeated or comma separated. Any list left out keeps its
built-in default. With --output the table is written to that file instead;
a .parquet or .xlsx extension selects that format, anything else is CSV.`,
		Args: cobra.NoArgs,
		RunE: a.run(runReport),
	}

	f := cmd.Flags()
	f.StringSlice("screening", nil, "Screening (colonoscopy) procedure codes")
	f.StringSlice("resection", nil, "Resection (colectomy) procedure codes")
	f.StringSlice("benign", nil, "Benign diagnosis codes")
	f.StringSlice("malignant", nil, "Malignant diagnosis codes")
	f.StringP("output", "o", "", "Write the report to this file instead of stdout")
	a.bind(f, "screening", "screening")
	a.bind(f, "resection", "resection")
	a.bind(f, "benign", "benign")
	a.bind(f, "malignant", "malignant")
	a.bind(f, "output", "output")
	return cmd
}

func (a *app) loadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load a Parquet or CSV claims extract into the claims store",
		Args:  cobra.NoArgs,
		RunE:  a.run(runLoad),
	}

	f := cmd.Flags()
	f.String("file", "", "Claims extract (.parquet or .csv)")
	f.Int("batch", defaultBatchSize, "Service lines per COPY batch")
	a.bind(f, "file", "file")
	a.bind(f, "batch_size", "batch")
	return cmd
}

func (a *app) initSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-schema",
		Short: "Create the claims tables",
		Args:  cobra.NoArgs,
		RunE:  a.run(runInitSchema),
	}
}
