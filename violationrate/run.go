package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"violationrate/claims"
	"violationrate/codes"
	"violationrate/cohort"
	"violationrate/rate"
	"violationrate/report"
)

// runReport executes one report: fetch, filter, compute, emit. The CSV goes
// to stdout unless cfg.Output names a file, in which case stdout only gets a
// confirmation line.
func runReport(ctx context.Context, cfg *Config, stdout io.Writer, log zerolog.Logger) error {
	start := time.Now()

	overrides := cfg.Overrides()
	catalog, err := codes.Build(overrides)
	if err != nil {
		return fmt.Errorf("build code catalog: %w", err)
	}
	log.Info().
		Bool("custom_codes", !overrides.Empty()).
		Int("screening", catalog.Procedures.Screening.Len()).
		Int("resection", catalog.Procedures.Resection.Len()).
		Int("benign", catalog.Diagnoses.Benign.Len()).
		Int("malignant", catalog.Diagnoses.Malignant.Len()).
		Msg("code catalog ready")

	lines, err := claims.NewReader(cfg.DatabaseURL, log).Fetch(ctx, catalog.Procedures)
	if err != nil {
		return err
	}

	filtered := cohort.Filter(lines, catalog.Diagnoses)
	log.Info().
		Int("fetched", len(lines)).
		Int("cohort", len(filtered)).
		Msg("benign-only cohort selected")

	engine := rate.Engine{Log: log}
	table := engine.Compute(filtered, catalog.Procedures)
	log.Info().
		Int("physicians", len(table.Rows)).
		Int("flagged", len(table.Flagged())).
		Dur("elapsed", time.Since(start)).
		Msg("violation rates computed")

	if cfg.Output == "" {
		if err := report.WriteCSV(stdout, table); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		return nil
	}

	format, err := report.WriteFile(cfg.Output, table)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(stdout, "Violation rate report complete: %d physicians written to %s (%s)\n",
		len(table.Rows), cfg.Output, format)
	return nil
}

func runLoad(ctx context.Context, cfg *Config, stdout io.Writer, log zerolog.Logger) error {
	if cfg.File == "" {
		return fmt.Errorf("--file is required")
	}
	stats, err := claims.Load(ctx, cfg.File, cfg.DatabaseURL, cfg.BatchSize, log)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.File, err)
	}
	fmt.Fprintf(stdout, "Loaded %d records: %d new encounters, %d service lines\n",
		stats.Records, stats.Headers, stats.Lines)
	return nil
}

func runInitSchema(ctx context.Context, cfg *Config, stdout io.Writer, log zerolog.Logger) error {
	if err := claims.InitSchema(ctx, cfg.DatabaseURL); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	log.Info().Msg("schema initialized")
	fmt.Fprintln(stdout, "Schema initialized successfully")
	return nil
}
