// Package cmd implements the indradhanu CLI command tree.
// This file defines the root command and registers all global persistent flags.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/indradhanu/indradhanu/internal/app"
	"github.com/indradhanu/indradhanu/internal/config"
)

// globalFlags holds the parsed values of all persistent (global) flags.
// Commands read from this struct via the deps they receive.
var globalFlags struct {
	Format  string
	Out     string
	Timeout string
	Rate    float64
	Quiet   bool
	Verbose bool
	Debug   bool
}

// rootCmd is the base command. Running `indradhanu` with no subcommand
// prints help.
var rootCmd = &cobra.Command{
	Use:   "indradhanu",
	Short: "indradhanu — AI crop recommendations for Indian farms",
	Long: `indradhanu is a command-line companion for crop planning. It submits your
farm's soil and climate parameters to a crop prediction service, derives
alternative options, and can fill in missing values from live weather data
and regional soil averages.

Quick start:
  indradhanu autofill pune             # fetch weather + soil defaults for Pune
  indradhanu recommend --city pune     # auto-fill, predict, and rank crops
  indradhanu report --out report.html  # render the latest run as a printable report`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildDeps resolves config and constructs the dependency container.
// Called at the start of each command's RunE.
func buildDeps() (*app.Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Apply CLI flag overrides
	cfg.Quiet = globalFlags.Quiet
	cfg.Verbose = globalFlags.Verbose
	cfg.Debug = globalFlags.Debug

	if globalFlags.Format != "" {
		cfg.Format = globalFlags.Format
	}
	if globalFlags.Timeout != "" {
		if d, err2 := time.ParseDuration(globalFlags.Timeout); err2 == nil {
			cfg.Timeout = d
		}
	}
	if globalFlags.Rate > 0 {
		cfg.Rate = globalFlags.Rate
	}

	if cfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	return app.New(cfg)
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&globalFlags.Format, "format", "",
		"output format: table|json|csv|tsv (default: table)")
	pf.StringVar(&globalFlags.Out, "out", "",
		"write output to file instead of stdout")
	pf.StringVar(&globalFlags.Timeout, "timeout", "",
		"HTTP request timeout (e.g. 10s, 1m)")
	pf.Float64Var(&globalFlags.Rate, "rate", 0,
		"max prediction requests per second (default: 5.0)")
	pf.BoolVar(&globalFlags.Quiet, "quiet", false,
		"suppress all non-error output")
	pf.BoolVar(&globalFlags.Verbose, "verbose", false,
		"show timing stats after output")
	pf.BoolVar(&globalFlags.Debug, "debug", false,
		"log HTTP requests and responses")
}
