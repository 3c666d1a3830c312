// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the share-tracker CLI. With no
// subcommand it runs the full extraction pipeline over the period
// directories and writes the dataset for the dashboard.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the share-tracker CLI.
var rootCmd = &cobra.Command{
	Use:   "share-tracker",
	Short: "Extract per-country market share from period reports",
	Long: `share-tracker scans one directory per reporting period for country
report PDFs, extracts the market share and period-over-period change from
each, fills gaps from a verified baseline, and writes one time series per
country to a JSON file for the dashboard.

Run with no arguments to process every tracked country over the canonical
periods. Subcommands inspect the period tree and the baseline table, or
browse and re-export past runs.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runPipeline,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./share-tracker.yaml or ~/.config/share-tracker/share-tracker.yaml)")
	pf.BoolP("verbose", "v", false, "log debug diagnostics to stderr")
	pf.String("base-dir", ".", "directory containing one subdirectory per period")
	pf.String("output-dir", "starla-platform", "directory for the dataset files and run history")
	pf.String("history-db", "share-history.db", "run-history database, relative to output-dir (empty disables)")

	bindFlags(pf, map[string]string{
		"verbose":    "verbose",
		"base_dir":   "base-dir",
		"output_dir": "output-dir",
		"history_db": "history-db",
	})
}

// bindFlags binds config keys to the named flags in fs.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("share-tracker")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "share-tracker"))
		}
	}

	viper.SetEnvPrefix("SHARE_TRACKER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger returns the diagnostics logger: text on stderr, info level, or
// debug with --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
