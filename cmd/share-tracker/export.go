// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/share-tracker/internal/output"
	"github.com/pdiddy/share-tracker/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Re-export the latest recorded run",
	Long: `Export reads the dataset stored by the most recent run and writes it
again in the requested formats, without reparsing any reports. The JSON
dataset is always rewritten alongside the other formats.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	run, ds, _, err := store.LatestDataset(cmd.Context())
	if err != nil {
		return err
	}

	cfg := loadConfig()
	formats, _ := cmd.Flags().GetStringSlice("format")
	cfg.Formats = nil
	for _, f := range formats {
		cfg.Formats = append(cfg.Formats, types.OutputFormat(f))
	}
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.OutputDir = dir
	}

	written, err := output.Write(ds, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, path := range written {
		fmt.Fprintf(out, "Exported run %d to %s\n", run.ID, path)
	}
	return nil
}

func init() {
	exportCmd.Flags().StringSlice("format", []string{"yaml", "csv", "xlsx"}, "formats to write: json, yaml, csv, xlsx")
	exportCmd.Flags().String("dir", "", "write to this directory instead of output-dir")

	rootCmd.AddCommand(exportCmd)
}
