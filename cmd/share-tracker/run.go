// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/share-tracker/internal/baseline"
	"github.com/pdiddy/share-tracker/internal/history"
	"github.com/pdiddy/share-tracker/internal/output"
	"github.com/pdiddy/share-tracker/internal/pdftext"
	"github.com/pdiddy/share-tracker/internal/pipeline"
	"github.com/pdiddy/share-tracker/pkg/types"
)

func init() {
	f := rootCmd.Flags()
	f.String("output-file", "extracted_data.json", "JSON dataset filename inside output-dir")
	f.StringSlice("format", []string{"json"}, "output formats: json, yaml, csv, xlsx (json is always written)")
	f.String("backend", "pdf", "text extraction backend: pdf or markitdown")
	f.String("runtime", "", "container runtime for markitdown: docker or podman (default: detect)")
	f.Float64("placeholder-change", types.DefaultPlaceholderChange, "change value for non-final baseline points")

	bindFlags(f, map[string]string{
		"output_file":        "output-file",
		"formats":            "format",
		"backend":            "backend",
		"container_runtime":  "runtime",
		"placeholder_change": "placeholder-change",
	})
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := newLogger()
	out := cmd.OutOrStdout()

	ext, err := pdftext.New(cfg.Backend, cfg.ContainerRuntime)
	if err != nil {
		return err
	}

	p := pipeline.New(ext, baseline.Default(), cfg, log)

	fmt.Fprintf(out, "extracting market share from %s (%s backend)\n\n", cfg.BaseDir, cfg.Backend)
	started := time.Now()
	res, err := p.Run(cmd.Context(), out)
	if err != nil {
		return err
	}

	written, err := output.Write(res.Dataset, cfg)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Fprintf(out, "\nwrote %s", path)
	}
	fmt.Fprintln(out)

	recordRun(cmd.Context(), cfg, res, started, out, log)

	pipeline.WriteSummary(out, p.Countries, res)
	return nil
}

// recordRun stores the run in the history database. Failures are logged and
// never fail the command; the dataset file is already written.
func recordRun(ctx context.Context, cfg types.PipelineConfig, res pipeline.Result, started time.Time, w io.Writer, log *slog.Logger) {
	path := cfg.HistoryPath()
	if path == "" {
		return
	}

	store, err := history.Open(path)
	if err != nil {
		log.Warn("opening run history", slog.String("path", path), slog.Any("error", err))
		return
	}
	defer store.Close()

	run, err := store.Record(ctx, history.Meta{
		RecordedAt: started,
		BaseDir:    cfg.BaseDir,
		Backend:    cfg.Backend,
	}, res.Dataset, res.Outcomes)
	if err != nil {
		log.Warn("recording run", slog.String("path", path), slog.Any("error", err))
		return
	}
	fmt.Fprintf(w, "recorded run %d in %s\n", run.ID, path)
}
