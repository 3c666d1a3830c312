// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/share-tracker/internal/history"
	"github.com/pdiddy/share-tracker/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs or show a country's latest stored series",
	Long: `History reads the run-history database written by each pipeline run.
Without flags it lists recent runs with their point counts. With --country it
prints the series recorded for that country in the latest run, including
where each point came from.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	country, _ := cmd.Flags().GetString("country")
	if country != "" {
		return printCountryHistory(cmd, store, out, country)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(out, "%-5s  %-20s  %-10s  %-6s  %-11s  %-8s  %s\n",
		"Run", "Recorded", "Backend", "Points", "Substituted", "Baseline", "Empty")
	fmt.Fprintln(out, strings.Repeat("-", 80))
	for _, r := range runs {
		fmt.Fprintf(out, "%-5d  %-20s  %-10s  %-6d  %-11d  %-8d  %d\n",
			r.ID, r.RecordedAt.Local().Format(time.DateTime), r.Backend,
			r.Points, r.Substituted, r.BaselineSeries, r.Empty)
	}
	return nil
}

func printCountryHistory(cmd *cobra.Command, store *history.Store, out io.Writer, country string) error {
	key := types.Country{Name: country}.Key()

	run, ds, outcomes, err := store.LatestDataset(cmd.Context())
	if err != nil {
		return err
	}
	s, ok := ds[key]
	if !ok {
		return fmt.Errorf("country %q not recorded in run %d", country, run.ID)
	}

	fmt.Fprintf(out, "%s, run %d (%s)\n\n", s.Name, run.ID, outcomes[key])
	if s.Len() == 0 {
		fmt.Fprintln(out, "No periods recorded.")
		return nil
	}
	fmt.Fprintf(out, "%-12s  %-6s  %-7s  %s\n", "Period", "Share", "Change", "Source")
	fmt.Fprintln(out, strings.Repeat("-", 48))
	for i, period := range s.Periods {
		var src types.PointSource
		if i < len(s.Sources) {
			src = s.Sources[i]
		}
		fmt.Fprintf(out, "%-12s  %-6g  %-7g  %s\n", period, s.ShareValues[i], s.ChangeValues[i], src)
	}
	return nil
}

// openHistory opens the configured run-history database.
func openHistory() (*history.Store, error) {
	path := loadConfig().HistoryPath()
	if path == "" {
		return nil, errors.New("run history is disabled (history_db is empty)")
	}
	return history.Open(path)
}

func init() {
	historyCmd.Flags().String("country", "", "show the latest recorded series for a country (e.g. \"United Kingdom\")")
	historyCmd.Flags().Int("limit", 20, "maximum runs to list (0 = all)")

	rootCmd.AddCommand(historyCmd)
}
