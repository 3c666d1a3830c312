// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/share-tracker/internal/locate"
	"github.com/pdiddy/share-tracker/pkg/types"
)

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List period directories under the base dir",
	Long: `Periods compares the directories under the base dir named like a
reporting period ("P7 - 2025") with the canonical period list. Canonical
periods with no directory are reported as missing; extra directories are
listed as ignored.`,
	Args: cobra.NoArgs,
	RunE: runPeriods,
}

func runPeriods(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	out := cmd.OutOrStdout()

	statuses, err := locate.Survey(cfg.BaseDir, types.CanonicalPeriods)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%-12s  %-8s  %s\n", "Period", "Status", "Reports")
	fmt.Fprintln(out, strings.Repeat("-", 40))

	missing := 0
	for _, st := range statuses {
		status := "present"
		switch {
		case !st.Canonical:
			status = "ignored"
		case !st.Present:
			status = "missing"
			missing++
		}
		fmt.Fprintf(out, "%-12s  %-8s  %s\n", st.Period, status, reportCoverage(cfg.BaseDir, st))
	}

	fmt.Fprintf(out, "\n%d canonical periods, %d missing\n", len(types.CanonicalPeriods), missing)
	return nil
}

// reportCoverage counts the tracked countries with a report in the period.
func reportCoverage(baseDir string, st locate.PeriodStatus) string {
	if !st.Present {
		return "-"
	}
	found := 0
	for _, c := range types.TrackedCountries {
		if _, ok, err := locate.Find(baseDir, st.Period, c.Name); err == nil && ok {
			found++
		}
	}
	return fmt.Sprintf("%d/%d", found, len(types.TrackedCountries))
}

func init() {
	rootCmd.AddCommand(periodsCmd)
}
