// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/share-tracker/internal/baseline"
	"github.com/pdiddy/share-tracker/pkg/types"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Print the verified baseline table",
	Long: `Baseline prints the compiled-in fallback data for each tracked
country: the latest verified share and change, and the share trend aligned
with the canonical periods. Countries without an entry get no fallback.`,
	Args: cobra.NoArgs,
	RunE: runBaseline,
}

func runBaseline(cmd *cobra.Command, args []string) error {
	store := baseline.Default()
	out := cmd.OutOrStdout()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		table := make(map[string]types.BaselineEntry)
		for _, key := range store.Keys() {
			e, _ := store.Lookup(key)
			table[key] = e
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	}

	fmt.Fprintf(out, "%-16s  %-6s  %-7s  %-6s  %s\n", "Country", "Share", "Change", "Trend", "Range")
	fmt.Fprintln(out, strings.Repeat("-", 60))

	for _, c := range types.TrackedCountries {
		e, ok := store.Lookup(c.Key())
		if !ok {
			fmt.Fprintf(out, "%-16s  (no baseline)\n", c.Name)
			continue
		}
		span := "-"
		if n := len(e.Trend); n > 0 {
			span = fmt.Sprintf("%s .. %s", types.CanonicalPeriods[0], types.CanonicalPeriods[min(n, len(types.CanonicalPeriods))-1])
		}
		fmt.Fprintf(out, "%-16s  %-6g  %-7g  %-6d  %s\n", c.Name, e.LatestShare, e.LatestChange, len(e.Trend), span)
	}
	return nil
}

func init() {
	baselineCmd.Flags().Bool("json", false, "output the table as JSON")

	rootCmd.AddCommand(baselineCmd)
}
