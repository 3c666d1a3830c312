// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locate finds report documents in the period directory tree. Each
// period has its own directory under the base dir; a country's report is a
// PDF whose filename contains the country's display name, for example
// "STARLA_RTD - 2025 - P7 - Germany.pdf".
package locate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// periodDirRe matches period directory names like "P7 - 2025".
var periodDirRe = regexp.MustCompile(`^P\d+ - 20\d{2}$`)

// formatMarker marks layout templates that share the report naming scheme
// but carry no figures.
const formatMarker = "Format"

// Candidates returns every report in baseDir/period whose name contains
// country, ignoring case, sorted lexically. A missing period directory yields no candidates
// and no error.
func Candidates(baseDir, period, country string) ([]string, error) {
	dir := filepath.Join(baseDir, period)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading period directory %s: %w", dir, err)
	}

	want := strings.ToLower(country)
	var matches []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}
		if !strings.Contains(strings.ToLower(name), want) || strings.Contains(name, formatMarker) {
			continue
		}
		matches = append(matches, filepath.Join(dir, name))
	}
	sort.Strings(matches)
	return matches, nil
}

// Find returns the first candidate report for country in period. found is
// false when no file matches.
func Find(baseDir, period, country string) (path string, found bool, err error) {
	matches, err := Candidates(baseDir, period, country)
	if err != nil || len(matches) == 0 {
		return "", false, err
	}
	return matches[0], true, nil
}

// Periods lists the directories under baseDir named like a reporting
// period, sorted lexically.
func Periods(baseDir string) ([]string, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("reading base directory %s: %w", baseDir, err)
	}
	var periods []string
	for _, e := range entries {
		if e.IsDir() && periodDirRe.MatchString(e.Name()) {
			periods = append(periods, e.Name())
		}
	}
	sort.Strings(periods)
	return periods, nil
}

// PeriodStatus describes one period directory relative to the canonical list.
type PeriodStatus struct {
	Period    string
	Present   bool
	Canonical bool
}

// Survey compares the period directories on disk with canonical. Canonical
// periods come first in canonical order, then any extra directories found on
// disk that the pipeline will ignore.
func Survey(baseDir string, canonical []string) ([]PeriodStatus, error) {
	onDisk, err := Periods(baseDir)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(onDisk))
	for _, p := range onDisk {
		present[p] = true
	}

	statuses := make([]PeriodStatus, 0, len(canonical)+len(onDisk))
	known := make(map[string]bool, len(canonical))
	for _, p := range canonical {
		known[p] = true
		statuses = append(statuses, PeriodStatus{Period: p, Present: present[p], Canonical: true})
	}
	for _, p := range onDisk {
		if !known[p] {
			statuses = append(statuses, PeriodStatus{Period: p, Present: true})
		}
	}
	return statuses, nil
}
