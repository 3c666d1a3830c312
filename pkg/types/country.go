// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data model shared by the pipeline stages: tracked
// countries, canonical periods, extraction results, baseline entries, and the
// per-country series that make up the extracted dataset.
package types

import "strings"

// Country is a tracked market, identified by its display name.
type Country struct {
	// Name is the display name as it appears in report filenames (e.g. "United Kingdom").
	Name string `json:"name" yaml:"name"`
}

// Key returns the normalized lookup key: lowercase with spaces removed
// ("United Kingdom" -> "unitedkingdom").
func (c Country) Key() string {
	return strings.ReplaceAll(strings.ToLower(c.Name), " ", "")
}

// TrackedCountries is the fixed set of markets the pipeline reports on, in
// processing order.
var TrackedCountries = []Country{
	{Name: "Germany"},
	{Name: "United Kingdom"},
	{Name: "Italy"},
	{Name: "France"},
	{Name: "Spain"},
	{Name: "Netherlands"},
}

// CanonicalPeriods is the chronological sequence of reporting periods. Each
// label is also the name of the period's directory under the base dir.
// Baseline trends are aligned index-for-index with this slice.
var CanonicalPeriods = []string{
	"P11 - 2024",
	"P12 - 2024",
	"P13 - 2024",
	"P1 - 2025",
	"P2 - 2025",
	"P3 - 2025",
	"P4 - 2025",
	"P5 - 2025",
	"P6 - 2025",
	"P7 - 2025",
}
