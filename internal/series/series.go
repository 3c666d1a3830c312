// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package series accumulates reconciliation decisions into one country's
// time series and applies the country-level baseline fallback once every
// period has been visited.
package series

import (
	"github.com/pdiddy/share-tracker/internal/reconcile"
	"github.com/pdiddy/share-tracker/pkg/types"
)

// Outcome classifies a finished country series.
type Outcome string

const (
	// OutcomeExtracted means every recorded point came from a report.
	OutcomeExtracted Outcome = "extracted"
	// OutcomePartial means at least one point was substituted from the baseline.
	OutcomePartial Outcome = "partial"
	// OutcomeBaseline means nothing was recorded and the whole baseline
	// trend was injected.
	OutcomeBaseline Outcome = "baseline"
	// OutcomeEmpty means nothing was recorded and no baseline exists.
	OutcomeEmpty Outcome = "empty"
)

// Builder collects the recorded points for one country in canonical order.
type Builder struct {
	series *types.CountrySeries
}

// NewBuilder starts an empty series for country.
func NewBuilder(country types.Country) *Builder {
	return &Builder{series: types.NewCountrySeries(country.Name)}
}

// Add records d when it carries a point. Skipped decisions leave the series
// untouched.
func (b *Builder) Add(d reconcile.Decision) {
	if !d.Record() {
		return
	}
	b.series.Append(d.Period, d.Share, d.Change, d.Source())
}

// Len returns the number of points recorded so far.
func (b *Builder) Len() int {
	return b.series.Len()
}

// Finish closes the series. When nothing was recorded and entry is non-nil,
// the series is rebuilt from the full baseline trend over periods: every
// point gets the placeholder change except the last, which gets the
// baseline's latest change. A trend shorter than periods yields a shorter
// series; extra trend values beyond the period list are ignored.
func (b *Builder) Finish(entry *types.BaselineEntry, periods []string, placeholder float64) (*types.CountrySeries, Outcome) {
	s := b.series

	if s.Len() > 0 {
		for _, src := range s.Sources {
			if src != types.SourceExtracted {
				return s, OutcomePartial
			}
		}
		return s, OutcomeExtracted
	}

	if entry == nil {
		return s, OutcomeEmpty
	}

	n := min(len(periods), len(entry.Trend))
	if n == 0 {
		return s, OutcomeEmpty
	}

	s.Reset()
	for i := 0; i < n; i++ {
		change := reconcile.ChangeFor(i == n-1, *entry, placeholder)
		s.Append(periods[i], entry.Trend[i], change, types.SourceBaselineSeries)
	}
	return s, OutcomeBaseline
}
