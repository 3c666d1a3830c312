// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile decides what, if anything, is recorded for one
// (country, period) pair given the extraction outcome and the baseline.
//
// Precedence, evaluated in order:
//  1. a document was found and a share was extracted: record the extracted
//     share and the extracted change (zero when absent);
//  2. a document was found but no share came out of it, and the baseline
//     trend covers the period index: record the baseline trend value, with
//     the baseline's latest change on the final canonical period and the
//     placeholder change elsewhere;
//  3. otherwise record nothing and leave the period to the country-level
//     fallback.
package reconcile

import "github.com/pdiddy/share-tracker/pkg/types"

// Action is the path the decision took.
type Action string

const (
	ActionExtracted   Action = "extracted"
	ActionSubstituted Action = "substituted"
	ActionSkipped     Action = "skipped"
)

// SkipReason explains an ActionSkipped decision.
type SkipReason string

const (
	ReasonNone       SkipReason = ""
	ReasonNoDocument SkipReason = "no document"
	ReasonNoBaseline SkipReason = "no baseline coverage"
)

// Input carries everything known about one (country, period) attempt.
type Input struct {
	Period      string
	PeriodIndex int
	PeriodCount int

	// DocumentFound reports whether a report matched the country in the
	// period directory.
	DocumentFound bool

	// Result is the parser output, or nil when no text was obtained.
	Result *types.ExtractionResult

	// Baseline is the country's baseline entry, or nil when there is none.
	Baseline *types.BaselineEntry

	// Placeholder is the change value for non-final baseline points.
	Placeholder float64
}

// Decision is the outcome for one period. Share and Change are meaningful
// only when Record reports true.
type Decision struct {
	Period string
	Action Action
	Reason SkipReason
	Share  float64
	Change float64

	// ChangeMissing is set on extracted points whose change defaulted to zero.
	ChangeMissing bool
}

// Record reports whether the decision contributes a point to the series.
func (d Decision) Record() bool {
	return d.Action != ActionSkipped
}

// Source maps the decision onto the series provenance tag.
func (d Decision) Source() types.PointSource {
	if d.Action == ActionSubstituted {
		return types.SourceBaselinePeriod
	}
	return types.SourceExtracted
}

// Decide applies the precedence rules to in.
func Decide(in Input) Decision {
	d := Decision{Period: in.Period}

	if !in.DocumentFound {
		d.Action = ActionSkipped
		d.Reason = ReasonNoDocument
		return d
	}

	if in.Result != nil && in.Result.Share != nil {
		d.Action = ActionExtracted
		d.Share = *in.Result.Share
		if in.Result.Change != nil {
			d.Change = *in.Result.Change
		} else {
			d.ChangeMissing = true
		}
		return d
	}

	if in.Baseline == nil || in.PeriodIndex < 0 || in.PeriodIndex >= len(in.Baseline.Trend) {
		d.Action = ActionSkipped
		d.Reason = ReasonNoBaseline
		return d
	}

	d.Action = ActionSubstituted
	d.Share = in.Baseline.Trend[in.PeriodIndex]
	d.Change = ChangeFor(in.PeriodIndex == in.PeriodCount-1, *in.Baseline, in.Placeholder)
	return d
}

// ChangeFor returns the change value for a baseline-derived point: the
// baseline's latest change when final is set, the placeholder otherwise.
func ChangeFor(final bool, e types.BaselineEntry, placeholder float64) float64 {
	if final {
		return e.LatestChange
	}
	return placeholder
}
