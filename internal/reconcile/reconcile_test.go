// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/share-tracker/pkg/types"
)

func f(v float64) *float64 { return &v }

var tenPeriodBaseline = &types.BaselineEntry{
	LatestShare:  15.3,
	LatestChange: 2.3,
	Trend:        []float64{12.1, 12.4, 12.6, 12.9, 13.2, 13.6, 14.0, 14.4, 14.9, 15.3},
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		in         Input
		wantAction Action
		wantReason SkipReason
		wantShare  float64
		wantChange float64
		wantMiss   bool
	}{
		{
			name: "extracted share and change",
			in: Input{
				Period: "P7 - 2025", PeriodIndex: 9, PeriodCount: 10, DocumentFound: true,
				Result:   &types.ExtractionResult{Share: f(15.3), Change: f(2.3)},
				Baseline: tenPeriodBaseline, Placeholder: 0.1,
			},
			wantAction: ActionExtracted, wantShare: 15.3, wantChange: 2.3,
		},
		{
			name: "extracted share without change defaults to zero",
			in: Input{
				Period: "P2 - 2025", PeriodIndex: 4, PeriodCount: 10, DocumentFound: true,
				Result: &types.ExtractionResult{Share: f(12.8)}, Placeholder: 0.1,
			},
			wantAction: ActionExtracted, wantShare: 12.8, wantChange: 0, wantMiss: true,
		},
		{
			name: "extraction beats baseline",
			in: Input{
				Period: "P1 - 2025", PeriodIndex: 3, PeriodCount: 10, DocumentFound: true,
				Result:   &types.ExtractionResult{Share: f(40), Change: f(-1)},
				Baseline: tenPeriodBaseline, Placeholder: 0.1,
			},
			wantAction: ActionExtracted, wantShare: 40, wantChange: -1,
		},
		{
			name: "no text falls back to trend with placeholder",
			in: Input{
				Period: "P1 - 2025", PeriodIndex: 3, PeriodCount: 10, DocumentFound: true,
				Baseline: tenPeriodBaseline, Placeholder: 0.1,
			},
			wantAction: ActionSubstituted, wantShare: 12.9, wantChange: 0.1,
		},
		{
			name: "change only still substitutes share",
			in: Input{
				Period: "P3 - 2025", PeriodIndex: 5, PeriodCount: 10, DocumentFound: true,
				Result:   &types.ExtractionResult{Change: f(0.9)},
				Baseline: tenPeriodBaseline, Placeholder: 0.25,
			},
			wantAction: ActionSubstituted, wantShare: 13.6, wantChange: 0.25,
		},
		{
			name: "final period substitution uses latest change",
			in: Input{
				Period: "P7 - 2025", PeriodIndex: 9, PeriodCount: 10, DocumentFound: true,
				Result:   &types.ExtractionResult{},
				Baseline: tenPeriodBaseline, Placeholder: 0.1,
			},
			wantAction: ActionSubstituted, wantShare: 15.3, wantChange: 2.3,
		},
		{
			name: "trend too short",
			in: Input{
				Period: "P7 - 2025", PeriodIndex: 9, PeriodCount: 10, DocumentFound: true,
				Baseline: &types.BaselineEntry{Trend: []float64{1, 2, 3}}, Placeholder: 0.1,
			},
			wantAction: ActionSkipped, wantReason: ReasonNoBaseline,
		},
		{
			name: "no baseline entry",
			in: Input{
				Period: "P11 - 2024", PeriodIndex: 0, PeriodCount: 10, DocumentFound: true,
				Result: &types.ExtractionResult{}, Placeholder: 0.1,
			},
			wantAction: ActionSkipped, wantReason: ReasonNoBaseline,
		},
		{
			name: "no document defers to country fallback",
			in: Input{
				Period: "P11 - 2024", PeriodIndex: 0, PeriodCount: 10,
				Baseline: tenPeriodBaseline, Placeholder: 0.1,
			},
			wantAction: ActionSkipped, wantReason: ReasonNoDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.in)
			assert.Equal(t, tt.wantAction, d.Action)
			assert.Equal(t, tt.wantReason, d.Reason)
			assert.Equal(t, tt.in.Period, d.Period)
			assert.Equal(t, tt.wantAction != ActionSkipped, d.Record())
			if d.Record() {
				assert.InDelta(t, tt.wantShare, d.Share, 1e-9)
				assert.InDelta(t, tt.wantChange, d.Change, 1e-9)
			}
			assert.Equal(t, tt.wantMiss, d.ChangeMissing)
		})
	}
}

func TestDecisionSource(t *testing.T) {
	assert.Equal(t, types.SourceExtracted, Decision{Action: ActionExtracted}.Source())
	assert.Equal(t, types.SourceBaselinePeriod, Decision{Action: ActionSubstituted}.Source())
}

func TestChangeFor(t *testing.T) {
	e := types.BaselineEntry{LatestChange: -0.4}
	assert.InDelta(t, -0.4, ChangeFor(true, e, 0.1), 1e-9)
	assert.InDelta(t, 0.1, ChangeFor(false, e, 0.1), 1e-9)
}
