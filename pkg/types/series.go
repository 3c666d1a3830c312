// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExtractionResult holds the fields parsed from one report's text. Either
// field may be absent independently of the other.
type ExtractionResult struct {
	// Share is the market-share percentage, nil when no pattern matched.
	Share *float64 `json:"share,omitempty" yaml:"share,omitempty"`

	// Change is the period-over-period change in percentage points, nil when
	// no pattern matched.
	Change *float64 `json:"change,omitempty" yaml:"change,omitempty"`
}

// BaselineEntry is the verified fallback data for one country.
type BaselineEntry struct {
	// LatestShare is the most recent verified share percentage.
	LatestShare float64 `json:"latest_share" yaml:"latest_share"`

	// LatestChange is the most recent verified change in percentage points.
	LatestChange float64 `json:"latest_change" yaml:"latest_change"`

	// Trend holds one share value per canonical period, index-aligned with
	// CanonicalPeriods. It may be shorter than the period list.
	Trend []float64 `json:"trend" yaml:"trend"`
}

// PointSource records where a recorded point came from.
type PointSource string

const (
	SourceExtracted      PointSource = "extracted"
	SourceBaselinePeriod PointSource = "baseline-period"
	SourceBaselineSeries PointSource = "baseline-series"
)

// CountrySeries is the ordered time series for one country. Periods,
// ShareValues, and ChangeValues always have equal length; mutate them only
// through Append and Reset.
type CountrySeries struct {
	Name         string    `json:"name" yaml:"name"`
	Periods      []string  `json:"periods" yaml:"periods"`
	ShareValues  []float64 `json:"share_values" yaml:"share_values"`
	ChangeValues []float64 `json:"change_values" yaml:"change_values"`

	// Sources runs in lockstep with the other slices. It is provenance for
	// the run history and the flat exports, not part of the JSON document.
	Sources []PointSource `json:"-" yaml:"-"`
}

// NewCountrySeries returns an empty series with non-nil slices so that it
// serializes as empty lists rather than null.
func NewCountrySeries(name string) *CountrySeries {
	return &CountrySeries{
		Name:         name,
		Periods:      []string{},
		ShareValues:  []float64{},
		ChangeValues: []float64{},
		Sources:      []PointSource{},
	}
}

// Append records one fully-present period.
func (s *CountrySeries) Append(period string, share, change float64, src PointSource) {
	s.Periods = append(s.Periods, period)
	s.ShareValues = append(s.ShareValues, share)
	s.ChangeValues = append(s.ChangeValues, change)
	s.Sources = append(s.Sources, src)
}

// Reset discards every recorded point, keeping the name.
func (s *CountrySeries) Reset() {
	s.Periods = []string{}
	s.ShareValues = []float64{}
	s.ChangeValues = []float64{}
	s.Sources = []PointSource{}
}

// Len returns the number of recorded periods.
func (s *CountrySeries) Len() int {
	return len(s.Periods)
}

// Latest returns the last recorded share and change. ok is false for an
// empty series.
func (s *CountrySeries) Latest() (share, change float64, ok bool) {
	n := s.Len()
	if n == 0 {
		return 0, 0, false
	}
	return s.ShareValues[n-1], s.ChangeValues[n-1], true
}

// ExtractedDataset maps a country key to its series. Every tracked country
// has an entry, even when its series is empty.
type ExtractedDataset map[string]*CountrySeries
