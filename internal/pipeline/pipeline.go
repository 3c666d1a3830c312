// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs extraction and reconciliation over every tracked
// country and canonical period and assembles the extracted dataset.
// Countries and periods are processed one at a time, in order, on the
// calling goroutine.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdiddy/share-tracker/internal/baseline"
	"github.com/pdiddy/share-tracker/internal/locate"
	"github.com/pdiddy/share-tracker/internal/parse"
	"github.com/pdiddy/share-tracker/internal/pdftext"
	"github.com/pdiddy/share-tracker/internal/reconcile"
	"github.com/pdiddy/share-tracker/internal/series"
	"github.com/pdiddy/share-tracker/pkg/types"
)

// Summary counts what happened across a run.
type Summary struct {
	Documents      int // reports located
	ReadFailures   int // reports whose text could not be read
	Misses         int // reports read but with no share pattern
	Extracted      int // points recorded from reports
	Substituted    int // points recorded from the baseline trend
	Missing        int // (country, period) pairs with no report
	BaselineSeries int // countries given the full baseline series
	Empty          int // countries left with no points
}

// Result is the outcome of a run.
type Result struct {
	Dataset  types.ExtractedDataset
	Outcomes map[string]series.Outcome
	Summary  Summary
}

// Pipeline holds the collaborators for a run.
type Pipeline struct {
	Extractor   pdftext.Extractor
	Baseline    *baseline.Store
	Countries   []types.Country
	Periods     []string
	BaseDir     string
	Placeholder float64
	Log         *slog.Logger
}

// New returns a pipeline over the tracked countries and canonical periods.
func New(ext pdftext.Extractor, store *baseline.Store, cfg types.PipelineConfig, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	if store == nil {
		store = baseline.Default()
	}
	cfg = cfg.WithDefaults()
	return &Pipeline{
		Extractor:   ext,
		Baseline:    store,
		Countries:   types.TrackedCountries,
		Periods:     types.CanonicalPeriods,
		BaseDir:     cfg.BaseDir,
		Placeholder: cfg.Placeholder(),
		Log:         log,
	}
}

// Run processes every country and writes per-document progress lines to w.
// Nothing in the pipeline is fatal; the only error returned is ctx's.
func (p *Pipeline) Run(ctx context.Context, w io.Writer) (Result, error) {
	res := Result{
		Dataset:  make(types.ExtractedDataset, len(p.Countries)),
		Outcomes: make(map[string]series.Outcome, len(p.Countries)),
	}

	p.checkPeriodDirs()

	for _, country := range p.Countries {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		s, outcome, err := p.runCountry(ctx, country, w, &res.Summary)
		if err != nil {
			return res, err
		}
		res.Dataset[country.Key()] = s
		res.Outcomes[country.Key()] = outcome
	}

	return res, nil
}

func (p *Pipeline) runCountry(ctx context.Context, country types.Country, w io.Writer, sum *Summary) (*types.CountrySeries, series.Outcome, error) {
	var entry *types.BaselineEntry
	if e, ok := p.Baseline.Lookup(country.Key()); ok {
		entry = &e
	}

	b := series.NewBuilder(country)
	for i, period := range p.Periods {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		d := p.decide(country, period, i, entry, w, sum)
		b.Add(d)
	}

	s, outcome := b.Finish(entry, p.Periods, p.Placeholder)
	switch outcome {
	case series.OutcomeBaseline:
		sum.BaselineSeries++
		fmt.Fprintf(w, "baseline: %s produced no data; using verified series (%d periods)\n", country.Name, s.Len())
		p.Log.Info("baseline series injected", slog.String("country", country.Key()), slog.Int("periods", s.Len()))
	case series.OutcomeEmpty:
		sum.Empty++
		p.Log.Warn("no data and no baseline coverage", slog.String("country", country.Key()))
	}
	return s, outcome, nil
}

// decide locates, reads, and parses one report and reconciles the result.
func (p *Pipeline) decide(country types.Country, period string, idx int, entry *types.BaselineEntry, w io.Writer, sum *Summary) reconcile.Decision {
	in := reconcile.Input{
		Period:      period,
		PeriodIndex: idx,
		PeriodCount: len(p.Periods),
		Baseline:    entry,
		Placeholder: p.Placeholder,
	}

	path, found, err := locate.Find(p.BaseDir, period, country.Name)
	if err != nil {
		p.Log.Warn("locating report", slog.String("country", country.Key()), slog.String("period", period), slog.Any("error", err))
	}
	if !found {
		sum.Missing++
		p.Log.Debug("no report", slog.String("country", country.Key()), slog.String("period", period))
		return reconcile.Decide(in)
	}

	sum.Documents++
	in.DocumentFound = true
	fmt.Fprintf(w, "processing: %s - %s\n", period, country.Name)

	text, err := pdftext.Read(p.Extractor, path)
	if err != nil {
		sum.ReadFailures++
		p.Log.Warn("reading report", slog.String("path", path), slog.Any("error", err))
	} else {
		r := parse.Fields(text)
		in.Result = &r
		if r.Share == nil {
			sum.Misses++
		}
	}

	d := reconcile.Decide(in)
	switch d.Action {
	case reconcile.ActionExtracted:
		sum.Extracted++
		fmt.Fprintf(w, "  extracted:   share %g%% | change %gpp\n", d.Share, d.Change)
		if d.ChangeMissing {
			p.Log.Debug("no change pattern, recording 0",
				slog.String("country", country.Key()), slog.String("period", period), slog.String("path", path))
		}
	case reconcile.ActionSubstituted:
		sum.Substituted++
		fmt.Fprintf(w, "  failed:      could not extract data\n")
		fmt.Fprintf(w, "  substituted: baseline share %g%% | change %gpp\n", d.Share, d.Change)
	default:
		fmt.Fprintf(w, "  failed:      could not extract data (%s)\n", d.Reason)
	}
	return d
}

// checkPeriodDirs warns about canonical periods with no directory and about
// period directories the run will ignore.
func (p *Pipeline) checkPeriodDirs() {
	statuses, err := locate.Survey(p.BaseDir, p.Periods)
	if err != nil {
		p.Log.Warn("surveying period directories", slog.Any("error", err))
		return
	}
	for _, st := range statuses {
		switch {
		case st.Canonical && !st.Present:
			p.Log.Warn("period directory missing", slog.String("period", st.Period))
		case !st.Canonical:
			p.Log.Info("ignoring non-canonical period directory", slog.String("period", st.Period))
		}
	}
}

// WriteSummary prints the per-country period count and latest values, in
// tracked-country order.
func WriteSummary(w io.Writer, countries []types.Country, res Result) {
	fmt.Fprintln(w, "\nData summary:")
	for _, c := range countries {
		s, ok := res.Dataset[c.Key()]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "\n%s (%s):\n", s.Name, res.Outcomes[c.Key()])
		fmt.Fprintf(w, "  Periods: %d\n", s.Len())
		if share, change, ok := s.Latest(); ok {
			fmt.Fprintf(w, "  Latest Share: %g%%\n", share)
			fmt.Fprintf(w, "  Latest Change: %gpp\n", change)
		}
	}

	sum := res.Summary
	fmt.Fprintf(w, "\nreports: %d found, %d missing, %d unreadable, %d without share\n",
		sum.Documents, sum.Missing, sum.ReadFailures, sum.Misses)
	fmt.Fprintf(w, "points: %d extracted, %d substituted; countries: %d baseline, %d empty\n",
		sum.Extracted, sum.Substituted, sum.BaselineSeries, sum.Empty)
}
