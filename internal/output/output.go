// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output serializes the extracted dataset. JSON is the primary
// document consumed by the dashboard; YAML, CSV, and XLSX are optional
// companions written alongside it under the same base name.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/share-tracker/pkg/types"
)

const (
	seriesSheet = "Series"
	latestSheet = "Latest"
)

// Row is one recorded point in the flat exports.
type Row struct {
	Country string  `csv:"country"`
	Key     string  `csv:"key"`
	Period  string  `csv:"period"`
	Share   float64 `csv:"share"`
	Change  float64 `csv:"change"`
	Source  string  `csv:"source"`
}

// Rows flattens ds in the order of countries, then period order within each
// series. Countries missing from ds are skipped.
func Rows(ds types.ExtractedDataset, countries []types.Country) []Row {
	var rows []Row
	for _, c := range countries {
		s, ok := ds[c.Key()]
		if !ok {
			continue
		}
		for i, period := range s.Periods {
			var src string
			if i < len(s.Sources) {
				src = string(s.Sources[i])
			}
			rows = append(rows, Row{
				Country: s.Name,
				Key:     c.Key(),
				Period:  period,
				Share:   s.ShareValues[i],
				Change:  s.ChangeValues[i],
				Source:  src,
			})
		}
	}
	return rows
}

// JSON renders ds with two-space indentation. Map keys are emitted in sorted
// order, so equal datasets render to identical bytes.
func JSON(ds types.ExtractedDataset) ([]byte, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// YAML renders ds as a YAML mapping keyed by country key.
func YAML(ds types.ExtractedDataset) ([]byte, error) {
	data, err := yaml.Marshal(ds)
	if err != nil {
		return nil, fmt.Errorf("marshaling YAML: %w", err)
	}
	return data, nil
}

// CSV renders rows with a header line.
func CSV(rows []Row) ([]byte, error) {
	if rows == nil {
		rows = []Row{}
	}
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("marshaling CSV: %w", err)
	}
	return data, nil
}

// XLSX renders a workbook with every point on the Series sheet and one line
// per country on the Latest sheet.
func XLSX(ds types.ExtractedDataset, countries []types.Country) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", seriesSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	if err := writeSheet(f, seriesSheet,
		[]any{"Country", "Key", "Period", "Share (%)", "Change (pp)", "Source"},
		seriesRows(Rows(ds, countries))); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(latestSheet); err != nil {
		return nil, fmt.Errorf("adding sheet: %w", err)
	}
	if err := writeSheet(f, latestSheet,
		[]any{"Country", "Periods", "Latest Share (%)", "Latest Change (pp)"},
		latestRows(ds, countries)); err != nil {
		return nil, err
	}

	_ = f.SetColWidth(seriesSheet, "A", "B", 18)
	_ = f.SetColWidth(seriesSheet, "C", "C", 12)
	_ = f.SetColWidth(seriesSheet, "F", "F", 16)
	_ = f.SetColWidth(latestSheet, "A", "A", 18)
	_ = f.SetColWidth(latestSheet, "C", "D", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func seriesRows(rows []Row) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{r.Country, r.Key, r.Period, r.Share, r.Change, r.Source}
	}
	return out
}

func latestRows(ds types.ExtractedDataset, countries []types.Country) [][]any {
	var out [][]any
	for _, c := range countries {
		s, ok := ds[c.Key()]
		if !ok {
			continue
		}
		share, change, ok := s.Latest()
		if !ok {
			out = append(out, []any{s.Name, 0})
			continue
		}
		out = append(out, []any{s.Name, s.Len(), share, change})
	}
	return out
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

// Render serializes ds in format.
func Render(ds types.ExtractedDataset, format types.OutputFormat) ([]byte, error) {
	switch format {
	case types.FormatJSON:
		return JSON(ds)
	case types.FormatYAML:
		return YAML(ds)
	case types.FormatCSV:
		return CSV(Rows(ds, types.TrackedCountries))
	case types.FormatXLSX:
		return XLSX(ds, types.TrackedCountries)
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// PathFor returns the file path for format: jsonPath itself for JSON, and
// jsonPath with its extension swapped otherwise.
func PathFor(jsonPath string, format types.OutputFormat) string {
	if format == types.FormatJSON {
		return jsonPath
	}
	return strings.TrimSuffix(jsonPath, filepath.Ext(jsonPath)) + "." + string(format)
}

// Write renders ds into cfg.OutputDir, creating the directory if needed.
// JSON is always written first; other formats follow in cfg.Formats order,
// each at most once. It returns the paths written.
func Write(ds types.ExtractedDataset, cfg types.PipelineConfig) ([]string, error) {
	cfg = cfg.WithDefaults()
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	jsonPath := filepath.Join(cfg.OutputDir, cfg.OutputFile)
	formats := append([]types.OutputFormat{types.FormatJSON}, cfg.Formats...)
	seen := make(map[types.OutputFormat]bool, len(formats))

	var written []string
	for _, format := range formats {
		if seen[format] {
			continue
		}
		seen[format] = true

		data, err := Render(ds, format)
		if err != nil {
			return written, err
		}
		path := PathFor(jsonPath, format)
		if err := writeFileIfChanged(path, data); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// writeFileIfChanged skips the write when path already holds data, so a
// rerun over unchanged inputs leaves the file's modification time alone.
func writeFileIfChanged(path string, data []byte) error {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return nil
	}
	return os.WriteFile(path, data, 0o644)
}
