// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/share-tracker/pkg/types"
)

func sampleDataset() types.ExtractedDataset {
	de := types.NewCountrySeries("Germany")
	de.Append("P6 - 2025", 14.9, 0.1, types.SourceBaselinePeriod)
	de.Append("P7 - 2025", 15.3, 2.3, types.SourceExtracted)

	uk := types.NewCountrySeries("United Kingdom")
	uk.Append("P7 - 2025", 18.7, -0.4, types.SourceBaselineSeries)

	return types.ExtractedDataset{
		"germany":       de,
		"unitedkingdom": uk,
		"netherlands":   types.NewCountrySeries("Netherlands"),
	}
}

func TestJSON(t *testing.T) {
	data, err := JSON(sampleDataset())
	require.NoError(t, err)

	s := string(data)
	assert.True(t, strings.HasPrefix(s, "{\n  \"germany\": {\n    \"name\": \"Germany\","), s)
	assert.Contains(t, s, `"netherlands": {`)
	assert.Contains(t, s, `"periods": []`)
	assert.NotContains(t, s, "null")
	assert.NotContains(t, s, "source")

	// keys are sorted
	assert.Less(t, strings.Index(s, `"germany"`), strings.Index(s, `"netherlands"`))
	assert.Less(t, strings.Index(s, `"netherlands"`), strings.Index(s, `"unitedkingdom"`))

	var back map[string]struct {
		Name         string    `json:"name"`
		Periods      []string  `json:"periods"`
		ShareValues  []float64 `json:"share_values"`
		ChangeValues []float64 `json:"change_values"`
	}
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []float64{14.9, 15.3}, back["germany"].ShareValues)
	assert.Equal(t, []float64{0.1, 2.3}, back["germany"].ChangeValues)
}

func TestJSONStable(t *testing.T) {
	a, err := JSON(sampleDataset())
	require.NoError(t, err)
	b, err := JSON(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestYAML(t *testing.T) {
	data, err := YAML(sampleDataset())
	require.NoError(t, err)

	var back types.ExtractedDataset
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "United Kingdom", back["unitedkingdom"].Name)
	assert.Equal(t, []float64{-0.4}, back["unitedkingdom"].ChangeValues)
}

func TestRowsAndCSV(t *testing.T) {
	rows := Rows(sampleDataset(), types.TrackedCountries)

	require.Len(t, rows, 3)
	assert.Equal(t, Row{Country: "Germany", Key: "germany", Period: "P6 - 2025", Share: 14.9, Change: 0.1, Source: "baseline-period"}, rows[0])
	assert.Equal(t, "unitedkingdom", rows[2].Key)

	data, err := CSV(rows)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "country,key,period,share,change,source", lines[0])

	var back []Row
	require.NoError(t, gocsv.UnmarshalBytes(data, &back))
	assert.Equal(t, rows, back)
}

func TestXLSX(t *testing.T) {
	data, err := XLSX(sampleDataset(), types.TrackedCountries)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(seriesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Country", rows[0][0])
	assert.Equal(t, []string{"Germany", "germany", "P7 - 2025", "15.3", "2.3", "extracted"}, rows[2])

	latest, err := f.GetRows(latestSheet)
	require.NoError(t, err)
	require.Len(t, latest, 4) // header, germany, unitedkingdom, netherlands
	assert.Equal(t, []string{"Netherlands", "0"}, latest[3])
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(sampleDataset(), "parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, "out/extracted_data.json", PathFor("out/extracted_data.json", types.FormatJSON))
	assert.Equal(t, "out/extracted_data.csv", PathFor("out/extracted_data.json", types.FormatCSV))
	assert.Equal(t, "out/extracted_data.xlsx", PathFor("out/extracted_data.json", types.FormatXLSX))
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "starla-platform")
	cfg := types.PipelineConfig{
		OutputDir: dir,
		Formats:   []types.OutputFormat{types.FormatCSV, types.FormatJSON, types.FormatCSV},
	}

	written, err := Write(sampleDataset(), cfg)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "extracted_data.json"),
		filepath.Join(dir, "extracted_data.csv"),
	}, written)
	for _, p := range written {
		assert.FileExists(t, p)
	}
}

func TestWriteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	cfg := types.PipelineConfig{OutputDir: dir}

	_, err := Write(sampleDataset(), cfg)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dir, "extracted_data.json"))
	require.NoError(t, err)

	_, err = Write(sampleDataset(), cfg)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "extracted_data.json"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWriteOverwritesChangedDataset(t *testing.T) {
	dir := t.TempDir()
	cfg := types.PipelineConfig{OutputDir: dir}
	path := filepath.Join(dir, "extracted_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := Write(sampleDataset(), cfg)

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Germany")
}

func TestJSONWholeNumbers(t *testing.T) {
	es := types.NewCountrySeries("Spain")
	es.Append("P7 - 2025", 12, 0, types.SourceExtracted)

	data, err := JSON(types.ExtractedDataset{"spain": es})
	require.NoError(t, err)

	assert.Contains(t, string(data), "\"share_values\": [\n      12\n    ]")

	var back types.ExtractedDataset
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []float64{12.0}, back["spain"].ShareValues)
}
