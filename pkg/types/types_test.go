package types

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Germany", "germany"},
		{"United Kingdom", "unitedkingdom"},
		{"Netherlands", "netherlands"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Country{Name: tt.name}.Key())
		})
	}
}

func TestTrackedCountryKeysUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range TrackedCountries {
		assert.False(t, seen[c.Key()], c.Key())
		seen[c.Key()] = true
	}
	assert.Len(t, CanonicalPeriods, 10)
}

func TestCountrySeriesLockstep(t *testing.T) {
	s := NewCountrySeries("Spain")
	_, _, ok := s.Latest()
	assert.False(t, ok)

	s.Append("P6 - 2025", 12.6, 0.1, SourceBaselinePeriod)
	s.Append("P7 - 2025", 12.8, 0.2, SourceExtracted)

	require.Equal(t, 2, s.Len())
	assert.Len(t, s.ShareValues, 2)
	assert.Len(t, s.ChangeValues, 2)
	assert.Len(t, s.Sources, 2)
	share, change, ok := s.Latest()
	assert.True(t, ok)
	assert.Equal(t, 12.8, share)
	assert.Equal(t, 0.2, change)

	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.ShareValues)
	assert.Empty(t, s.Sources)
	assert.Equal(t, "Spain", s.Name)
}

func TestCountrySeriesJSON(t *testing.T) {
	data, err := json.Marshal(NewCountrySeries("Netherlands"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Netherlands","periods":[],"share_values":[],"change_values":[]}`, string(data))
}

func TestPipelineConfigDefaults(t *testing.T) {
	cfg := PipelineConfig{}.WithDefaults()
	assert.Equal(t, ".", cfg.BaseDir)
	assert.Equal(t, "starla-platform", cfg.OutputDir)
	assert.Equal(t, "extracted_data.json", cfg.OutputFile)
	assert.Equal(t, BackendPDF, cfg.Backend)
	assert.Equal(t, DefaultPlaceholderChange, cfg.Placeholder())

	zero := 0.0
	assert.Equal(t, 0.0, PipelineConfig{PlaceholderChange: &zero}.Placeholder())
}

func TestHistoryPath(t *testing.T) {
	assert.Empty(t, PipelineConfig{}.HistoryPath())
	assert.Equal(t, filepath.Join("starla-platform", "share-history.db"),
		PipelineConfig{HistoryDB: "share-history.db"}.HistoryPath())

	abs := filepath.Join(t.TempDir(), "runs.db")
	assert.Equal(t, abs, PipelineConfig{OutputDir: "out", HistoryDB: abs}.HistoryPath())
}
