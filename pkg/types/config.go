package types

import "path/filepath"

// ExtractorBackend identifies the tool that turns a report PDF into text.
type ExtractorBackend string

const (
	BackendPDF        ExtractorBackend = "pdf"
	BackendMarkitdown ExtractorBackend = "markitdown"
)

// OutputFormat selects one serialization of the extracted dataset.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatCSV  OutputFormat = "csv"
	FormatXLSX OutputFormat = "xlsx"
)

// DefaultPlaceholderChange is the change value recorded for baseline-derived
// points other than the final canonical period.
const DefaultPlaceholderChange = 0.1

// PipelineConfig holds settings for an extraction run. Zero values are
// replaced by the compiled-in defaults in WithDefaults.
type PipelineConfig struct {
	// BaseDir contains one subdirectory per canonical period.
	BaseDir string `json:"base_dir" yaml:"base_dir"`

	// OutputDir receives the dataset files and the history database.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// OutputFile is the JSON dataset filename inside OutputDir. Other formats
	// reuse its base name with their own extension.
	OutputFile string `json:"output_file" yaml:"output_file"`

	// Formats lists the serializations to write. JSON is always written.
	Formats []OutputFormat `json:"formats" yaml:"formats"`

	// Backend selects the text extractor: pdf or markitdown.
	Backend ExtractorBackend `json:"backend" yaml:"backend"`

	// ContainerRuntime pins the markitdown backend to docker or podman.
	// Empty tries docker, then podman.
	ContainerRuntime string `json:"container_runtime,omitempty" yaml:"container_runtime,omitempty"`

	// PlaceholderChange is the change value for non-final baseline points.
	// Nil means DefaultPlaceholderChange; zero is a valid explicit value.
	PlaceholderChange *float64 `json:"placeholder_change,omitempty" yaml:"placeholder_change,omitempty"`

	// HistoryDB is the SQLite run-history path, relative to OutputDir unless
	// absolute. Empty disables run recording.
	HistoryDB string `json:"history_db" yaml:"history_db"`
}

// WithDefaults returns a copy of c with empty fields filled in.
func (c PipelineConfig) WithDefaults() PipelineConfig {
	if c.BaseDir == "" {
		c.BaseDir = "."
	}
	if c.OutputDir == "" {
		c.OutputDir = "starla-platform"
	}
	if c.OutputFile == "" {
		c.OutputFile = "extracted_data.json"
	}
	if c.Backend == "" {
		c.Backend = BackendPDF
	}
	return c
}

// Placeholder returns the effective placeholder change value.
func (c PipelineConfig) Placeholder() float64 {
	if c.PlaceholderChange == nil {
		return DefaultPlaceholderChange
	}
	return *c.PlaceholderChange
}

// HistoryPath returns the run-history database path, resolved against
// OutputDir when relative. It returns "" when history is disabled.
func (c PipelineConfig) HistoryPath() string {
	if c.HistoryDB == "" {
		return ""
	}
	if filepath.IsAbs(c.HistoryDB) {
		return c.HistoryDB
	}
	return filepath.Join(c.WithDefaults().OutputDir, c.HistoryDB)
}
