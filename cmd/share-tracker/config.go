// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/share-tracker/pkg/types"
)

func init() {
	viper.SetDefault("base_dir", ".")
	viper.SetDefault("output_dir", "starla-platform")
	viper.SetDefault("output_file", "extracted_data.json")
	viper.SetDefault("formats", []string{string(types.FormatJSON)})
	viper.SetDefault("backend", string(types.BackendPDF))
	viper.SetDefault("container_runtime", "")
	viper.SetDefault("placeholder_change", types.DefaultPlaceholderChange)
	viper.SetDefault("history_db", "share-history.db")
}

// loadConfig assembles the pipeline settings from flags, environment, config
// file, and defaults, in viper's precedence order.
func loadConfig() types.PipelineConfig {
	placeholder := viper.GetFloat64("placeholder_change")

	var formats []types.OutputFormat
	for _, f := range viper.GetStringSlice("formats") {
		formats = append(formats, types.OutputFormat(f))
	}

	cfg := types.PipelineConfig{
		BaseDir:           viper.GetString("base_dir"),
		OutputDir:         viper.GetString("output_dir"),
		OutputFile:        viper.GetString("output_file"),
		Formats:           formats,
		Backend:           types.ExtractorBackend(viper.GetString("backend")),
		ContainerRuntime:  viper.GetString("container_runtime"),
		PlaceholderChange: &placeholder,
		HistoryDB:         viper.GetString("history_db"),
	}
	return cfg.WithDefaults()
}
