package config

import (
	"fmt"
)

// Options is the single unified configuration structure for the engine.
// Construction functions that need a type when none is specified (empty-table
// creation, NA-fill columns) read it from Engine.DefaultElementType instead
// of a global default.
type Options struct {
	// Engine settings control table construction behavior
	Engine EngineConfig `yaml:"engine" json:"engine"`

	// Source settings control how external data is parsed into tables
	Source SourceConfig `yaml:"source" json:"source"`

	// Render settings control pretty-printing and export
	Render RenderConfig `yaml:"render" json:"render"`

	// Observability settings for monitoring and debugging
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`

	// Memory management configuration
	Memory MemoryConfig `yaml:"memory" json:"memory"`
}

// EngineConfig contains core table engine settings.
type EngineConfig struct {
	// DefaultElementType is the element type used when construction needs a
	// type and none was given: one of "int", "float", "string", "bool", "any"
	DefaultElementType string `yaml:"default_element_type" json:"default_element_type"`
	// AutoNamePrefix is the prefix for auto-generated column names
	AutoNamePrefix string `yaml:"auto_name_prefix" json:"auto_name_prefix"`
	// DictEncodeStrings enables dictionary encoding for string columns
	// built by the data sources
	DictEncodeStrings bool `yaml:"dict_encode_strings" json:"dict_encode_strings"`
}

// SourceConfig contains parsing defaults shared by the data sources.
type SourceConfig struct {
	// Delimiter is the default CSV field delimiter
	Delimiter string `yaml:"delimiter" json:"delimiter"`
	// HasHeader controls whether the first CSV row is treated as column names
	HasHeader bool `yaml:"has_header" json:"has_header"`
	// NAValues lists the tokens parsed as missing values
	NAValues []string `yaml:"na_values" json:"na_values"`
	// InferenceRows is the number of rows sampled for type inference
	InferenceRows int `yaml:"inference_rows" json:"inference_rows"`
}

// RenderConfig contains pretty-printing and export defaults.
type RenderConfig struct {
	// MaxRows limits the number of rows printed by default (0 = all)
	MaxRows int `yaml:"max_rows" json:"max_rows"`
	// MaxCellWidth truncates rendered cells beyond this width (0 = no limit)
	MaxCellWidth int `yaml:"max_cell_width" json:"max_cell_width"`
	// NAText is the text rendered for missing values
	NAText string `yaml:"na_text" json:"na_text"`
	// ShowTypes appends the element type to printed column headers
	ShowTypes bool `yaml:"show_types" json:"show_types"`
}

// ObservabilityConfig contains monitoring and observability settings.
type ObservabilityConfig struct {
	// EnableMetrics activates metrics collection
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
	// EnableTracing activates tracing of source loads and bulk operations
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing"`
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// MemoryConfig contains memory management settings.
type MemoryConfig struct {
	// EnablePools activates object pooling on the hot paths
	EnablePools bool `yaml:"enable_pools" json:"enable_pools"`
	// InternColumnNames routes column names through the global intern pool
	InternColumnNames bool `yaml:"intern_column_names" json:"intern_column_names"`
}

// validElementTypes are the accepted DefaultElementType values.
var validElementTypes = map[string]bool{
	"int":    true,
	"float":  true,
	"string": true,
	"bool":   true,
	"any":    true,
}

// NewOptions creates Options with production defaults. Callers override
// individual fields as needed and then call Validate.
func NewOptions() *Options {
	return &Options{
		Engine: EngineConfig{
			DefaultElementType: "float",
			AutoNamePrefix:     "x",
			DictEncodeStrings:  false,
		},
		Source: SourceConfig{
			Delimiter:     ",",
			HasHeader:     true,
			NAValues:      []string{"", "NA", "N/A", "null", "NULL", "NaN"},
			InferenceRows: 100,
		},
		Render: RenderConfig{
			MaxRows:      10,
			MaxCellWidth: 32,
			NAText:       "NA",
			ShowTypes:    true,
		},
		Observability: ObservabilityConfig{
			EnableMetrics: true,
			EnableTracing: false,
			LogLevel:      "info",
		},
		Memory: MemoryConfig{
			EnablePools:       true,
			InternColumnNames: true,
		},
	}
}

// Validate validates the configuration for correctness.
// It checks required fields and ensures values are within acceptable ranges.
//
// Returns an error if validation fails, nil otherwise.
func (o *Options) Validate() error {
	if !validElementTypes[o.Engine.DefaultElementType] {
		return fmt.Errorf("default_element_type %q is not one of int, float, string, bool, any",
			o.Engine.DefaultElementType)
	}
	if o.Engine.AutoNamePrefix == "" {
		return fmt.Errorf("auto_name_prefix is required")
	}
	if len(o.Source.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character")
	}
	if o.Source.InferenceRows <= 0 {
		return fmt.Errorf("inference_rows must be positive")
	}
	if o.Render.MaxRows < 0 {
		return fmt.Errorf("max_rows cannot be negative")
	}
	if o.Render.MaxCellWidth < 0 {
		return fmt.Errorf("max_cell_width cannot be negative")
	}
	return nil
}

// IsNA reports whether the token is configured as a missing-value marker.
func (s *SourceConfig) IsNA(token string) bool {
	for _, na := range s.NAValues {
		if token == na {
			return true
		}
	}
	return false
}

// DelimiterRune returns the CSV delimiter as a rune, defaulting to comma.
func (s *SourceConfig) DelimiterRune() rune {
	if len(s.Delimiter) == 0 {
		return ','
	}
	return rune(s.Delimiter[0])
}
