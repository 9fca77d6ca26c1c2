// Package config loads sortedarray CLI settings from defaults, an optional
// YAML file and SORTEDARRAY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// Sentinel validation errors.
var (
	ErrInvalidFormat      = errors.New("invalid output format")
	ErrInvalidOrder       = errors.New("invalid data order")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidSampleRatio = errors.New("trace sample ratio must be within [0, 1]")
	ErrInvalidMaxRows     = errors.New("render max rows must not be negative")
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var (
	validFormats    = []string{FormatTable, FormatJSON, FormatYAML}
	validLogFormats = []string{LogFormatText, LogFormatJSON}
	validOrders     = []string{"asc", "ascending", "desc", "descending"}
)

// Config holds all sortedarray settings.
type Config struct {
	Output    OutputConfig    `mapstructure:"output"`
	Data      DataConfig      `mapstructure:"data"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Render    RenderConfig    `mapstructure:"render"`
}

// OutputConfig controls how command results are printed.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// DataConfig controls how dataset files are interpreted.
type DataConfig struct {
	// Order is used for documents that do not declare one.
	Order string `mapstructure:"order"`
	// Validate checks every loaded document against the schema and for
	// strict key monotonicity before it is used.
	Validate bool `mapstructure:"validate"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig controls OpenTelemetry export.
type TelemetryConfig struct {
	Environment     string  `mapstructure:"environment"`
	OTLPEndpoint    string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders     string  `mapstructure:"otlp_headers"`
	MetricsTextfile string  `mapstructure:"metrics_textfile"`
	SampleRatio     float64 `mapstructure:"sample_ratio"`
	OTLPInsecure    bool    `mapstructure:"otlp_insecure"`
	DebugTrace      bool    `mapstructure:"debug_trace"`
	TraceVerbose    bool    `mapstructure:"trace_verbose"`
}

// RenderConfig controls terminal and chart rendering.
type RenderConfig struct {
	ChartTitle string `mapstructure:"chart_title"`
	// MaxRows caps table rows; zero prints everything.
	MaxRows int  `mapstructure:"max_rows"`
	Color   bool `mapstructure:"color"`
}

// SlogLevel parses Level into a slog.Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(l.Level))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}

	return level, nil
}

// Validate checks every field that has a closed set of values.
func (c *Config) Validate() error {
	if !slices.Contains(validFormats, c.Output.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Output.Format)
	}

	if !slices.Contains(validOrders, c.Data.Order) {
		return fmt.Errorf("%w: %q", ErrInvalidOrder, c.Data.Order)
	}

	_, levelErr := c.Logging.SlogLevel()
	if levelErr != nil {
		return levelErr
	}

	if !slices.Contains(validLogFormats, c.Logging.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	if c.Render.MaxRows < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxRows, c.Render.MaxRows)
	}

	return nil
}
