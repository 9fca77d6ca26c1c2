package config

import "github.com/spf13/viper"

// Default values.
const (
	DefaultOutputFormat = FormatTable
	DefaultDataOrder    = "asc"
	DefaultDataValidate = false
	DefaultLogLevel     = "info"
	DefaultLogFormat    = LogFormatText
	DefaultSampleRatio  = 0.0
	DefaultRenderColor  = true
	DefaultMaxRows      = 0
	DefaultChartTitle   = "Window coverage"
)

func applyDefaults(v *viper.Viper) {
	v.SetDefault("output.format", DefaultOutputFormat)

	v.SetDefault("data.order", DefaultDataOrder)
	v.SetDefault("data.validate", DefaultDataValidate)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)

	v.SetDefault("telemetry.environment", "")
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.otlp_headers", "")
	v.SetDefault("telemetry.otlp_insecure", false)
	v.SetDefault("telemetry.metrics_textfile", "")
	v.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
	v.SetDefault("telemetry.debug_trace", false)
	v.SetDefault("telemetry.trace_verbose", false)

	v.SetDefault("render.color", DefaultRenderColor)
	v.SetDefault("render.max_rows", DefaultMaxRows)
	v.SetDefault("render.chart_title", DefaultChartTitle)
}
