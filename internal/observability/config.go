// Package observability wires OpenTelemetry tracing, metrics and structured
// logging for the sortedarray binary.
package observability

import "log/slog"

// AppMode identifies how the binary was launched.
type AppMode string

const (
	// ModeCLI is a one-shot command.
	ModeCLI AppMode = "cli"
	// ModeScript is a scripted replay driving a window collection.
	ModeScript AppMode = "script"
)

const (
	defaultServiceName = "sortedarray"

	// defaultShutdownTimeoutSec is the default shutdown timeout in seconds.
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the semantic version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment (e.g. "production", "dev").
	Environment string

	// Mode identifies how the binary was launched.
	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables OTLP export.
	OTLPEndpoint string

	// OTLPHeaders are additional gRPC metadata headers for the OTLP exporter.
	OTLPHeaders map[string]string

	// OTLPInsecure disables TLS for the OTLP gRPC connection.
	OTLPInsecure bool

	// Prometheus backs the meter provider with a private Prometheus registry
	// when no OTLP endpoint is set, so metrics can be written to a textfile.
	Prometheus bool

	// DebugTrace forces 100% trace sampling when true.
	DebugTrace bool

	// SampleRatio is the trace sampling ratio (0.0 to 1.0) when DebugTrace is false.
	SampleRatio float64

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// TraceVerbose keeps per-step replay spans.
	TraceVerbose bool

	// LogJSON enables JSON-formatted log output.
	LogJSON bool

	// ShutdownTimeoutSec is the maximum seconds to wait for flush on shutdown.
	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
