package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrService = "service"
	attrEnv     = "env"
	attrMode    = "mode"
)

// TracingHandler stamps sortedarray log records with the ids of the command
// or replay step span they were emitted under, so a gap logged by a window
// collection can be found next to its trace.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner. The service name, run mode and optional
// environment are bound once as top-level attributes.
func NewTracingHandler(inner slog.Handler, service, env string, appMode AppMode) *TracingHandler {
	base := []slog.Attr{slog.String(attrService, service), slog.String(attrMode, string(appMode))}
	if env != "" {
		base = append(base, slog.String(attrEnv, env))
	}

	return &TracingHandler{inner: inner.WithAttrs(base)}
}

func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(spanAttrs(ctx)...)

	if err := th.inner.Handle(ctx, record); err != nil {
		return fmt.Errorf("tracing handler: %w", err)
	}

	return nil
}

func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: th.inner.WithAttrs(attrs)}
}

func (th *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: th.inner.WithGroup(name)}
}

// spanAttrs returns the trace and span ids carried by ctx, or nothing when
// ctx holds no valid span context.
func spanAttrs(ctx context.Context) []slog.Attr {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}

	return []slog.Attr{
		slog.String(attrTraceID, sc.TraceID().String()),
		slog.String(attrSpanID, sc.SpanID().String()),
	}
}

// buildLogger writes to stderr so command output on stdout stays parseable
// as json or yaml.
func buildLogger(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var inner slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.LogJSON {
		inner = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(NewTracingHandler(inner, cfg.ServiceName, cfg.Environment, cfg.Mode))
}
