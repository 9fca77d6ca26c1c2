package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// SpanReplayStep names the per-step span of a scripted replay. It is dropped
// unless Config.TraceVerbose is set.
const SpanReplayStep = "sortedarray.replay.step"

// filteringTracerProvider wraps a real TracerProvider and returns no-op
// spans for suppressed span names.
type filteringTracerProvider struct {
	embedded.TracerProvider

	delegate        trace.TracerProvider
	noop            trace.TracerProvider
	suppressedSpans map[string]bool
}

// NewFilteringTracerProvider wraps delegate so that per-step spans are
// replaced with no-op spans while command spans pass through.
func NewFilteringTracerProvider(delegate trace.TracerProvider) trace.TracerProvider {
	return &filteringTracerProvider{
		delegate: delegate,
		noop:     nooptrace.NewTracerProvider(),
		suppressedSpans: map[string]bool{
			SpanReplayStep: true,
		},
	}
}

// Tracer returns a tracer that suppresses the configured span names.
func (f *filteringTracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return &filteringTracer{
		delegate: f.delegate.Tracer(name, opts...),
		noop:     f.noop.Tracer(name, opts...),
		suppress: f.suppressedSpans,
	}
}

type filteringTracer struct {
	embedded.Tracer

	delegate trace.Tracer
	noop     trace.Tracer
	suppress map[string]bool
}

// Start creates a span, returning a noop span for suppressed names.
func (f *filteringTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if f.suppress[name] {
		return f.noop.Start(ctx, name, opts...)
	}

	return f.delegate.Start(ctx, name, opts...)
}
