package observability

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Standard OTel SDK sampler environment variables.
const (
	envTracesSampler    = "OTEL_TRACES_SAMPLER"
	envTracesSamplerArg = "OTEL_TRACES_SAMPLER_ARG"
)

// envSamplers maps OTEL_TRACES_SAMPLER values to samplers. The argument is
// the parsed OTEL_TRACES_SAMPLER_ARG ratio.
var envSamplers = map[string]func(ratio float64) sdktrace.Sampler{
	"always_on":  func(float64) sdktrace.Sampler { return sdktrace.AlwaysSample() },
	"always_off": func(float64) sdktrace.Sampler { return sdktrace.NeverSample() },
	"traceidratio": func(r float64) sdktrace.Sampler {
		return sdktrace.TraceIDRatioBased(r)
	},
	"parentbased_always_on": func(float64) sdktrace.Sampler {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	},
	"parentbased_always_off": func(float64) sdktrace.Sampler {
		return sdktrace.ParentBased(sdktrace.NeverSample())
	},
	"parentbased_traceidratio": func(r float64) sdktrace.Sampler {
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(r))
	},
}

func newOTLPTracerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}

	if cfg.OTLPInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	if len(cfg.OTLPHeaders) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(cfg.OTLPHeaders))
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(selectSampler(cfg)),
	), nil
}

func newOTLPMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint)}

	if cfg.OTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	if len(cfg.OTLPHeaders) > 0 {
		opts = append(opts, otlpmetricgrpc.WithHeaders(cfg.OTLPHeaders))
	}

	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	), nil
}

// selectSampler resolves the sampler in priority order: DebugTrace, then
// OTEL_TRACES_SAMPLER, then SampleRatio, then always-on under the parent.
func selectSampler(cfg Config) sdktrace.Sampler {
	if cfg.DebugTrace {
		return sdktrace.AlwaysSample()
	}

	if name := os.Getenv(envTracesSampler); name != "" {
		if build, ok := envSamplers[name]; ok {
			return build(parseRatio(os.Getenv(envTracesSamplerArg)))
		}
	}

	if cfg.SampleRatio > 0 {
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
	}

	return sdktrace.ParentBased(sdktrace.AlwaysSample())
}

// parseRatio reads a sampler ratio, falling back to 1 for empty or
// malformed input.
func parseRatio(s string) float64 {
	ratio, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 1
	}

	return ratio
}

// ParseOTLPHeaders parses "key=value,key=value" into a header map. Pairs
// without "=" are skipped; nil means no usable pairs.
func ParseOTLPHeaders(raw string) map[string]string {
	var headers map[string]string

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}

		if headers == nil {
			headers = make(map[string]string)
		}

		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return headers
}
