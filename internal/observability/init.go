package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const (
	tracerName = "sortedarray"
	meterName  = "sortedarray"

	attrAppMode = "app.mode"
)

// Providers holds the initialized observability providers.
type Providers struct {
	// Tracer is the named tracer for creating spans.
	Tracer trace.Tracer

	// Meter is the named meter for creating instruments.
	Meter metric.Meter

	// Logger is the context-aware structured logger.
	Logger *slog.Logger

	// Registry is set when metrics are collected into a Prometheus registry.
	Registry *prometheus.Registry

	// Shutdown flushes pending telemetry once; later calls return the
	// first result. Must be called before process exit.
	Shutdown func(ctx context.Context) error
}

// closers collects provider shutdown hooks and runs them newest first.
type closers []func(context.Context) error

func (c closers) close(ctx context.Context) error {
	errs := make([]error, 0, len(c))

	for _, fn := range slices.Backward(c) {
		errs = append(errs, fn(ctx))
	}

	return errors.Join(errs...)
}

// Init initializes OpenTelemetry tracing, metrics, and structured logging
// and installs them as the otel globals.
//
// An OTLP endpoint sends both traces and metrics over gRPC. Without one,
// tracing is a no-op and metrics go to a private Prometheus registry when
// cfg.Prometheus is set, or nowhere otherwise.
func Init(cfg Config) (Providers, error) {
	ctx := context.Background()

	res, err := buildResource(ctx, cfg)
	if err != nil {
		return Providers{}, err
	}

	var hooks closers

	tp := trace.TracerProvider(nooptrace.NewTracerProvider())

	if cfg.OTLPEndpoint != "" {
		sdkTP, tpErr := newOTLPTracerProvider(ctx, cfg, res)
		if tpErr != nil {
			return Providers{}, tpErr
		}

		hooks = append(hooks, sdkTP.Shutdown)
		tp = sdkTP

		if !cfg.TraceVerbose {
			tp = NewFilteringTracerProvider(tp)
		}
	}

	mp, registry, mpShutdown, err := buildMeterProvider(ctx, cfg, res)
	if err != nil {
		return Providers{}, errors.Join(err, hooks.close(ctx))
	}

	hooks = append(hooks, mpShutdown)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return Providers{
		Tracer:   tp.Tracer(tracerName),
		Meter:    mp.Meter(meterName),
		Logger:   buildLogger(cfg),
		Registry: registry,
		Shutdown: onceShutdown(hooks, cfg.ShutdownTimeoutSec),
	}, nil
}

func onceShutdown(hooks closers, timeoutSec int) func(context.Context) error {
	if timeoutSec <= 0 {
		timeoutSec = defaultShutdownTimeoutSec
	}

	var (
		once sync.Once
		err  error
	)

	return func(ctx context.Context) error {
		once.Do(func() {
			deadlineCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
			defer cancel()

			err = hooks.close(deadlineCtx)
		})

		return err
	}
}

func buildResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	kvs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}

	if cfg.ServiceVersion != "" {
		kvs = append(kvs, semconv.ServiceVersion(cfg.ServiceVersion))
	}

	if cfg.Environment != "" {
		kvs = append(kvs, semconv.DeploymentEnvironment(cfg.Environment))
	}

	if cfg.Mode != "" {
		kvs = append(kvs, attribute.String(attrAppMode, string(cfg.Mode)))
	}

	res, err := resource.New(ctx, resource.WithAttributes(kvs...))
	if err != nil {
		return nil, fmt.Errorf("build otel resource: %w", err)
	}

	return res, nil
}

func buildMeterProvider(
	ctx context.Context,
	cfg Config,
	res *resource.Resource,
) (metric.MeterProvider, *prometheus.Registry, func(context.Context) error, error) {
	switch {
	case cfg.OTLPEndpoint != "":
		mp, err := newOTLPMeterProvider(ctx, cfg, res)
		if err != nil {
			return nil, nil, nil, err
		}

		return mp, nil, mp.Shutdown, nil
	case cfg.Prometheus:
		mp, registry, err := newPrometheusMeterProvider(res)
		if err != nil {
			return nil, nil, nil, err
		}

		return mp, registry, mp.Shutdown, nil
	default:
		return noopmetric.NewMeterProvider(), nil, func(context.Context) error { return nil }, nil
	}
}
