package observability

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// ErrNoRegistry is returned when metrics are written without a Prometheus registry.
var ErrNoRegistry = errors.New("prometheus registry not configured")

// newPrometheusMeterProvider builds a meter provider whose only reader is a
// Prometheus exporter registered on a fresh registry.
func newPrometheusMeterProvider(res *resource.Resource) (*sdkmetric.MeterProvider, *prometheus.Registry, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)

	return mp, registry, nil
}

// PrometheusHandler serves the registry in the Prometheus exposition format.
func PrometheusHandler(registry *prometheus.Registry) (http.Handler, error) {
	if registry == nil {
		return nil, ErrNoRegistry
	}

	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}

// WriteTextfile writes the registry to path in the node-exporter textfile
// format. The file is replaced atomically.
func WriteTextfile(path string, registry *prometheus.Registry) error {
	if registry == nil {
		return ErrNoRegistry
	}

	err := prometheus.WriteToTextfile(path, registry)
	if err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}

	return nil
}
