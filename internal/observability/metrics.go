package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRequestsTotal    = "sortedarray.requests.total"
	metricRequestDuration  = "sortedarray.request.duration.seconds"
	metricErrorsTotal      = "sortedarray.errors.total"
	metricInflightRequests = "sortedarray.inflight.requests"
	metricItemsProcessed   = "sortedarray.items.processed"

	attrOp     = "op"
	attrStatus = "status"

	// StatusOK marks a command that completed.
	StatusOK = "ok"
	// StatusError marks a command that returned an error.
	StatusError = "error"
)

// durationBucketBoundaries covers 100us to 60s. Most commands are file
// bound and finish well under a second.
var durationBucketBoundaries = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// REDMetrics holds the OTel instruments for Rate, Error, Duration metrics.
type REDMetrics struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorsTotal      metric.Int64Counter
	inflightRequests metric.Int64UpDownCounter
	itemsProcessed   metric.Int64Counter
}

// NewREDMetrics creates the per-command instruments from mt. The first
// instrument that fails to register is reported by name.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	var errs []error

	rm := &REDMetrics{
		requestsTotal: register(&errs, metricRequestsTotal, func() (metric.Int64Counter, error) {
			return mt.Int64Counter(metricRequestsTotal,
				metric.WithDescription("Total number of commands run"), metric.WithUnit("{request}"))
		}),
		requestDuration: register(&errs, metricRequestDuration, func() (metric.Float64Histogram, error) {
			return mt.Float64Histogram(metricRequestDuration,
				metric.WithDescription("Command duration in seconds"), metric.WithUnit("s"),
				metric.WithExplicitBucketBoundaries(durationBucketBoundaries...))
		}),
		errorsTotal: register(&errs, metricErrorsTotal, func() (metric.Int64Counter, error) {
			return mt.Int64Counter(metricErrorsTotal,
				metric.WithDescription("Total number of failed commands"), metric.WithUnit("{error}"))
		}),
		inflightRequests: register(&errs, metricInflightRequests, func() (metric.Int64UpDownCounter, error) {
			return mt.Int64UpDownCounter(metricInflightRequests,
				metric.WithDescription("Number of commands in flight"), metric.WithUnit("{request}"))
		}),
		itemsProcessed: register(&errs, metricItemsProcessed, func() (metric.Int64Counter, error) {
			return mt.Int64Counter(metricItemsProcessed,
				metric.WithDescription("Items read by commands"), metric.WithUnit("{item}"))
		}),
	}

	if len(errs) > 0 {
		return nil, errs[0]
	}

	return rm, nil
}

func register[I any](errs *[]error, name string, create func() (I, error)) I {
	inst, err := create()
	if err != nil {
		*errs = append(*errs, fmt.Errorf("create %s: %w", name, err))
	}

	return inst
}

// RecordRequest records a completed command with its operation, status, and duration.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requestsTotal.Add(ctx, 1, attrs)
	rm.requestDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrOp, op),
		))
	}
}

// RecordItems adds n to the items processed by op.
func (rm *REDMetrics) RecordItems(ctx context.Context, op string, n int) {
	if n <= 0 {
		return
	}

	rm.itemsProcessed.Add(ctx, int64(n), metric.WithAttributes(attribute.String(attrOp, op)))
}

// TrackInflight increments the in-flight gauge and returns a function to decrement it.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightRequests.Add(ctx, 1, attrs)

	return func() {
		rm.inflightRequests.Add(ctx, -1, attrs)
	}
}
