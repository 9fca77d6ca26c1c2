package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Swoorup/the-sorted-array/internal/dataset"
	"github.com/Swoorup/the-sorted-array/internal/observability"
)

// harness runs commands against in-memory span and metric recorders.
type harness struct {
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
}

func newHarness() *harness {
	return &harness{
		spans:  tracetest.NewSpanRecorder(),
		reader: sdkmetric.NewManualReader(),
	}
}

func (h *harness) providers(_ observability.Config) (observability.Providers, error) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(h.spans))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(h.reader))

	return observability.Providers{
		Tracer:   tp.Tracer("test"),
		Meter:    mp.Meter("test"),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Shutdown: func(context.Context) error { return nil },
	}, nil
}

// run executes the root command with args and returns what it printed.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	return runRoot(t, newGlobalsWithDeps(h.providers), args...)
}

func runRoot(t *testing.T, g *Globals, args ...string) (string, error) {
	t.Helper()

	root := &cobra.Command{Use: "sortedarray", SilenceUsage: true, SilenceErrors: true}
	g.Attach(root)

	root.AddCommand(
		NewSearchCommand(g),
		NewSplitCommand(g),
		NewMergeCommand(g),
		NewChunkCommand(g),
		NewTrimCommand(g),
		NewReplayCommand(g),
		NewValidateCommand(g),
		NewVersionCommand(),
	)

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--no-color"))

	err := root.Execute()
	require.NoError(t, g.Close(context.Background()))

	return out.String(), err
}

func (h *harness) spanNames() []string {
	ended := h.spans.Ended()
	names := make([]string, len(ended))

	for i, s := range ended {
		names[i] = s.Name()
	}

	return names
}

func (h *harness) counter(t *testing.T, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))

	var total int64

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}

			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)

			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}

	return total
}

func records(keys ...float64) []dataset.Record {
	out := make([]dataset.Record, len(keys))
	for i, k := range keys {
		out[i] = dataset.Record{Key: k}
	}

	return out
}

func writeDoc(t *testing.T, name, order string, items []dataset.Record) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, dataset.Save(path, &dataset.Document{Order: order, Items: items}))

	return path
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func keys(items []dataset.Record) []float64 {
	return (&dataset.Document{Items: items}).Keys()
}
