package window_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Swoorup/the-sorted-array/pkg/sortedarray"
	"github.com/Swoorup/the-sorted-array/pkg/window"
)

type quote struct {
	at    float64
	price string
}

func quoteKey(q quote) float64 {
	return q.at
}

func floatKey(v float64) float64 {
	return v
}

func span(from, to float64) sortedarray.Range[float64] {
	return sortedarray.Range[float64]{From: from, To: to}
}

func newFloats(t *testing.T, opts ...window.Option) *window.Collection[float64, float64] {
	t.Helper()

	c, err := window.New(floatKey, opts...)
	require.NoError(t, err)

	return c
}

func TestCollection_Empty(t *testing.T) {
	t.Parallel()

	c := newFloats(t)

	assert.Zero(t, c.Len())
	assert.Empty(t, c.Items())
	assert.Empty(t, c.Gaps())

	_, ok := c.Bounds()
	assert.False(t, ok)

	assert.Equal(t, []sortedarray.Range[float64]{span(0, 10)}, c.Missing(span(0, 10)))
	assert.Empty(t, c.Query(span(0, 10)))
	assert.Zero(t, c.Trim(context.Background(), span(0, 10)))
	assert.Nil(t, c.MergeChunk(context.Background(), nil))
}

func TestCollection_ChunksTrackGaps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newFloats(t)

	assert.Empty(t, c.MergeChunk(ctx, []float64{1, 2}))
	assert.Equal(t, []sortedarray.Range[float64]{span(2, 5)}, c.MergeChunk(ctx, []float64{5, 6}))
	assert.Equal(t, []sortedarray.Range[float64]{span(6, 9)}, c.MergeChunk(ctx, []float64{9, 10}))

	assert.Equal(t, []sortedarray.Range[float64]{span(2, 5), span(6, 9)}, c.Gaps())
	assert.Equal(t,
		[]sortedarray.Range[float64]{span(0, 1), span(2, 5), span(6, 9), span(10, 12)},
		c.Missing(span(0, 12)),
	)

	bounds, ok := c.Bounds()
	require.True(t, ok)
	assert.Equal(t, span(1, 10), bounds)

	// Filling the first gap exactly forgets it.
	assert.Empty(t, c.MergeChunk(ctx, []float64{2, 3, 4, 5}))
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 9, 10}, c.Items())
	assert.Equal(t, []sortedarray.Range[float64]{span(6, 9)}, c.Gaps())
	assert.Equal(t, []sortedarray.Range[float64]{span(6, 7)}, c.Missing(span(3, 7)))
	assert.Empty(t, c.Missing(span(2, 5)))
}

func TestCollection_ChunkInsideGapSplitsIt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newFloats(t)

	c.MergeChunk(ctx, []float64{1, 2})
	c.MergeChunk(ctx, []float64{10, 11})
	require.Equal(t, []sortedarray.Range[float64]{span(2, 10)}, c.Gaps())

	reported := c.MergeChunk(ctx, []float64{5, 6})

	assert.Equal(t, []sortedarray.Range[float64]{span(2, 5), span(6, 10)}, reported)
	assert.Equal(t, reported, c.Gaps())
}

func TestCollection_UpsertInsideGapThenChunk(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newFloats(t)

	c.MergeChunk(ctx, []float64{1})
	c.MergeChunk(ctx, []float64{5})
	require.Equal(t, []sortedarray.Range[float64]{span(1, 5)}, c.Gaps())

	c.Upsert(ctx, []float64{3}, sortedarray.KeepRight[float64])
	c.MergeChunk(ctx, []float64{3, 4})

	assert.Equal(t, []float64{1, 3, 4, 5}, c.Items())
	assert.Equal(t, []sortedarray.Range[float64]{span(1, 3), span(4, 5)}, c.Gaps())
	assert.Equal(t, []sortedarray.Range[float64]{span(1, 3), span(4, 5)}, c.Missing(span(1, 5)))
}

func TestCollection_ReportedGapInsideKnownGapIsJoined(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newFloats(t)

	c.MergeChunk(ctx, []float64{1})
	c.MergeChunk(ctx, []float64{10})
	c.Upsert(ctx, []float64{7}, sortedarray.KeepRight[float64])

	reported := c.MergeChunk(ctx, []float64{3, 4})

	assert.Equal(t, []sortedarray.Range[float64]{span(1, 3), span(4, 7)}, reported)
	assert.Equal(t, []sortedarray.Range[float64]{span(1, 3), span(4, 10)}, c.Gaps())
}

func TestCollection_MissingWindowOnGapEndpoint(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newFloats(t)

	c.MergeChunk(ctx, []float64{1, 2})
	c.MergeChunk(ctx, []float64{5, 6, 7, 8, 9})
	require.Equal(t, []sortedarray.Range[float64]{span(2, 5)}, c.Gaps())

	assert.Empty(t, c.Missing(span(5, 8)))
	assert.Equal(t, []sortedarray.Range[float64]{span(0, 1)}, c.Missing(span(0, 2)))
	assert.Equal(t, []sortedarray.Range[float64]{span(2, 5)}, c.Missing(span(2, 5)))
}

func TestCollection_Query(t *testing.T) {
	t.Parallel()

	c := newFloats(t)
	c.MergeChunk(context.Background(), []float64{1, 2, 3, 4, 5, 6})

	got := c.Query(span(2.5, 5))
	assert.Equal(t, []float64{3, 4, 5}, got)

	got[0] = 100
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, c.Items())
}

func TestCollection_Trim(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newFloats(t)

	c.MergeChunk(ctx, []float64{1, 2, 3, 4, 5, 6})
	c.MergeChunk(ctx, []float64{9, 10})

	assert.Equal(t, 4, c.Trim(ctx, span(4, 9)))
	assert.Equal(t, []float64{4, 5, 6, 9}, c.Items())
	assert.Equal(t, []sortedarray.Range[float64]{span(6, 9)}, c.Gaps())

	assert.Equal(t, 1, c.Trim(ctx, span(4, 7)))
	assert.Equal(t, []float64{4, 5, 6}, c.Items())
	assert.Empty(t, c.Gaps())

	assert.Equal(t, 3, c.Trim(ctx, span(20, 30)))
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Gaps())
}

func TestCollection_Upsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	c, err := window.New(quoteKey)
	require.NoError(t, err)

	c.MergeChunk(ctx, []quote{{1, "a"}, {2, "b"}})
	c.MergeChunk(ctx, []quote{{5, "e"}})

	c.Upsert(ctx, []quote{{2, "B"}, {3, "C"}}, sortedarray.KeepRight[quote])

	assert.Equal(t, []quote{{1, "a"}, {2, "B"}, {3, "C"}, {5, "e"}}, c.Items())
	// Point upserts never touch gap bookkeeping.
	assert.Equal(t, []sortedarray.Range[float64]{span(2, 5)}, c.Gaps())

	c.Upsert(ctx, []quote{{1, "x"}}, sortedarray.KeepLeft[quote])
	assert.Equal(t, "a", c.Items()[0].price)
}

func TestCollection_LogsGaps(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := newFloats(t, window.WithLogger(logger))

	c.MergeChunk(context.Background(), []float64{1})
	c.MergeChunk(context.Background(), []float64{4})

	out := buf.String()
	assert.Contains(t, out, "gap reported")
	assert.Contains(t, out, "from=1")
	assert.Contains(t, out, "to=4")
	assert.Contains(t, out, "chunk merged")
}

func TestCollection_Metrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	ctx := context.Background()

	c := newFloats(t, window.WithMeter(mp.Meter("test")))

	c.MergeChunk(ctx, []float64{1, 2})
	c.MergeChunk(ctx, []float64{5, 6})
	c.Upsert(ctx, []float64{3}, sortedarray.KeepLeft[float64])
	c.Trim(ctx, span(2, 5))

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(ctx, &rm))

	assert.Equal(t, int64(2), counterValue(t, rm, "sortedarray.window.chunks.merged"))
	assert.Equal(t, int64(1), counterValue(t, rm, "sortedarray.window.gaps.reported"))
	assert.Equal(t, int64(1), counterValue(t, rm, "sortedarray.window.items.upserted"))
	assert.Equal(t, int64(2), counterValue(t, rm, "sortedarray.window.items.trimmed"))
}

func counterValue(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}

			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)

			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}

			return total
		}
	}

	require.Failf(t, "metric not found", "%s", name)

	return 0
}
