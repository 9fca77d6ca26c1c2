// Package window keeps a sorted, partially known run of items and tracks the
// key ranges between them that have not been loaded yet.
//
// Items arrive either as gapless chunks, which replace whatever the
// collection held inside their key span, or as point upserts. Every chunk
// merge reports the gaps it leaves against its neighbours; the collection
// remembers them so callers can ask which parts of a window are still
// missing. A Collection is owned by one goroutine; callers serialize access.
package window

import (
	"context"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/Swoorup/the-sorted-array/pkg/sortedarray"
)

const meterName = "github.com/Swoorup/the-sorted-array/pkg/window"

type options struct {
	logger *slog.Logger
	meter  metric.Meter
}

// Option configures a Collection.
type Option func(*options)

// WithLogger sets the logger used for debug events. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMeter sets the meter the collection's counters are created from.
// Defaults to a no-op meter.
func WithMeter(meter metric.Meter) Option {
	return func(o *options) {
		o.meter = meter
	}
}

// Collection is an ascending run of items keyed by K plus the gaps known to
// lie between them.
type Collection[T any, K sortedarray.Number] struct {
	key     func(T) K
	items   []T
	gaps    []sortedarray.Range[K] // Ascending by From, non-overlapping.
	logger  *slog.Logger
	metrics *collectionMetrics
}

// New creates an empty collection ordered by key.
func New[T any, K sortedarray.Number](key func(T) K, opts ...Option) (*Collection[T, K], error) {
	o := options{}

	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	if o.meter == nil {
		o.meter = noop.NewMeterProvider().Meter(meterName)
	}

	m, err := newCollectionMetrics(o.meter)
	if err != nil {
		return nil, err
	}

	return &Collection[T, K]{
		key:     key,
		logger:  o.logger,
		metrics: m,
	}, nil
}

// Len returns the number of items held.
func (c *Collection[T, K]) Len() int {
	return len(c.items)
}

// Items returns a copy of the held items in ascending key order.
func (c *Collection[T, K]) Items() []T {
	return slices.Clone(c.items)
}

// Bounds returns the keys of the first and last held items.
func (c *Collection[T, K]) Bounds() (sortedarray.Range[K], bool) {
	return sortedarray.ExtractRange(c.items, c.key)
}

// Gaps returns a copy of the known gaps in ascending order.
func (c *Collection[T, K]) Gaps() []sortedarray.Range[K] {
	return slices.Clone(c.gaps)
}

// MergeChunk splices a gapless ascending chunk into the collection and
// returns the gaps it left against its neighbours. Known gaps are cut back to
// the parts the chunk does not cover before the new ones are recorded.
func (c *Collection[T, K]) MergeChunk(ctx context.Context, chunk []T) []sortedarray.Range[K] {
	span, ok := sortedarray.ExtractRange(chunk, c.key)
	if !ok {
		return nil
	}

	reported := sortedarray.MergeGaplessChunk(&c.items, chunk, c.key)

	c.gaps = clipGaps(c.gaps, span)
	sortedarray.MergeInPlace(&c.gaps, reported, gapKey[K], widerGap[K], sortedarray.Ascending, nil)
	c.gaps = coalesceGaps(c.gaps)

	for _, g := range reported {
		c.logger.DebugContext(ctx, "gap reported", "from", g.From, "to", g.To)
	}

	c.logger.DebugContext(ctx, "chunk merged",
		"chunk_from", span.From, "chunk_to", span.To,
		"items", len(c.items), "gaps", len(c.gaps))
	c.metrics.recordChunk(ctx, len(reported))

	return reported
}

// Upsert merges point items into the collection. Equal keys are settled by
// resolve with the held item on the left. Known gaps are not touched.
func (c *Collection[T, K]) Upsert(ctx context.Context, items []T, resolve sortedarray.ResolveFunc[T]) {
	if len(items) == 0 {
		return
	}

	sortedarray.MergeInPlace(&c.items, items, c.key, resolve, sortedarray.Ascending, nil)

	c.logger.DebugContext(ctx, "items upserted", "offered", len(items), "items", len(c.items))
	c.metrics.recordUpsert(ctx, len(items))
}

// Query returns a copy of the held items whose keys lie in r.
func (c *Collection[T, K]) Query(r sortedarray.Range[K]) []T {
	_, overlap, _ := sortedarray.SplitByRange(c.items, c.key, r)

	return overlap
}

// Missing returns the parts of window the collection cannot answer: the
// stretch before the first item, each known gap, and the stretch after the
// last item, all clipped to window. An empty collection, or one disjoint
// from window, misses the whole window.
func (c *Collection[T, K]) Missing(window sortedarray.Range[K]) []sortedarray.Range[K] {
	bounds, ok := c.Bounds()
	if !ok || window.To < bounds.From || window.From > bounds.To {
		return []sortedarray.Range[K]{window}
	}

	var missing []sortedarray.Range[K]

	if window.From < bounds.From {
		missing = append(missing, sortedarray.Range[K]{From: window.From, To: bounds.From})
	}

	for _, g := range c.gaps {
		if g.From >= window.To || g.To <= window.From {
			continue
		}

		missing = append(missing, sortedarray.Range[K]{From: max(g.From, window.From), To: min(g.To, window.To)})
	}

	if window.To > bounds.To {
		missing = append(missing, sortedarray.Range[K]{From: bounds.To, To: window.To})
	}

	return missing
}

// Trim drops every item outside window along with the gaps no longer
// bounded by held items, and returns how many items were removed.
func (c *Collection[T, K]) Trim(ctx context.Context, window sortedarray.Range[K]) int {
	before := len(c.items)

	sortedarray.TrimByWindow(&c.items, window, c.key)

	removed := before - len(c.items)

	bounds, ok := c.Bounds()
	if !ok {
		c.gaps = nil
	} else {
		c.gaps = slices.DeleteFunc(c.gaps, func(g sortedarray.Range[K]) bool {
			return g.From < bounds.From || g.To > bounds.To
		})
	}

	c.logger.DebugContext(ctx, "collection trimmed",
		"from", window.From, "to", window.To,
		"removed", removed, "items", len(c.items), "gaps", len(c.gaps))
	c.metrics.recordTrim(ctx, removed)

	return removed
}

func gapKey[K sortedarray.Number](g sortedarray.Range[K]) K {
	return g.From
}

// clipGaps removes span from every gap it intersects, keeping the pieces on
// either side.
func clipGaps[K sortedarray.Number](gaps []sortedarray.Range[K], span sortedarray.Range[K]) []sortedarray.Range[K] {
	out := make([]sortedarray.Range[K], 0, len(gaps)+1)

	for _, g := range gaps {
		if g.From >= span.To || g.To <= span.From {
			out = append(out, g)

			continue
		}

		if g.From < span.From {
			out = append(out, sortedarray.Range[K]{From: g.From, To: span.From})
		}

		if g.To > span.To {
			out = append(out, sortedarray.Range[K]{From: span.To, To: g.To})
		}
	}

	return out
}

func widerGap[K sortedarray.Number](left, right sortedarray.Range[K]) (sortedarray.Range[K], bool) {
	return sortedarray.Range[K]{From: left.From, To: max(left.To, right.To)}, true
}

// coalesceGaps joins overlapping gaps of an ascending list. Gaps that only
// touch stay apart.
func coalesceGaps[K sortedarray.Number](gaps []sortedarray.Range[K]) []sortedarray.Range[K] {
	if len(gaps) < 2 {
		return gaps
	}

	out := gaps[:1]

	for _, g := range gaps[1:] {
		last := &out[len(out)-1]
		if g.From < last.To {
			last.To = max(last.To, g.To)

			continue
		}

		out = append(out, g)
	}

	return out
}
