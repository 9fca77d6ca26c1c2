package window

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

const (
	metricChunksMerged  = "sortedarray.window.chunks.merged"
	metricGapsReported  = "sortedarray.window.gaps.reported"
	metricItemsTrimmed  = "sortedarray.window.items.trimmed"
	metricItemsUpserted = "sortedarray.window.items.upserted"
)

// collectionMetrics holds the OTel instruments a Collection reports to.
type collectionMetrics struct {
	chunksMerged  metric.Int64Counter
	gapsReported  metric.Int64Counter
	itemsTrimmed  metric.Int64Counter
	itemsUpserted metric.Int64Counter
}

func newCollectionMetrics(mt metric.Meter) (*collectionMetrics, error) {
	chunks, err := mt.Int64Counter(metricChunksMerged,
		metric.WithDescription("Gapless chunks merged into a collection"),
		metric.WithUnit("{chunk}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricChunksMerged, err)
	}

	gaps, err := mt.Int64Counter(metricGapsReported,
		metric.WithDescription("Gaps reported by chunk merges"),
		metric.WithUnit("{gap}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricGapsReported, err)
	}

	trimmed, err := mt.Int64Counter(metricItemsTrimmed,
		metric.WithDescription("Items removed by window trims"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricItemsTrimmed, err)
	}

	upserted, err := mt.Int64Counter(metricItemsUpserted,
		metric.WithDescription("Items offered to point upserts"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricItemsUpserted, err)
	}

	return &collectionMetrics{
		chunksMerged:  chunks,
		gapsReported:  gaps,
		itemsTrimmed:  trimmed,
		itemsUpserted: upserted,
	}, nil
}

func (m *collectionMetrics) recordChunk(ctx context.Context, gaps int) {
	m.chunksMerged.Add(ctx, 1)

	if gaps > 0 {
		m.gapsReported.Add(ctx, int64(gaps))
	}
}

func (m *collectionMetrics) recordTrim(ctx context.Context, removed int) {
	if removed > 0 {
		m.itemsTrimmed.Add(ctx, int64(removed))
	}
}

func (m *collectionMetrics) recordUpsert(ctx context.Context, offered int) {
	m.itemsUpserted.Add(ctx, int64(offered))
}
