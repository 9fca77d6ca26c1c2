package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Swoorup/the-sorted-array/internal/dataset"
	"github.com/Swoorup/the-sorted-array/internal/render"
	"github.com/Swoorup/the-sorted-array/pkg/sortedarray"
)

// PointResult is an insert point in output form. Index is omitted for
// NoPoint.
type PointResult struct {
	Target float64 `json:"target"          yaml:"target"`
	Kind   string  `json:"kind"            yaml:"kind"`
	Index  *int    `json:"index,omitempty" yaml:"index,omitempty"`

	point sortedarray.InsertPoint
}

// SearchResult is the output of the search command. To is set for range
// searches only.
type SearchResult struct {
	Order string       `json:"order"        yaml:"order"`
	From  PointResult  `json:"from"         yaml:"from"`
	To    *PointResult `json:"to,omitempty" yaml:"to,omitempty"`
}

// SearchCommand holds the flags of the search command.
type SearchCommand struct {
	g    *Globals
	from float64
	to   float64
}

// NewSearchCommand creates the search command.
func NewSearchCommand(g *Globals) *cobra.Command {
	sc := &SearchCommand{g: g}

	cmd := &cobra.Command{
		Use:   "search <data>",
		Short: "Find the insert point of a key, or the points bounding a range",
		Long: `Find where a key sits in a sorted document.

With --from only, prints the insert point of that key. With --to as well,
prints the points bounding the inclusive range [from, to]. Descending
documents are searched in reverse.`,
		Args: cobra.ExactArgs(1),
		RunE: sc.run,
	}

	cmd.Flags().Float64Var(&sc.from, "from", 0, "Key to search, or range start")
	cmd.Flags().Float64Var(&sc.to, "to", 0, "Range end (switches to range search)")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func (sc *SearchCommand) run(cmd *cobra.Command, args []string) error {
	ranged := cmd.Flags().Changed("to")

	return sc.g.instrument(cmd, "search", func(_ context.Context, span trace.Span) (int, error) {
		doc, order, err := sc.g.loadDocument(args[0])
		if err != nil {
			return 0, err
		}

		span.SetAttributes(attribute.String("sortedarray.order", order.String()), attribute.Bool("sortedarray.ranged", ranged))

		var result SearchResult

		if ranged {
			r := sortedarray.Range[float64]{From: sc.from, To: sc.to}
			if order == sortedarray.Descending {
				r = sortedarray.Range[float64]{From: sc.to, To: sc.from}
			}

			if rangeErr := checkRange(r); rangeErr != nil {
				return len(doc.Items), rangeErr
			}

			result = searchRange(doc.Items, order, sc.from, sc.to)
		} else {
			result = searchPoint(doc.Items, order, sc.from)
		}

		out := cmd.OutOrStdout()

		return len(doc.Items), sc.g.emit(out, result, func() {
			render.Point(out, result.From.Target, result.From.point)

			if result.To != nil {
				render.Point(out, result.To.Target, result.To.point)
			}
		})
	})
}

func searchPoint(items []dataset.Record, order sortedarray.Order, target float64) SearchResult {
	var p sortedarray.InsertPoint

	if order == sortedarray.Descending {
		p = sortedarray.FindInsertPointReversed(items, dataset.RecordKey, target)
	} else {
		p = sortedarray.FindInsertPoint(items, dataset.RecordKey, target)
	}

	return SearchResult{Order: order.String(), From: newPointResult(target, p)}
}

// searchRange resolves [from, to] in search order: for descending data from
// is the larger key.
func searchRange(items []dataset.Record, order sortedarray.Order, from, to float64) SearchResult {
	r := sortedarray.Range[float64]{From: from, To: to}

	var points sortedarray.RangePoints

	if order == sortedarray.Descending {
		points = sortedarray.SearchRangeReversed(items, dataset.RecordKey, r)
	} else {
		points = sortedarray.SearchRange(items, dataset.RecordKey, r)
	}

	toPoint := newPointResult(to, points.To)

	return SearchResult{Order: order.String(), From: newPointResult(from, points.From), To: &toPoint}
}

func newPointResult(target float64, p sortedarray.InsertPoint) PointResult {
	res := PointResult{Target: target, Kind: p.Kind.String(), point: p}
	if p.Ok() {
		idx := p.Index
		res.Index = &idx
	}

	return res
}
