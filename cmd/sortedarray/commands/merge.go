package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Swoorup/the-sorted-array/internal/dataset"
	"github.com/Swoorup/the-sorted-array/internal/render"
	"github.com/Swoorup/the-sorted-array/pkg/sortedarray"
)

// MergeCommand holds the flags of the merge command.
type MergeCommand struct {
	g       *Globals
	resolve string
	inPlace bool
	minKey  float64
	maxKey  float64
	outPath string
}

// NewMergeCommand creates the merge command.
func NewMergeCommand(g *Globals) *cobra.Command {
	mc := &MergeCommand{g: g}

	cmd := &cobra.Command{
		Use:   "merge <left> <right>",
		Short: "Merge two sorted documents",
		Long: `Merge two documents sorted in the same order.

Items with equal keys are resolved by --resolve: left keeps the left item,
right keeps the right item, drop removes both. --min and --max drop merged
items outside the given keys. --in-place merges right into a copy of left
through a single scratch buffer.`,
		Args: cobra.ExactArgs(2),
		RunE: mc.run,
	}

	cmd.Flags().StringVar(&mc.resolve, "resolve", dataset.ResolveLeft, "Duplicate key strategy: left, right, drop")
	cmd.Flags().BoolVar(&mc.inPlace, "in-place", false, "Merge right into left instead of allocating a new result")
	cmd.Flags().Float64Var(&mc.minKey, "min", 0, "Drop merged items with smaller keys")
	cmd.Flags().Float64Var(&mc.maxKey, "max", 0, "Drop merged items with larger keys")
	cmd.Flags().StringVarP(&mc.outPath, "out", "o", "", "Write the merged document to this file")

	return cmd
}

func (mc *MergeCommand) run(cmd *cobra.Command, args []string) error {
	filter := mc.keyFilter(cmd)

	return mc.g.instrument(cmd, "merge", func(ctx context.Context, span trace.Span) (int, error) {
		resolve, err := dataset.Resolver(mc.resolve)
		if err != nil {
			return 0, err
		}

		left, order, err := mc.g.loadDocument(args[0])
		if err != nil {
			return 0, err
		}

		right, rightOrder, err := mc.g.loadDocument(args[1])
		if err != nil {
			return len(left.Items), err
		}

		read := len(left.Items) + len(right.Items)

		if order != rightOrder {
			return read, fmt.Errorf("%w: %s is %s, %s is %s", ErrOrderMismatch, args[0], order, args[1], rightOrder)
		}

		span.SetAttributes(
			attribute.String("sortedarray.resolve", mc.resolve),
			attribute.Bool("sortedarray.in_place", mc.inPlace),
		)

		var merged []dataset.Record

		if mc.inPlace {
			merged = left.Items
			sortedarray.MergeInPlace(&merged, right.Items, dataset.RecordKey, resolve, order, filter)
		} else {
			merged = sortedarray.Merge(left.Items, right.Items, sortedarray.MergeOptions[dataset.Record, float64]{
				Key:     dataset.RecordKey,
				Resolve: resolve,
				Order:   order,
				Filter:  filter,
			})
		}

		if mc.outPath != "" {
			if saveErr := mc.g.save(ctx, mc.outPath, order, merged); saveErr != nil {
				return read, saveErr
			}
		}

		out := cmd.OutOrStdout()
		doc := newDocument(order, merged)

		return read, mc.g.emit(out, doc, func() {
			render.Records(out, fmt.Sprintf("Merged (%s)", order), merged, mc.g.cfg.Render.MaxRows)
		})
	})
}

// keyFilter builds the --min/--max filter, or nil when neither is set.
func (mc *MergeCommand) keyFilter(cmd *cobra.Command) sortedarray.FilterFunc[dataset.Record] {
	hasMin := cmd.Flags().Changed("min")
	hasMax := cmd.Flags().Changed("max")

	if !hasMin && !hasMax {
		return nil
	}

	return func(r dataset.Record) bool {
		if hasMin && r.Key < mc.minKey {
			return false
		}

		return !hasMax || r.Key <= mc.maxKey
	}
}
