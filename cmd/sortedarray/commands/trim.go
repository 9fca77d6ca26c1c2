package commands

import (
	"context"
	"slices"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Swoorup/the-sorted-array/internal/dataset"
	"github.com/Swoorup/the-sorted-array/internal/render"
	"github.com/Swoorup/the-sorted-array/pkg/sortedarray"
)

// TrimCommand holds the flags of the trim command.
type TrimCommand struct {
	g       *Globals
	from    float64
	to      float64
	outPath string
}

// NewTrimCommand creates the trim command.
func NewTrimCommand(g *Globals) *cobra.Command {
	tc := &TrimCommand{g: g}

	cmd := &cobra.Command{
		Use:   "trim <data>",
		Short: "Drop the items of an ascending document outside a key window",
		Args:  cobra.ExactArgs(1),
		RunE:  tc.run,
	}

	cmd.Flags().Float64Var(&tc.from, "from", 0, "Window start (inclusive)")
	cmd.Flags().Float64Var(&tc.to, "to", 0, "Window end (inclusive)")
	cmd.Flags().StringVarP(&tc.outPath, "out", "o", "", "Write the trimmed document to this file")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (tc *TrimCommand) run(cmd *cobra.Command, args []string) error {
	window := sortedarray.Range[float64]{From: tc.from, To: tc.to}

	return tc.g.instrument(cmd, "trim", func(ctx context.Context, span trace.Span) (int, error) {
		if err := checkRange(window); err != nil {
			return 0, err
		}

		doc, err := tc.g.loadAscending(args[0])
		if err != nil {
			return 0, err
		}

		items := slices.Clone(doc.Items)
		sortedarray.TrimByWindow(&items, window, dataset.RecordKey)

		span.SetAttributes(attribute.Int("sortedarray.removed", len(doc.Items)-len(items)))

		if tc.outPath != "" {
			if saveErr := tc.g.save(ctx, tc.outPath, sortedarray.Ascending, items); saveErr != nil {
				return len(doc.Items), saveErr
			}
		}

		out := cmd.OutOrStdout()
		result := newDocument(sortedarray.Ascending, items)

		return len(doc.Items), tc.g.emit(out, result, func() {
			render.Records(out, "Within "+render.FormatRange(window), items, tc.g.cfg.Render.MaxRows)
		})
	})
}
