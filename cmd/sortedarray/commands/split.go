package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/Swoorup/the-sorted-array/internal/dataset"
	"github.com/Swoorup/the-sorted-array/internal/render"
	"github.com/Swoorup/the-sorted-array/pkg/sortedarray"
)

// SplitResult is the output of the split command.
type SplitResult struct {
	Range   sortedarray.Range[float64] `json:"range"   yaml:"range"`
	Left    []dataset.Record           `json:"left"    yaml:"left"`
	Overlap []dataset.Record           `json:"overlap" yaml:"overlap"`
	Right   []dataset.Record           `json:"right"   yaml:"right"`
}

// SplitCommand holds the flags of the split command.
type SplitCommand struct {
	g    *Globals
	from float64
	to   float64
}

// NewSplitCommand creates the split command.
func NewSplitCommand(g *Globals) *cobra.Command {
	sc := &SplitCommand{g: g}

	cmd := &cobra.Command{
		Use:   "split <data>",
		Short: "Split an ascending document into the parts before, inside and after a range",
		Args:  cobra.ExactArgs(1),
		RunE:  sc.run,
	}

	cmd.Flags().Float64Var(&sc.from, "from", 0, "Range start (inclusive)")
	cmd.Flags().Float64Var(&sc.to, "to", 0, "Range end (inclusive)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (sc *SplitCommand) run(cmd *cobra.Command, args []string) error {
	r := sortedarray.Range[float64]{From: sc.from, To: sc.to}

	return sc.g.instrument(cmd, "split", func(_ context.Context, _ trace.Span) (int, error) {
		if err := checkRange(r); err != nil {
			return 0, err
		}

		doc, err := sc.g.loadAscending(args[0])
		if err != nil {
			return 0, err
		}

		left, overlap, right := sortedarray.SplitByRange(doc.Items, dataset.RecordKey, r)
		result := SplitResult{Range: r, Left: left, Overlap: overlap, Right: right}

		out := cmd.OutOrStdout()
		maxRows := sc.g.cfg.Render.MaxRows

		return len(doc.Items), sc.g.emit(out, result, func() {
			render.Records(out, "Before "+render.FormatRange(r), left, maxRows)
			render.Records(out, "Inside "+render.FormatRange(r), overlap, maxRows)
			render.Records(out, "After "+render.FormatRange(r), right, maxRows)
		})
	})
}
