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

// ChunkResult is the output of the chunk command.
type ChunkResult struct {
	Items []dataset.Record             `json:"items" yaml:"items"`
	Gaps  []sortedarray.Range[float64] `json:"gaps"  yaml:"gaps"`
}

// ChunkCommand holds the flags of the chunk command.
type ChunkCommand struct {
	g       *Globals
	outPath string
	diff    bool
}

// NewChunkCommand creates the chunk command.
func NewChunkCommand(g *Globals) *cobra.Command {
	cc := &ChunkCommand{g: g}

	cmd := &cobra.Command{
		Use:   "chunk <data> <chunk>",
		Short: "Splice a contiguous chunk into an ascending document and report the gaps it leaves",
		Long: `Splice a contiguous chunk into an ascending document.

Every item of <data> whose key falls within the chunk's first and last keys
is replaced by the chunk. A gap is reported for each neighbour the chunk
did not absorb.`,
		Args: cobra.ExactArgs(2),
		RunE: cc.run,
	}

	cmd.Flags().StringVarP(&cc.outPath, "out", "o", "", "Write the merged document to this file")
	cmd.Flags().BoolVar(&cc.diff, "diff", false, "Print the key changes")

	return cmd
}

func (cc *ChunkCommand) run(cmd *cobra.Command, args []string) error {
	return cc.g.instrument(cmd, "chunk", func(ctx context.Context, span trace.Span) (int, error) {
		doc, err := cc.g.loadAscending(args[0])
		if err != nil {
			return 0, err
		}

		chunk, err := cc.g.loadAscending(args[1])
		if err != nil {
			return len(doc.Items), err
		}

		read := len(doc.Items) + len(chunk.Items)
		before := doc.Keys()

		items := slices.Clone(doc.Items)
		gaps := sortedarray.MergeGaplessChunk(&items, chunk.Items, dataset.RecordKey)

		span.SetAttributes(attribute.Int("sortedarray.gaps", len(gaps)))

		for _, g := range gaps {
			cc.g.logger().DebugContext(ctx, "gap reported", "from", g.From, "to", g.To)
		}

		if cc.outPath != "" {
			if saveErr := cc.g.save(ctx, cc.outPath, sortedarray.Ascending, items); saveErr != nil {
				return read, saveErr
			}
		}

		gaps = orEmpty(gaps)
		out := cmd.OutOrStdout()
		result := ChunkResult{Items: orEmpty(items), Gaps: gaps}

		return read, cc.g.emit(out, result, func() {
			render.Records(out, "Merged", items, cc.g.cfg.Render.MaxRows)
			render.Ranges(out, "Gaps", gaps, false)

			if cc.diff {
				after := (&dataset.Document{Items: items}).Keys()
				diffs := render.KeyDiff(before, after)
				stats := render.DiffStats(diffs)

				render.WriteDiff(out, diffs)
				render.Status(out, "%d added, %d removed, %d kept", stats.Added, stats.Removed, stats.Kept)
			}
		})
	})
}
