package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Swoorup/the-sorted-array/internal/dataset"
	"github.com/Swoorup/the-sorted-array/internal/observability"
	"github.com/Swoorup/the-sorted-array/internal/render"
	"github.com/Swoorup/the-sorted-array/pkg/sortedarray"
	"github.com/Swoorup/the-sorted-array/pkg/window"
)

const replayCommandName = "replay"

// StepResult summarises one replayed step.
type StepResult struct {
	Index   int                          `json:"index"             yaml:"index"`
	Op      string                       `json:"op"                yaml:"op"`
	Len     int                          `json:"len"               yaml:"len"`
	Gaps    []sortedarray.Range[float64] `json:"gaps,omitempty"    yaml:"gaps,omitempty"`
	Removed int                          `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// ReplayResult is the output of the replay command. Missing is reported
// against the script window, or against the final bounds when the script
// has none.
type ReplayResult struct {
	Steps   []StepResult                 `json:"steps"            yaml:"steps"`
	Items   []dataset.Record             `json:"items"            yaml:"items"`
	Gaps    []sortedarray.Range[float64] `json:"gaps"             yaml:"gaps"`
	Window  *sortedarray.Range[float64]  `json:"window,omitempty" yaml:"window,omitempty"`
	Missing []sortedarray.Range[float64] `json:"missing"          yaml:"missing"`
}

// ReplayCommand holds the flags of the replay command.
type ReplayCommand struct {
	g        *Globals
	htmlPath string
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(g *Globals) *cobra.Command {
	rc := &ReplayCommand{g: g}

	cmd := &cobra.Command{
		Use:   replayCommandName + " <script>",
		Short: "Drive a windowed collection through a script of chunk, upsert and trim steps",
		Long: `Replay a script against an empty windowed collection.

chunk steps splice contiguous data and record the gaps it leaves, upsert
steps merge point updates, trim steps drop everything outside a window.
Prints the final items, the known gaps and the ranges still missing.`,
		Args: cobra.ExactArgs(1),
		RunE: rc.run,
	}

	cmd.Flags().StringVar(&rc.htmlPath, "html", "", "Write an HTML coverage chart to this file")

	return cmd
}

func (rc *ReplayCommand) run(cmd *cobra.Command, args []string) error {
	return rc.g.instrument(cmd, replayCommandName, func(ctx context.Context, span trace.Span) (int, error) {
		script, err := dataset.LoadScript(args[0])
		if err != nil {
			return 0, err
		}

		span.SetAttributes(attribute.Int("sortedarray.steps", len(script.Steps)))

		result, read, err := rc.replay(ctx, script)
		if err != nil {
			return read, err
		}

		if rc.htmlPath != "" {
			if chartErr := rc.writeChart(result); chartErr != nil {
				return read, chartErr
			}
		}

		out := cmd.OutOrStdout()

		return read, rc.g.emit(out, result, func() {
			for _, s := range result.Steps {
				render.Status(out, "step %d %s: %d items, %d gaps, %d removed", s.Index, s.Op, s.Len, len(s.Gaps), s.Removed)
			}

			render.Records(out, "Items", result.Items, rc.g.cfg.Render.MaxRows)
			render.Ranges(out, "Gaps", result.Gaps, false)
			render.Ranges(out, "Missing", result.Missing, true)
		})
	})
}

func (rc *ReplayCommand) replay(ctx context.Context, script *dataset.Script) (ReplayResult, int, error) {
	coll, err := window.New(dataset.RecordKey,
		window.WithLogger(rc.g.logger()),
		window.WithMeter(rc.g.providers.Meter),
	)
	if err != nil {
		return ReplayResult{}, 0, err
	}

	result := ReplayResult{Steps: make([]StepResult, 0, len(script.Steps)), Window: script.Window}
	read := 0

	for i, step := range script.Steps {
		stepResult, stepErr := rc.runStep(ctx, coll, i, step)
		if stepErr != nil {
			return result, read, fmt.Errorf("step %d: %w", i, stepErr)
		}

		read += len(step.Items)
		result.Steps = append(result.Steps, stepResult)
	}

	result.Items = orEmpty(coll.Items())
	result.Gaps = orEmpty(coll.Gaps())

	missingWindow, ok := coll.Bounds()
	if script.Window != nil {
		missingWindow, ok = *script.Window, true
	}

	if ok {
		result.Missing = coll.Missing(missingWindow)
	}

	result.Missing = orEmpty(result.Missing)

	return result, read, nil
}

func (rc *ReplayCommand) runStep(
	ctx context.Context,
	coll *window.Collection[dataset.Record, float64],
	index int,
	step dataset.Step,
) (StepResult, error) {
	ctx, span := rc.g.providers.Tracer.Start(ctx, observability.SpanReplayStep,
		trace.WithAttributes(
			attribute.Int("sortedarray.step.index", index),
			attribute.String("sortedarray.step.op", step.Op),
		))
	defer span.End()

	res := StepResult{Index: index, Op: step.Op}

	switch step.Op {
	case dataset.OpChunk:
		res.Gaps = coll.MergeChunk(ctx, step.Items)
	case dataset.OpUpsert:
		resolve, err := dataset.Resolver(step.Resolve)
		if err != nil {
			return res, err
		}

		coll.Upsert(ctx, step.Items, resolve)
	case dataset.OpTrim:
		if step.Window == nil {
			return res, dataset.ErrStepWindow
		}

		res.Removed = coll.Trim(ctx, *step.Window)
	default:
		return res, fmt.Errorf("%w: %q", dataset.ErrUnknownStep, step.Op)
	}

	res.Len = coll.Len()

	return res, nil
}

func (rc *ReplayCommand) writeChart(result ReplayResult) error {
	f, err := os.Create(rc.htmlPath)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}

	chartErr := render.CoverageChart(f, rc.g.cfg.Render.ChartTitle, result.Items, result.Gaps)
	closeErr := f.Close()

	if joined := errors.Join(chartErr, closeErr); joined != nil {
		return fmt.Errorf("write chart %s: %w", rc.htmlPath, joined)
	}

	return nil
}
