package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/Swoorup/the-sorted-array/internal/dataset"
	"github.com/Swoorup/the-sorted-array/internal/render"
)

// ValidationReport is the output of the validate command.
type ValidationReport struct {
	Path       string              `json:"path"                 yaml:"path"`
	Kind       dataset.Kind        `json:"kind"                 yaml:"kind"`
	Valid      bool                `json:"valid"                yaml:"valid"`
	Violations []dataset.Violation `json:"violations,omitempty" yaml:"violations,omitempty"`
	Order      string              `json:"order,omitempty"      yaml:"order,omitempty"`
	Items      int                 `json:"items"                yaml:"items"`
	Error      string              `json:"error,omitempty"      yaml:"error,omitempty"`
}

// ValidateCommand holds the flags of the validate command.
type ValidateCommand struct {
	g      *Globals
	script bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(g *Globals) *cobra.Command {
	vc := &ValidateCommand{g: g}

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a document (or replay script) against its schema and key order",
		Args:  cobra.ExactArgs(1),
		RunE:  vc.run,
	}

	cmd.Flags().BoolVar(&vc.script, "script", false, "Validate a replay script instead of a document")

	return cmd
}

func (vc *ValidateCommand) run(cmd *cobra.Command, args []string) error {
	path := args[0]

	return vc.g.instrument(cmd, "validate", func(_ context.Context, _ trace.Span) (int, error) {
		report := ValidationReport{Path: path, Kind: dataset.KindDocument}
		if vc.script {
			report.Kind = dataset.KindScript
		}

		violations, err := dataset.Validate(path, report.Kind)
		if err != nil {
			return 0, err
		}

		report.Violations = violations

		if len(violations) == 0 {
			vc.check(&report)
		}

		report.Valid = len(report.Violations) == 0 && report.Error == ""

		out := cmd.OutOrStdout()

		emitErr := vc.g.emit(out, report, func() { writeReport(cmd, report) })
		if emitErr != nil {
			return report.Items, emitErr
		}

		if !report.Valid {
			return report.Items, fmt.Errorf("%s: %w", path, ErrValidationFails)
		}

		return report.Items, nil
	})
}

// check runs the semantic checks the schema cannot express.
func (vc *ValidateCommand) check(report *ValidationReport) {
	if report.Kind == dataset.KindScript {
		script, err := dataset.LoadScript(report.Path)
		if err != nil {
			report.Error = err.Error()

			return
		}

		for _, step := range script.Steps {
			report.Items += len(step.Items)
		}

		return
	}

	fallback, err := vc.g.defaultOrder()
	if err != nil {
		report.Error = err.Error()

		return
	}

	doc, err := dataset.Load(report.Path)
	if err != nil {
		report.Error = err.Error()

		return
	}

	report.Items = len(doc.Items)

	order, err := doc.SortOrder(fallback)
	if err != nil {
		report.Error = err.Error()

		return
	}

	report.Order = order.String()

	sortErr := dataset.CheckSorted(doc.Items, order)
	if sortErr != nil {
		report.Error = sortErr.Error()
	}
}

func writeReport(cmd *cobra.Command, report ValidationReport) {
	out := cmd.OutOrStdout()

	if report.Valid {
		render.Status(out, "%s is a valid %s (%d items)", report.Path, report.Kind, report.Items)

		return
	}

	for _, v := range report.Violations {
		render.Failure(out, "%s", v.String())
	}

	if report.Error != "" {
		render.Failure(out, "%s", report.Error)
	}
}
