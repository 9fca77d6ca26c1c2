// Package render prints sortedarray results for terminals and browsers:
// go-pretty tables, coloured gap and diff lines, and an HTML coverage chart.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Swoorup/the-sorted-array/internal/dataset"
	"github.com/Swoorup/the-sorted-array/pkg/sortedarray"
)

var (
	gapColor     = color.New(color.FgYellow)
	missingColor = color.New(color.FgRed)
	okColor      = color.New(color.FgGreen)
)

// SetColor forces colour output on or off.
func SetColor(enabled bool) {
	color.NoColor = !enabled //nolint:reassign // the library exposes this global for exactly this
}

// FormatKey prints a key without a trailing ".0" for whole numbers.
func FormatKey(k float64) string {
	return strconv.FormatFloat(k, 'f', -1, 64)
}

// FormatRange prints r as [from, to].
func FormatRange(r sortedarray.Range[float64]) string {
	return "[" + FormatKey(r.From) + ", " + FormatKey(r.To) + "]"
}

// Records renders items as an index/key/value table. maxRows > 0 keeps the
// first maxRows rows and notes how many were left out.
func Records(w io.Writer, title string, items []dataset.Record, maxRows int) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(title)
	tbl.AppendHeader(table.Row{"#", "Key", "Value"})

	shown := items
	if maxRows > 0 && len(items) > maxRows {
		shown = items[:maxRows]
	}

	for i, r := range shown {
		value := ""
		if r.Value != nil {
			value = fmt.Sprint(r.Value)
		}

		tbl.AppendRow(table.Row{i, FormatKey(r.Key), value})
	}

	footer := humanize.Comma(int64(len(items))) + " items"
	if hidden := len(items) - len(shown); hidden > 0 {
		footer += " (" + humanize.Comma(int64(hidden)) + " not shown)"
	}

	tbl.AppendFooter(table.Row{"", footer, ""})
	tbl.Render()
}

// Ranges renders key ranges as a table, coloured as gaps or missing spans.
func Ranges(w io.Writer, title string, ranges []sortedarray.Range[float64], missing bool) {
	paint := gapColor
	if missing {
		paint = missingColor
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(title)
	tbl.AppendHeader(table.Row{"From", "To", "Width"})

	for _, r := range ranges {
		tbl.AppendRow(table.Row{
			paint.Sprint(FormatKey(r.From)),
			paint.Sprint(FormatKey(r.To)),
			FormatKey(r.To - r.From),
		})
	}

	tbl.AppendFooter(table.Row{"", "", humanize.Comma(int64(len(ranges)))})
	tbl.Render()
}

// Point prints one insert point.
func Point(w io.Writer, target float64, p sortedarray.InsertPoint) {
	paint := okColor
	if !p.Ok() {
		paint = missingColor
	}

	fmt.Fprintf(w, "%s -> %s\n", FormatKey(target), paint.Sprint(p.String()))
}

// Status prints a green check line.
func Status(w io.Writer, format string, args ...any) {
	okColor.Fprintf(w, "✓ "+format+"\n", args...)
}

// Failure prints a red cross line.
func Failure(w io.Writer, format string, args ...any) {
	missingColor.Fprintf(w, "✗ "+format+"\n", args...)
}
