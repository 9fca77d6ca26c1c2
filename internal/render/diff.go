package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// KeyDiffStats counts keys added and removed between two key runs.
type KeyDiffStats struct {
	Added   int `json:"added"   yaml:"added"`
	Removed int `json:"removed" yaml:"removed"`
	Kept    int `json:"kept"    yaml:"kept"`
}

// KeyDiff diffs two key runs one key per line and returns the line diff.
func KeyDiff(before, after []float64) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToRunes(keyLines(before), keyLines(after))
	diffs := dmp.DiffMainRunes(src, dst, false)

	return dmp.DiffCharsToLines(diffs, lines)
}

// DiffStats counts the lines of each diff kind.
func DiffStats(diffs []diffmatchpatch.Diff) KeyDiffStats {
	var stats KeyDiffStats

	for _, d := range diffs {
		n := strings.Count(d.Text, "\n")

		switch d.Type {
		case diffmatchpatch.DiffInsert:
			stats.Added += n
		case diffmatchpatch.DiffDelete:
			stats.Removed += n
		case diffmatchpatch.DiffEqual:
			stats.Kept += n
		}
	}

	return stats
}

// WriteDiff prints the diff in unified style: "+" added, "-" removed,
// " " kept.
func WriteDiff(w io.Writer, diffs []diffmatchpatch.Diff) {
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)

	for _, d := range diffs {
		for line := range strings.SplitSeq(strings.TrimSuffix(d.Text, "\n"), "\n") {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				added.Fprintln(w, "+"+line)
			case diffmatchpatch.DiffDelete:
				removed.Fprintln(w, "-"+line)
			case diffmatchpatch.DiffEqual:
				fmt.Fprintln(w, " "+line)
			}
		}
	}
}

func keyLines(keys []float64) string {
	var sb strings.Builder

	for _, k := range keys {
		sb.WriteString(FormatKey(k))
		sb.WriteByte('\n')
	}

	return sb.String()
}
