package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Swoorup/the-sorted-array/internal/dataset"
	"github.com/Swoorup/the-sorted-array/pkg/sortedarray"
)

const (
	chartWidth     = "100%"
	chartHeight    = "500px"
	lineWidth      = 2
	gapSymbolSize  = 12
	seriesKeys     = "Keys"
	seriesGapStart = "Gap start"
)

// CoverageChart writes an HTML page plotting each item's key against its
// index, with a marker on every item that opens a known gap.
func CoverageChart(w io.Writer, title string, items []dataset.Record, gaps []sortedarray.Range[float64]) error {
	gapStarts := make(map[float64]bool, len(gaps))
	for _, g := range gaps {
		gapStarts[g.From] = true
	}

	labels := make([]string, len(items))
	keys := make([]opts.LineData, len(items))
	markers := make([]opts.LineData, len(items))

	for i, r := range items {
		labels[i] = strconv.Itoa(i)
		keys[i] = opts.LineData{Value: r.Key}

		if gapStarts[r.Key] {
			markers[i] = opts.LineData{Value: r.Key, Symbol: "circle", SymbolSize: gapSymbolSize}
		} else {
			markers[i] = opts.LineData{Value: "-"}
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: humanize.Comma(int64(len(items))) + " items, " + humanize.Comma(int64(len(gaps))) + " gaps",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Index"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Key"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(labels)
	line.AddSeries(seriesKeys, keys,
		charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
	)
	line.AddSeries(seriesGapStart, markers,
		charts.WithLineStyleOpts(opts.LineStyle{Width: 0, Opacity: opts.Float(0)}),
	)

	err := line.Render(w)
	if err != nil {
		return fmt.Errorf("render coverage chart: %w", err)
	}

	return nil
}
