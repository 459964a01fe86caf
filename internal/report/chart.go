package report

import (
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderCommitTimeChart writes a standalone HTML page with bar charts for
// recent and all-time commit hour-of-day histograms.
func RenderCommitTimeChart(w io.Writer, recent, all Histogram) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width: "100%", Height: "480px", Theme: "dark",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Commit Activity by Hour (UTC)",
			Subtitle: "Last 365 days vs. full history",
			Left:     "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "8%", Left: "center"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Hour (UTC)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Commits"}),
	)

	bar.SetXAxis(hourLabels()).
		AddSeries("Last 365 days", bucketsToBarData(recent.Buckets)).
		AddSeries("All time", bucketsToBarData(all.Buckets))

	return bar.Render(w)
}

func hourLabels() []string {
	labels := make([]string, hoursPerDay)

	for h := 0; h < hoursPerDay; h++ {
		labels[h] = strconv.Itoa(h)
	}

	return labels
}

func bucketsToBarData(buckets [hoursPerDay]int) []opts.BarData {
	data := make([]opts.BarData, hoursPerDay)

	for i, c := range buckets {
		data[i] = opts.BarData{Value: c}
	}

	return data
}
