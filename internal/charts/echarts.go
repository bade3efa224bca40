// Package charts renders dashboard summaries: interactive go-echarts pages
// for the browser and static gonum/plot images for export.
package charts

import (
	"io"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/signal.report/internal/signals"
)

// AssetsHost is where rendered pages load echarts.min.js from. Empty uses
// the go-echarts default CDN.
var AssetsHost = ""

// Renderer is satisfied by every go-echarts chart.
type Renderer interface {
	Render(w io.Writer) error
}

func initOpts(pageTitle, height string) opts.Initialization {
	return opts.Initialization{PageTitle: pageTitle, Width: "100%", Height: height, AssetsHost: AssetsHost}
}

// Donut draws slices as a ring chart with a 50% hole. Slice colors are kept
// per wedge so a category has the same color on every page.
func Donut(title string, slices []signals.Slice) *echarts.Pie {
	data := make([]opts.PieData, 0, len(slices))
	for _, s := range slices {
		data = append(data, opts.PieData{
			Name:      s.Label,
			Value:     s.Value,
			ItemStyle: &opts.ItemStyle{Color: s.Color},
		})
	}

	pie := echarts.NewPie()
	pie.SetGlobalOptions(
		echarts.WithInitializationOpts(initOpts(title, "420px")),
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)
	pie.AddSeries(title, data,
		echarts.WithPieChartOpts(opts.PieChart{Radius: []string{"50%", "72%"}}),
		echarts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)
	return pie
}

// ArrivalChart is the red/green arrival donut.
func ArrivalChart(s signals.ArrivalSummary) *echarts.Pie { return Donut(s.Title, s.Slices) }

// SplitChart is the split-failure-by-peak donut.
func SplitChart(s signals.SplitSummary) *echarts.Pie { return Donut(s.Title, s.Slices) }

// DelayChart is the total-delay-hours-by-peak donut.
func DelayChart(s signals.DelaySummary) *echarts.Pie { return Donut(s.Title, s.Slices) }

// MovementChart draws a day's delay per approach, one stack per travel
// direction, each stack split by peak.
func MovementChart(m signals.MovementSummary) *echarts.Bar {
	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithInitializationOpts(initOpts(m.Title, "480px")),
		echarts.WithTitleOpts(opts.Title{Title: m.Title}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		echarts.WithYAxisOpts(opts.YAxis{Name: "Delay (sec)"}),
	)
	bar.SetXAxis(signals.Approaches)

	for _, travel := range m.Travel {
		for _, p := range signals.Peaks {
			values := make([]opts.BarData, len(signals.Approaches))
			nonzero := false
			for i, a := range signals.Approaches {
				d := m.Delay(a, travel, p)
				nonzero = nonzero || d != 0
				values[i] = opts.BarData{Value: d}
			}
			if !nonzero {
				continue
			}
			bar.AddSeries(travel+" "+p.String(), values,
				echarts.WithBarChartOpts(opts.BarChart{Stack: travel}),
				echarts.WithItemStyleOpts(opts.ItemStyle{Color: signals.PeakColor(p)}),
			)
		}
	}
	return bar
}
