package charts

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/signal.report/internal/signals"
)

// MovementPNG writes a stacked bar chart of delay per approach, split by
// peak, as a PNG image. travel restricts the bars to one travel direction;
// signals.All sums every direction.
func MovementPNG(w io.Writer, m signals.MovementSummary, travel string) error {
	p := plot.New()
	p.Title.Text = m.Title
	if travel != signals.All {
		p.Title.Text += " (" + travel + ")"
	}
	p.Y.Label.Text = "Delay (sec)"
	p.Legend.Top = true

	barWidth := vg.Points(28)
	var below *plotter.BarChart
	for _, peak := range signals.Peaks {
		values := make(plotter.Values, len(signals.Approaches))
		for i, a := range signals.Approaches {
			for _, c := range m.Cells {
				if c.Approach == a && c.Peak == peak && (travel == signals.All || c.Travel == travel) {
					values[i] += c.DelaySeconds
				}
			}
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return fmt.Errorf("failed to build %s bars: %w", peak, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = parseColor(signals.PeakColor(peak))
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		p.Legend.Add(peak.String(), bars)
		below = bars
	}
	p.NominalX(signals.Approaches...)

	wt, err := p.WriterTo(8*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

// parseColor understands the "#rrggbb" and named colors used by the
// dashboard palette.
func parseColor(s string) color.Color {
	if s == signals.ColorRed {
		return color.RGBA{R: 255, A: 255}
	}
	if len(s) == 7 && s[0] == '#' {
		if v, err := strconv.ParseUint(s[1:], 16, 32); err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
		}
	}
	return color.Gray{Y: 128}
}
