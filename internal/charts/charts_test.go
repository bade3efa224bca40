package charts

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/signal.report/internal/signals"
)

func movementFixture() signals.MovementSummary {
	return signals.MovementSummary{
		Title:  "Day 1 Broward 3084 Delay by Movement",
		Day:    1,
		Travel: []string{signals.Straight, signals.Left},
		Cells: []signals.MovementCell{
			{Approach: signals.Northbound, Travel: signals.Straight, Peak: signals.PeakMorning, Crossings: 2, DelaySeconds: 40},
			{Approach: signals.Eastbound, Travel: signals.Left, Peak: signals.PeakEvening, Crossings: 1, DelaySeconds: 15},
		},
	}
}

func render(t *testing.T, r Renderer) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf))
	return buf.String()
}

func TestArrivalChart(t *testing.T) {
	t.Parallel()

	html := render(t, ArrivalChart(signals.ArrivalSummary{
		Title: "Broward 3084 Arrival Rates",
		Slices: []signals.Slice{
			{Label: signals.Yes, Value: 1, Color: signals.ColorRed},
			{Label: signals.No, Value: 2, Color: signals.ColorLightGrn},
		},
	}))
	assert.Contains(t, html, "Broward 3084 Arrival Rates")
	assert.Contains(t, html, signals.ColorLightGrn)
	assert.Contains(t, html, "50%")
	assert.Contains(t, html, "echarts.min.js")
}

func TestDelayChart_AllPeaks(t *testing.T) {
	t.Parallel()

	s := signals.TotalDelay(nil)
	s.Title = "Broward 1037 Total Delay (hours) By Peak"
	html := render(t, DelayChart(s))
	for _, p := range signals.Peaks {
		assert.Contains(t, html, p.String())
	}
}

func TestSplitChart_Empty(t *testing.T) {
	t.Parallel()

	html := render(t, SplitChart(signals.SplitFailure(nil)))
	assert.Contains(t, html, "<html")
}

func TestMovementChart(t *testing.T) {
	t.Parallel()

	html := render(t, MovementChart(movementFixture()))
	assert.Contains(t, html, "Straight Morning")
	assert.Contains(t, html, "Left Evening")
	assert.NotContains(t, html, "Left Morning")
	assert.Contains(t, html, signals.Westbound)
}

func TestMovementPNG(t *testing.T) {
	t.Parallel()

	for _, travel := range []string{signals.All, signals.Left} {
		var buf bytes.Buffer
		require.NoError(t, MovementPNG(&buf, movementFixture(), travel))

		img, err := png.Decode(&buf)
		require.NoError(t, err, travel)
		assert.Positive(t, img.Bounds().Dx())
	}
}

func TestParseColor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, color.RGBA{R: 255, A: 255}, parseColor(signals.ColorRed))
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xd7, A: 255}, parseColor(signals.ColorGold))
	assert.Equal(t, color.Gray{Y: 128}, parseColor("teal"))
}
