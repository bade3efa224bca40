package signals

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DelaySummary is the total-delay-by-peak donut and its captions.
type DelaySummary struct {
	Title        string `json:"title"`
	Crossings    int    `json:"total_crossings"`
	AverageDelay Stat   `json:"average_delay_seconds"`
	TotalHours   int    `json:"total_delay_hours"`
	// Slices always holds the four peaks in order, zero-hour ones included.
	Slices []Slice  `json:"slices"`
	Lines  []string `json:"lines"`
}

// TotalDelay sums delay over rows. Rows with no recorded delay count as
// crossings but do not contribute to sums or the mean.
func TotalDelay(rows []CrossingRecord) DelaySummary {
	all := make([]float64, 0, len(rows))
	var perPeak [4][]float64
	for _, r := range rows {
		if math.IsNaN(r.DelaySeconds) {
			continue
		}
		all = append(all, r.DelaySeconds)
		perPeak[r.Peak] = append(perPeak[r.Peak], r.DelaySeconds)
	}

	s := DelaySummary{
		Crossings:  len(rows),
		TotalHours: hours(all),
	}
	if len(all) > 0 {
		s.AverageDelay = Known(int(math.Floor(stat.Mean(all, nil))))
	}
	for _, p := range Peaks {
		s.Slices = append(s.Slices, Slice{Label: p.String(), Value: float64(hours(perPeak[p])), Color: PeakColor(p)})
	}
	s.Lines = []string{
		fmt.Sprintf("Total Crossings: %d", s.Crossings),
		"Average Delay: " + suffixed(s.AverageDelay, " (sec/veh)"),
		fmt.Sprintf("Total Delay: %d (hours)", s.TotalHours),
	}
	return s
}

func hours(delays []float64) int {
	if len(delays) == 0 {
		return 0
	}
	return int(math.Floor(floats.Sum(delays) / secondsPerHour))
}
