package signals

import "fmt"

// SplitSummary is the split-failure-by-peak donut and its captions.
type SplitSummary struct {
	Title     string  `json:"title"`
	Crossings int     `json:"split_crossings"`
	Failures  int     `json:"total_split_failures"`
	Rate      Stat    `json:"split_failure_rate"`
	Slices    []Slice `json:"slices"`
	// FailuresByPeak counts the Yes rows of each bucket, indexed by Peak.
	FailuresByPeak [4]int   `json:"failures_by_peak"`
	Lines          []string `json:"lines"`
}

// SplitFailure summarises rows whose SplitFailure is Yes or No. The chart
// groups all of those rows by peak; the rate is floor(100*failures/crossings)
// and is undefined when nothing matched.
func SplitFailure(rows []CrossingRecord) SplitSummary {
	valid := filterField(rows, splitFailure, Yes, No)

	var perPeak [4]int
	s := SplitSummary{Crossings: len(valid)}
	for _, r := range valid {
		perPeak[r.Peak]++
		if r.SplitFailure == Yes {
			s.Failures++
			s.FailuresByPeak[r.Peak]++
		}
	}
	s.Rate = percent(s.Failures, s.Crossings)

	for _, p := range Peaks {
		if perPeak[p] == 0 {
			continue
		}
		s.Slices = append(s.Slices, Slice{Label: p.String(), Value: float64(perPeak[p]), Color: PeakColor(p)})
	}
	s.Lines = []string{
		"Split Failure Rate: " + suffixed(s.Rate, "%"),
		fmt.Sprintf("Total Split Failures: %d", s.Failures),
		fmt.Sprintf("Split Failure Crossings: %d", s.Crossings),
	}
	return s
}
