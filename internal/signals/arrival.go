package signals

import "fmt"

// ArrivalSummary is the arrivals-on-green donut and its captions.
type ArrivalSummary struct {
	Title     string   `json:"title"`
	Crossings int      `json:"arrival_crossings"`
	GreenRate Stat     `json:"green_arrival_rate"`
	Slices    []Slice  `json:"slices"`
	Lines     []string `json:"lines"`
}

// ArrivalRate summarises red versus green arrivals over rows whose
// RedArrival is Yes or No. The green rate is the share of those rows that
// arrived on green, rounded to a whole percent: 2 of 3 reads 67%.
func ArrivalRate(rows []CrossingRecord) ArrivalSummary {
	valid := filterField(rows, redArrival, Yes, No)

	var red, green int
	for _, r := range valid {
		if r.RedArrival == No {
			green++
		} else {
			red++
		}
	}

	s := ArrivalSummary{
		Crossings: len(valid),
		GreenRate: roundedPercent(green, len(valid)),
	}
	if red > 0 {
		s.Slices = append(s.Slices, Slice{Label: Yes, Value: float64(red), Color: ColorRed})
	}
	if green > 0 {
		s.Slices = append(s.Slices, Slice{Label: No, Value: float64(green), Color: ColorLightGrn})
	}
	s.Lines = []string{
		"Green Arrival Rate: " + suffixed(s.GreenRate, "%"),
		fmt.Sprintf("Arrival Crossings: %d", s.Crossings),
	}
	return s
}
