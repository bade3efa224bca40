package signals

import "math"

// MovementCell is the delay of one approach, travel direction and peak.
type MovementCell struct {
	Approach     string  `json:"approach"`
	Travel       string  `json:"travel_direction"`
	Peak         Peak    `json:"peak"`
	Crossings    int     `json:"crossings"`
	DelaySeconds float64 `json:"delay_seconds"`
}

// MovementSummary breaks a day's delay down by turning movement.
type MovementSummary struct {
	Title  string         `json:"title"`
	Day    int            `json:"day"`
	Travel []string       `json:"travel_directions"`
	Cells  []MovementCell `json:"cells"`
}

// MovementDelay sums delay for one day per (approach, travel direction,
// peak), keeping only the four compass approaches. Travel directions appear
// in order of first occurrence.
func MovementDelay(rows []CrossingRecord, day int) MovementSummary {
	type key struct {
		approach, travel string
		peak             Peak
	}
	cells := make(map[key]*MovementCell)
	s := MovementSummary{Day: day}
	seenTravel := make(map[string]bool)

	for _, r := range rows {
		if r.Day != day || !isCompassApproach(r.ApproachDirection) {
			continue
		}
		if !seenTravel[r.TravelDirection] {
			seenTravel[r.TravelDirection] = true
			s.Travel = append(s.Travel, r.TravelDirection)
		}
		k := key{r.ApproachDirection, r.TravelDirection, r.Peak}
		c, ok := cells[k]
		if !ok {
			c = &MovementCell{Approach: k.approach, Travel: k.travel, Peak: k.peak}
			cells[k] = c
		}
		c.Crossings++
		if !math.IsNaN(r.DelaySeconds) {
			c.DelaySeconds += r.DelaySeconds
		}
	}

	for _, travel := range s.Travel {
		for _, a := range Approaches {
			for _, p := range Peaks {
				if c, ok := cells[key{a, travel, p}]; ok {
					s.Cells = append(s.Cells, *c)
				}
			}
		}
	}
	return s
}

// Delay returns the summed delay of one cell, zero when absent.
func (m MovementSummary) Delay(approach, travel string, p Peak) float64 {
	for _, c := range m.Cells {
		if c.Approach == approach && c.Travel == travel && c.Peak == p {
			return c.DelaySeconds
		}
	}
	return 0
}

func isCompassApproach(a string) bool {
	for _, want := range Approaches {
		if a == want {
			return true
		}
	}
	return false
}
