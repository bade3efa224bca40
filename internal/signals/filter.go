package signals

import (
	"fmt"
	"strconv"
)

// Selector is the dashboard query: a required day plus approach and travel
// direction constraints, either of which may be All.
type Selector struct {
	Day      int    `json:"day"`
	Approach string `json:"approach"`
	Travel   string `json:"travel_direction"`
}

// DefaultSelector is what a freshly opened dashboard shows.
func DefaultSelector() Selector {
	return Selector{Day: 1, Approach: All, Travel: All}
}

func (s Selector) String() string {
	return "day=" + strconv.Itoa(s.Day) + " approach=" + s.approach() + " direction=" + s.travel()
}

func (s Selector) approach() string {
	if s.Approach == "" {
		return All
	}
	return s.Approach
}

func (s Selector) travel() string {
	if s.Travel == "" {
		return All
	}
	return s.Travel
}

// Match reports whether r satisfies every active constraint of s.
func (s Selector) Match(r CrossingRecord) bool {
	if r.Day != s.Day {
		return false
	}
	if a := s.approach(); a != All && r.ApproachDirection != a {
		return false
	}
	if d := s.travel(); d != All && r.TravelDirection != d {
		return false
	}
	return true
}

// Validate checks that each constrained value occurs somewhere in t. A
// failing selector still filters cleanly to an empty set; the error only
// tells the caller why.
func (s Selector) Validate(t *Table) error {
	if !t.HasDay(s.Day) {
		return fmt.Errorf("%w: day %d not in %s data", ErrInvalidSelector, s.Day, t.IntersectionID)
	}
	a, d := s.approach(), s.travel()
	var approachSeen, travelSeen bool
	for _, r := range t.rows {
		approachSeen = approachSeen || a == All || r.ApproachDirection == a
		travelSeen = travelSeen || d == All || r.TravelDirection == d
		if approachSeen && travelSeen {
			return nil
		}
	}
	if !approachSeen {
		return fmt.Errorf("%w: approach %q not in %s data", ErrInvalidSelector, a, t.IntersectionID)
	}
	return fmt.Errorf("%w: travel direction %q not in %s data", ErrInvalidSelector, d, t.IntersectionID)
}

// Filter returns the records matching s in their original order. The input
// is never modified and the result never aliases it.
func Filter(rows []CrossingRecord, s Selector) []CrossingRecord {
	out := make([]CrossingRecord, 0, len(rows)/4)
	for _, r := range rows {
		if s.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Filter applies s to the table.
func (t *Table) Filter(s Selector) []CrossingRecord {
	return Filter(t.rows, s)
}

func filterField(rows []CrossingRecord, field func(CrossingRecord) string, values ...string) []CrossingRecord {
	out := make([]CrossingRecord, 0, len(rows))
	for _, r := range rows {
		v := field(r)
		for _, want := range values {
			if v == want {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func redArrival(r CrossingRecord) string   { return r.RedArrival }
func splitFailure(r CrossingRecord) string { return r.SplitFailure }
