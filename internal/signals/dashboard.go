package signals

import (
	"fmt"
	"sort"
)

// DashboardResult is everything one dashboard render needs.
type DashboardResult struct {
	Intersection string          `json:"intersection"`
	Title        string          `json:"title"`
	Selector     Selector        `json:"selector"`
	Arrival      ArrivalSummary  `json:"arrival"`
	Split        SplitSummary    `json:"split_failure"`
	Delay        DelaySummary    `json:"total_delay"`
	Movement     MovementSummary `json:"movement"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// Empty reports whether the selector matched no crossings at all.
func (d DashboardResult) Empty() bool { return d.Delay.Crossings == 0 }

// ComputeDashboard filters t by sel and runs every aggregator over the
// result. Selector values missing from the data produce an empty dashboard
// with a warning rather than an error.
func ComputeDashboard(t *Table, sel Selector) DashboardResult {
	if sel.Approach == "" {
		sel.Approach = All
	}
	if sel.Travel == "" {
		sel.Travel = All
	}

	rows := t.Filter(sel)
	res := DashboardResult{
		Intersection: t.IntersectionID,
		Title:        t.Title(),
		Selector:     sel,
		Arrival:      ArrivalRate(rows),
		Split:        SplitFailure(rows),
		Delay:        TotalDelay(rows),
		Movement:     MovementDelay(t.rows, sel.Day),
	}
	if err := sel.Validate(t); err != nil {
		res.Warnings = append(res.Warnings, err.Error())
	}

	res.Arrival.Title = t.Name + " Arrival Rates"
	res.Split.Title = t.Name + " Split Failure By Peak"
	res.Delay.Title = t.Name + " Total Delay (hours) By Peak"
	res.Movement.Title = fmt.Sprintf("Day %d %s Delay by Movement", sel.Day, t.Name)
	return res
}

// Intersections holds the tables loaded at startup. It is immutable once
// built and safe for concurrent readers.
type Intersections struct {
	tables   map[string]*Table
	order    []string
	failures map[string]error
}

// NewIntersections indexes tables by id. failures records the intersections
// that could not be loaded and why.
func NewIntersections(tables []*Table, failures map[string]error) *Intersections {
	in := &Intersections{
		tables:   make(map[string]*Table, len(tables)),
		failures: make(map[string]error, len(failures)),
	}
	for _, t := range tables {
		if _, dup := in.tables[t.IntersectionID]; dup {
			continue
		}
		in.tables[t.IntersectionID] = t
		in.order = append(in.order, t.IntersectionID)
	}
	for id, err := range failures {
		in.failures[id] = err
	}
	return in
}

// Get returns the table for id.
func (in *Intersections) Get(id string) (*Table, bool) {
	t, ok := in.tables[id]
	return t, ok
}

// IDs returns the loaded intersection ids in load order.
func (in *Intersections) IDs() []string {
	out := make([]string, len(in.order))
	copy(out, in.order)
	return out
}

// Failure returns the load error of an intersection that is unavailable.
func (in *Intersections) Failure(id string) error {
	return in.failures[id]
}

// FailedIDs returns the ids that failed to load, sorted.
func (in *Intersections) FailedIDs() []string {
	out := make([]string, 0, len(in.failures))
	for id := range in.failures {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
