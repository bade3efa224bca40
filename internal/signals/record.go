package signals

import (
	"fmt"
	"strings"
)

// Approach and travel direction values offered by the dashboard selectors.
// Raw data may contain others; those rows only appear under "ALL".
const (
	Northbound = "Northbound"
	Eastbound  = "Eastbound"
	Southbound = "Southbound"
	Westbound  = "Westbound"

	Straight = "Straight"
	Left     = "Left"
	Right    = "Right"

	// All disables the approach or travel direction constraint.
	All = "ALL"

	Yes = "Yes"
	No  = "No"
)

// Approaches lists the compass approaches in selector order.
var Approaches = []string{Northbound, Eastbound, Southbound, Westbound}

// TravelDirections lists the turning movements in selector order.
var TravelDirections = []string{Straight, Left, Right}

// Source column names required in the joined vehicle/journey table.
const (
	ColDay          = "Day"
	ColEntryTime    = "EntryTime"
	ColApproach     = "ApproachDirection"
	ColTravel       = "TravelDirection"
	ColDelay        = "Delay"
	ColRedArrival   = "RedArrival"
	ColSplitFailure = "SplitFailure"
)

var requiredColumns = []string{
	ColDay, ColEntryTime, ColApproach, ColTravel, ColDelay, ColRedArrival, ColSplitFailure,
}

// CrossingRecord is one vehicle crossing joined with its journey.
type CrossingRecord struct {
	JourneyID         string  `json:"journey_id"`
	Day               int     `json:"day"`
	EntryTime         string  `json:"entry_time"`
	ApproachDirection string  `json:"approach_direction"`
	TravelDirection   string  `json:"travel_direction"`
	DelaySeconds      float64 `json:"delay_seconds"` // NaN when the source cell was empty
	RedArrival        string  `json:"red_arrival"`
	SplitFailure      string  `json:"split_failure"`
	Peak              Peak    `json:"peak"`
}

// LoadReport summarises how a Table was assembled.
type LoadReport struct {
	VehicleRows       int      `json:"vehicle_rows"`
	JourneyRows       int      `json:"journey_rows"`
	JoinedRows        int      `json:"joined_rows"`
	UnmatchedVehicles int      `json:"unmatched_vehicles"`
	InvalidTimestamps int      `json:"invalid_timestamps"`
	JoinKeys          []string `json:"join_keys"`
}

func (r LoadReport) String() string {
	return fmt.Sprintf("vehicles=%d journeys=%d joined=%d unmatched=%d invalid_timestamps=%d keys=[%s]",
		r.VehicleRows, r.JourneyRows, r.JoinedRows, r.UnmatchedVehicles, r.InvalidTimestamps,
		strings.Join(r.JoinKeys, ","))
}

// Table is the unified crossing table of one intersection.
type Table struct {
	IntersectionID string
	Name           string
	Report         LoadReport

	rows []CrossingRecord
	days []int
}

// NewTable wraps rows in a Table. The slice is owned by the Table afterwards.
func NewTable(id, name string, rows []CrossingRecord, report LoadReport) *Table {
	t := &Table{IntersectionID: id, Name: name, Report: report, rows: rows}
	seen := make(map[int]bool)
	for _, r := range rows {
		if !seen[r.Day] {
			seen[r.Day] = true
			t.days = append(t.days, r.Day)
		}
	}
	return t
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns a copy of the records.
func (t *Table) Rows() []CrossingRecord {
	out := make([]CrossingRecord, len(t.rows))
	copy(out, t.rows)
	return out
}

// Days returns the distinct day numbers in order of first appearance.
func (t *Table) Days() []int {
	out := make([]int, len(t.days))
	copy(out, t.days)
	return out
}

// HasDay reports whether any record falls on day.
func (t *Table) HasDay(day int) bool {
	for _, d := range t.days {
		if d == day {
			return true
		}
	}
	return false
}

// Title is the page heading, "Broward <id> Light".
func (t *Table) Title() string {
	return "Broward " + t.IntersectionID + " Light"
}
