package signals

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/signal.report/internal/fsutil"
	"github.com/banshee-data/signal.report/internal/monitoring"
)

// Source locates the two files that make up one intersection.
type Source struct {
	ID           string
	Name         string
	VehiclesPath string
	JourneysPath string
	// JoinKeys defaults to every column the two files share.
	JoinKeys []string
}

// Load reads both files of src, joins them and classifies every record.
// Any failure is returned as a *LoadError; the intersection is then
// unavailable for the lifetime of the process.
func Load(fsys fsutil.FileSystem, src Source) (*Table, error) {
	vehicles, err := readFrame(fsys, src, src.VehiclesPath)
	if err != nil {
		return nil, err
	}
	journeys, err := readFrame(fsys, src, src.JourneysPath)
	if err != nil {
		return nil, err
	}

	keys := src.JoinKeys
	if len(keys) == 0 {
		keys = CommonColumns(vehicles, journeys)
	}
	joined, err := Join(vehicles, journeys, keys)
	if err != nil {
		return nil, &LoadError{Intersection: src.ID, Err: err}
	}

	report := LoadReport{
		VehicleRows: len(vehicles.Rows),
		JourneyRows: len(journeys.Rows),
		JoinedRows:  len(joined.Rows),
		JoinKeys:    keys,
	}
	report.UnmatchedVehicles = countUnmatched(vehicles, journeys, keys)

	rows, invalid, err := FromFrame(joined, keys)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Intersection = src.ID
			return nil, le
		}
		return nil, &LoadError{Intersection: src.ID, Err: err}
	}
	report.InvalidTimestamps = invalid
	if invalid > 0 {
		monitoring.Logf("intersection %s: %d records have no usable entry hour, tagged %s",
			src.ID, invalid, PeakOther)
	}

	name := src.Name
	if name == "" {
		name = "Broward " + src.ID
	}
	return NewTable(src.ID, name, rows, report), nil
}

func readFrame(fsys fsutil.FileSystem, src Source, path string) (*Frame, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, &LoadError{Intersection: src.ID, Path: path, Err: err}
	}
	defer f.Close()

	frame, err := ReadCSV(f)
	if err != nil {
		return nil, &LoadError{Intersection: src.ID, Path: path, Err: err}
	}
	return frame, nil
}

func countUnmatched(vehicles, journeys *Frame, keys []string) int {
	vi := make([]int, len(keys))
	ji := make([]int, len(keys))
	for k, name := range keys {
		vi[k], ji[k] = vehicles.Index(name), journeys.Index(name)
	}
	known := make(map[string]bool, len(journeys.Rows))
	for _, row := range journeys.Rows {
		known[rowKey(row, ji)] = true
	}
	n := 0
	for _, row := range vehicles.Rows {
		if !known[rowKey(row, vi)] {
			n++
		}
	}
	return n
}

// FromFrame converts a joined frame into crossing records. keys name the
// columns that identify a journey. It returns the number of records whose
// entry time could not be classified; those are tagged PeakOther.
func FromFrame(f *Frame, keys []string) ([]CrossingRecord, int, error) {
	idx := make(map[string]int, len(requiredColumns))
	for _, col := range requiredColumns {
		i := f.Index(col)
		if i < 0 {
			return nil, 0, fmt.Errorf("missing required column %q", col)
		}
		idx[col] = i
	}
	var keyIdx []int
	for _, k := range keys {
		if i := f.Index(k); i >= 0 {
			keyIdx = append(keyIdx, i)
		}
	}

	rows := make([]CrossingRecord, 0, len(f.Rows))
	invalid := 0
	for n, cells := range f.Rows {
		day, err := parseDay(cells[idx[ColDay]])
		if err != nil {
			return nil, 0, &LoadError{Row: n + 1, Err: err}
		}
		delay, err := parseDelay(cells[idx[ColDelay]])
		if err != nil {
			return nil, 0, &LoadError{Row: n + 1, Err: err}
		}

		ids := make([]string, len(keyIdx))
		for i, j := range keyIdx {
			ids[i] = cells[j]
		}

		rec := CrossingRecord{
			JourneyID:         strings.Join(ids, "|"),
			Day:               day,
			EntryTime:         cells[idx[ColEntryTime]],
			ApproachDirection: cells[idx[ColApproach]],
			TravelDirection:   cells[idx[ColTravel]],
			DelaySeconds:      delay,
			RedArrival:        cells[idx[ColRedArrival]],
			SplitFailure:      cells[idx[ColSplitFailure]],
		}
		peak, err := ClassifyEntryTime(rec.EntryTime)
		if err != nil {
			invalid++
		}
		rec.Peak = peak
		rows = append(rows, rec)
	}
	return rows, invalid, nil
}

func parseDay(s string) (int, error) {
	s = strings.TrimSpace(s)
	if d, err := strconv.Atoi(s); err == nil {
		return d, nil
	}
	// Spreadsheet round trips turn 3 into "3.0".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("column %s: %q is not a day number", ColDay, s)
	}
	return int(f), nil
}

func parseDelay(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %q is not a number", ColDelay, s)
	}
	return v, nil
}
