package signals

import (
	"encoding/json"
	"math"
	"strconv"
)

// Colors used by the three donut charts.
const (
	ColorRed       = "red"
	ColorLightGrn  = "#90ee90"
	ColorGold      = "#ffd700"
	ColorGray      = "#808080"
	NotApplicable  = "N/A"
	secondsPerHour = 3600
)

// PeakColor returns the chart color of a peak bucket.
func PeakColor(p Peak) string {
	switch p {
	case PeakMorning:
		return ColorLightGrn
	case PeakMidday:
		return ColorGold
	case PeakEvening:
		return ColorRed
	default:
		return ColorGray
	}
}

// Slice is one wedge of a proportion chart.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Stat is an integer summary value that may be undefined because there was
// nothing to compute it from.
type Stat struct {
	value int
	ok    bool
}

// Known wraps a defined value.
func Known(v int) Stat { return Stat{value: v, ok: true} }

// Int returns the value, or ErrNoData when it is undefined.
func (s Stat) Int() (int, error) {
	if !s.ok {
		return 0, ErrNoData
	}
	return s.value, nil
}

// Valid reports whether the value is defined.
func (s Stat) Valid() bool { return s.ok }

func (s Stat) String() string {
	if !s.ok {
		return NotApplicable
	}
	return strconv.Itoa(s.value)
}

// MarshalJSON renders undefined values as null.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.ok {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

func (s *Stat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = Stat{}
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Known(v)
	return nil
}

// percent returns floor(100*num/den), undefined when den is zero.
func percent(num, den int) Stat {
	if den == 0 {
		return Stat{}
	}
	return Known(int(math.Floor(100 * float64(num) / float64(den))))
}

// roundedPercent returns 100*num/den rounded half up, undefined when den
// is zero.
func roundedPercent(num, den int) Stat {
	if den == 0 {
		return Stat{}
	}
	return Known(int(math.Floor(100*float64(num)/float64(den) + 0.5)))
}

// suffixed renders s with a unit suffix unless it is undefined.
func suffixed(s Stat, suffix string) string {
	if !s.ok {
		return NotApplicable
	}
	return s.String() + suffix
}
