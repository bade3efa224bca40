package signals

import (
	"encoding/json"
	"fmt"
)

// Peak is the time-of-day bucket of a crossing.
type Peak int

const (
	PeakMorning Peak = iota
	PeakMidday
	PeakEvening
	PeakOther
)

// Peaks lists the buckets in chart order.
var Peaks = []Peak{PeakMorning, PeakMidday, PeakEvening, PeakOther}

// hourOffset is the byte offset of the two hour digits in EntryTime,
// e.g. "2021-03-04 17:22:05".
const hourOffset = 11

func (p Peak) String() string {
	switch p {
	case PeakMorning:
		return "Morning"
	case PeakMidday:
		return "Midday"
	case PeakEvening:
		return "Evening"
	default:
		return "Other"
	}
}

func (p Peak) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Peak) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParsePeak(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePeak is the inverse of Peak.String.
func ParsePeak(s string) (Peak, error) {
	for _, p := range Peaks {
		if p.String() == s {
			return p, nil
		}
	}
	return PeakOther, fmt.Errorf("unknown peak %q", s)
}

// ClassifyHour maps an hour of day onto its peak. Ranges are inclusive and
// checked Midday, Morning, Evening; everything else is Other.
func ClassifyHour(hour int) Peak {
	switch {
	case hour >= 11 && hour <= 13:
		return PeakMidday
	case hour >= 6 && hour <= 9:
		return PeakMorning
	case hour >= 15 && hour <= 19:
		return PeakEvening
	default:
		return PeakOther
	}
}

// ClassifyEntryTime classifies a timestamp by the two hour digits at a fixed
// offset. Timestamps that do not carry a valid 00-23 hour there return
// PeakOther together with an error wrapping ErrInvalidTimestamp.
func ClassifyEntryTime(entryTime string) (Peak, error) {
	hour, err := entryHour(entryTime)
	if err != nil {
		return PeakOther, err
	}
	return ClassifyHour(hour), nil
}

func entryHour(entryTime string) (int, error) {
	if len(entryTime) < hourOffset+2 {
		return 0, fmt.Errorf("%w: %q is too short", ErrInvalidTimestamp, entryTime)
	}
	c1, c2 := entryTime[hourOffset], entryTime[hourOffset+1]
	if c1 < '0' || c1 > '9' || c2 < '0' || c2 > '9' {
		return 0, fmt.Errorf("%w: %q has no hour at offset %d", ErrInvalidTimestamp, entryTime, hourOffset)
	}
	hour := int(c1-'0')*10 + int(c2-'0')
	if hour > 23 {
		return 0, fmt.Errorf("%w: hour %d in %q", ErrInvalidTimestamp, hour, entryTime)
	}
	return hour, nil
}
