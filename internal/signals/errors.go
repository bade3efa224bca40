package signals

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTimestamp is returned when an entry time carries no usable hour.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrNoData is returned when a rate or average is requested over no rows.
	ErrNoData = errors.New("no data")

	// ErrInvalidSelector is returned when a selector value does not occur in
	// the loaded table.
	ErrInvalidSelector = errors.New("invalid selector")
)

// LoadError reports why an intersection table could not be built.
type LoadError struct {
	Intersection string
	Path         string
	Row          int // 1-based data row, 0 when not row specific
	Err          error
}

func (e *LoadError) Error() string {
	msg := "load intersection " + e.Intersection
	if e.Path != "" {
		msg += " from " + e.Path
	}
	if e.Row > 0 {
		msg += fmt.Sprintf(" (row %d)", e.Row)
	}
	return msg + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }
