// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"testing"

	"github.com/banshee-data/signal.report/internal/fsutil"
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// Crossing describes one fixture vehicle crossing and its journey.
type Crossing struct {
	Day          int
	EntryTime    string
	Approach     string
	Travel       string
	Delay        string // empty for a missing value
	RedArrival   string
	SplitFailure string
	// NoJourney leaves the crossing out of the journeys file so it has no
	// join partner.
	NoJourney bool
}

// VehiclesHeader and JourneysHeader are the fixture file layouts. They share
// only JourneyId, which becomes the join key.
var (
	VehiclesHeader = []string{"JourneyId", "Day", "EntryTime", "ApproachDirection", "TravelDirection", "Delay"}
	JourneysHeader = []string{"JourneyId", "RedArrival", "SplitFailure"}
)

// JourneyID is the id fixture crossing i is written with.
func JourneyID(i int) string { return "J" + strconv.Itoa(i+1) }

// VehiclesCSV renders the vehicle side of crossings.
func VehiclesCSV(crossings []Crossing) []byte {
	rows := make([][]string, 0, len(crossings))
	for i, c := range crossings {
		rows = append(rows, []string{JourneyID(i), strconv.Itoa(c.Day), c.EntryTime, c.Approach, c.Travel, c.Delay})
	}
	return writeCSV(VehiclesHeader, rows)
}

// JourneysCSV renders the journey side of crossings.
func JourneysCSV(crossings []Crossing) []byte {
	rows := make([][]string, 0, len(crossings))
	for i, c := range crossings {
		if c.NoJourney {
			continue
		}
		rows = append(rows, []string{JourneyID(i), c.RedArrival, c.SplitFailure})
	}
	return writeCSV(JourneysHeader, rows)
}

// WriteIntersection stores both fixture files for id under dir, named the
// way the Broward exports are, and returns their paths.
func WriteIntersection(m *fsutil.MemoryFileSystem, dir, id string, crossings []Crossing) (vehicles, journeys string) {
	vehicles = path.Join(dir, fmt.Sprintf("Broward %s Vehicles.csv", id))
	journeys = path.Join(dir, fmt.Sprintf("Broward %s Journeys.csv", id))
	m.WriteFile(vehicles, VehiclesCSV(crossings))
	m.WriteFile(journeys, JourneysCSV(crossings))
	return vehicles, journeys
}

func writeCSV(header []string, rows [][]string) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(header)
	_ = w.WriteAll(rows)
	return buf.Bytes()
}
