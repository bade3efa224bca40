package signals

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crossing(day int, approach, travel, red, split string, delay float64, p Peak) CrossingRecord {
	return CrossingRecord{
		Day:               day,
		ApproachDirection: approach,
		TravelDirection:   travel,
		RedArrival:        red,
		SplitFailure:      split,
		DelaySeconds:      delay,
		Peak:              p,
	}
}

func TestArrivalRate_GreenShare(t *testing.T) {
	t.Parallel()

	table := NewTable("3084", "Broward 3084", []CrossingRecord{
		crossing(1, Northbound, Straight, No, No, 10, PeakMorning),
		crossing(1, Northbound, Left, No, No, 10, PeakMorning),
		crossing(1, Northbound, Straight, Yes, No, 10, PeakEvening),
		crossing(1, Northbound, Right, "", No, 10, PeakEvening),
		crossing(1, Southbound, Straight, Yes, No, 10, PeakEvening),
	}, LoadReport{})

	got := ArrivalRate(table.Filter(Selector{Day: 1, Approach: Northbound, Travel: All}))
	assert.Equal(t, 3, got.Crossings)
	rate, err := got.GreenRate.Int()
	require.NoError(t, err)
	assert.Equal(t, 67, rate)
	assert.Equal(t, []Slice{
		{Label: Yes, Value: 1, Color: ColorRed},
		{Label: No, Value: 2, Color: ColorLightGrn},
	}, got.Slices)
	assert.Equal(t, []string{"Green Arrival Rate: 67%", "Arrival Crossings: 3"}, got.Lines)
}

func TestSplitFailure_Rate(t *testing.T) {
	t.Parallel()

	var rows []CrossingRecord
	for i, v := range []string{Yes, Yes, No, No, No} {
		p := PeakMorning
		if i%2 == 1 {
			p = PeakEvening
		}
		rows = append(rows, crossing(2, Eastbound, Straight, No, v, 1, p))
	}
	rows = append(rows, crossing(2, Eastbound, Straight, No, "", 1, PeakMidday))

	got := SplitFailure(rows)
	assert.Equal(t, 5, got.Crossings)
	assert.Equal(t, 2, got.Failures)
	assert.Equal(t, "40", got.Rate.String())
	assert.Equal(t, [4]int{1, 0, 1, 0}, got.FailuresByPeak)
	assert.Equal(t, []Slice{
		{Label: "Morning", Value: 3, Color: ColorLightGrn},
		{Label: "Evening", Value: 2, Color: ColorRed},
	}, got.Slices)
	assert.Equal(t, []string{
		"Split Failure Rate: 40%",
		"Total Split Failures: 2",
		"Split Failure Crossings: 5",
	}, got.Lines)
}

func TestTotalDelay_Hours(t *testing.T) {
	t.Parallel()

	rows := []CrossingRecord{
		crossing(1, Westbound, Left, No, No, 3600, PeakMorning),
		crossing(1, Westbound, Left, No, No, 7200, PeakMorning),
		crossing(1, Westbound, Left, No, No, 1800, PeakMorning),
	}

	got := TotalDelay(rows)
	assert.Equal(t, 3, got.Crossings)
	assert.Equal(t, 3, got.TotalHours)
	avg, err := got.AverageDelay.Int()
	require.NoError(t, err)
	assert.Equal(t, 4200, avg)

	want := []Slice{
		{Label: "Morning", Value: 3, Color: ColorLightGrn},
		{Label: "Midday", Value: 0, Color: ColorGold},
		{Label: "Evening", Value: 0, Color: ColorRed},
		{Label: "Other", Value: 0, Color: ColorGray},
	}
	if diff := cmp.Diff(want, got.Slices); diff != "" {
		t.Errorf("slices mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{
		"Total Crossings: 3",
		"Average Delay: 4200 (sec/veh)",
		"Total Delay: 3 (hours)",
	}, got.Lines)
}

func TestTotalDelay_MissingDelay(t *testing.T) {
	t.Parallel()

	got := TotalDelay([]CrossingRecord{
		crossing(1, Northbound, Straight, No, No, 100, PeakOther),
		crossing(1, Northbound, Straight, No, No, math.NaN(), PeakOther),
	})
	assert.Equal(t, 2, got.Crossings)
	assert.Equal(t, "100", got.AverageDelay.String())
}

func TestTotalDelay_BucketsSumToTotal(t *testing.T) {
	t.Parallel()

	var rows []CrossingRecord
	for i := 0; i < 400; i++ {
		rows = append(rows, crossing(1, Northbound, Straight, No, No, float64(97+i*13%500), Peaks[i%4]))
	}

	got := TotalDelay(rows)
	sum := 0
	for _, s := range got.Slices {
		sum += int(s.Value)
	}
	assert.LessOrEqual(t, sum, got.TotalHours)
	assert.GreaterOrEqual(t, sum, got.TotalHours-3)
}

func TestSummaries_NoRows(t *testing.T) {
	t.Parallel()

	arrival := ArrivalRate(nil)
	split := SplitFailure(nil)
	delay := TotalDelay(nil)

	_, err := arrival.GreenRate.Int()
	assert.True(t, errors.Is(err, ErrNoData))
	assert.False(t, split.Rate.Valid())
	assert.False(t, delay.AverageDelay.Valid())

	assert.Empty(t, arrival.Slices)
	assert.Empty(t, split.Slices)
	assert.Len(t, delay.Slices, 4)
	assert.Equal(t, "Green Arrival Rate: N/A", arrival.Lines[0])
	assert.Equal(t, "Split Failure Rate: N/A", split.Lines[0])
	assert.Equal(t, "Average Delay: N/A", delay.Lines[1])

	b, err := json.Marshal(arrival)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"green_arrival_rate":null`)
}

func TestStat_JSON(t *testing.T) {
	t.Parallel()

	var s struct {
		A Stat `json:"a"`
		B Stat `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":41,"b":null}`), &s))
	assert.Equal(t, Known(41), s.A)
	assert.False(t, s.B.Valid())
}

func TestMovementDelay(t *testing.T) {
	t.Parallel()

	rows := []CrossingRecord{
		crossing(1, Southbound, Left, No, No, 30, PeakMorning),
		crossing(1, Northbound, Straight, No, No, 10, PeakMorning),
		crossing(1, Northbound, Straight, No, No, 15, PeakMorning),
		crossing(1, Northbound, Straight, No, No, 5, PeakEvening),
		crossing(1, "Unknown", Straight, No, No, 99, PeakMorning),
		crossing(2, Northbound, Straight, No, No, 1000, PeakMorning),
	}

	got := MovementDelay(rows, 1)
	assert.Equal(t, []string{Left, Straight}, got.Travel)
	assert.Equal(t, []MovementCell{
		{Approach: Southbound, Travel: Left, Peak: PeakMorning, Crossings: 1, DelaySeconds: 30},
		{Approach: Northbound, Travel: Straight, Peak: PeakMorning, Crossings: 2, DelaySeconds: 25},
		{Approach: Northbound, Travel: Straight, Peak: PeakEvening, Crossings: 1, DelaySeconds: 5},
	}, got.Cells)
	assert.Equal(t, 25.0, got.Delay(Northbound, Straight, PeakMorning))
	assert.Equal(t, 0.0, got.Delay(Eastbound, Straight, PeakMorning))
}
