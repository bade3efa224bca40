package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/signal.report/internal/config"
	"github.com/banshee-data/signal.report/internal/monitoring"
	"github.com/banshee-data/signal.report/internal/signals"
	"github.com/banshee-data/signal.report/internal/testutil"
)

func fixtureServer() *Server {
	rows := []signals.CrossingRecord{
		{Day: 1, ApproachDirection: signals.Northbound, TravelDirection: signals.Straight, RedArrival: signals.No, SplitFailure: signals.No, DelaySeconds: 3600, Peak: signals.PeakMorning},
		{Day: 1, ApproachDirection: signals.Northbound, TravelDirection: signals.Left, RedArrival: signals.No, SplitFailure: signals.Yes, DelaySeconds: 7200, Peak: signals.PeakMorning},
		{Day: 1, ApproachDirection: signals.Northbound, TravelDirection: signals.Left, RedArrival: signals.Yes, SplitFailure: signals.No, DelaySeconds: 1800, Peak: signals.PeakEvening},
		{Day: 1, ApproachDirection: signals.Northbound, TravelDirection: signals.Right, RedArrival: "", SplitFailure: signals.No, DelaySeconds: 0, Peak: signals.PeakOther},
		{Day: 2, ApproachDirection: signals.Eastbound, TravelDirection: signals.Straight, RedArrival: signals.No, SplitFailure: signals.No, DelaySeconds: 60, Peak: signals.PeakMidday},
	}
	tables := []*signals.Table{
		signals.NewTable("3084", "Broward 3084", rows, signals.LoadReport{JoinedRows: len(rows), JoinKeys: []string{"JourneyId"}}),
		signals.NewTable("1037", "Broward 1037", rows[4:], signals.LoadReport{JoinedRows: 1}),
	}
	failures := map[string]error{
		"1113": &signals.LoadError{Intersection: "1113", Path: "Broward 1113 Vehicles.csv", Err: errors.New("file does not exist")},
	}
	return NewServer(signals.NewIntersections(tables, failures), config.EmptyConfig())
}

func serve(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := testutil.NewTestRecorder()
	s.ServeMux().ServeHTTP(rec, testutil.NewTestRequest(method, target))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestRedirectToDefault(t *testing.T) {
	t.Parallel()

	rec := serve(t, fixtureServer(), http.MethodGet, "/")
	testutil.AssertStatusCode(t, rec.Code, http.StatusFound)
	assert.Equal(t, "/intersections/3084", rec.Header().Get("Location"))
}

func TestShowDashboard(t *testing.T) {
	t.Parallel()

	rec := serve(t, fixtureServer(), http.MethodGet, "/api/dashboard?intersection=3084&day=1&approach=Northbound")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var got struct {
		Title    string           `json:"title"`
		Selector signals.Selector `json:"selector"`
		Arrival  struct {
			Crossings int  `json:"arrival_crossings"`
			GreenRate *int `json:"green_arrival_rate"`
		} `json:"arrival"`
		Split struct {
			Rate *int `json:"split_failure_rate"`
		} `json:"split_failure"`
		Delay struct {
			TotalHours int      `json:"total_delay_hours"`
			Lines      []string `json:"lines"`
		} `json:"total_delay"`
		Warnings []string `json:"warnings"`
	}
	decode(t, rec, &got)

	assert.Equal(t, "Broward 3084 Light", got.Title)
	assert.Equal(t, signals.Selector{Day: 1, Approach: signals.Northbound, Travel: signals.All}, got.Selector)
	assert.Equal(t, 3, got.Arrival.Crossings)
	require.NotNil(t, got.Arrival.GreenRate)
	assert.Equal(t, 67, *got.Arrival.GreenRate)
	require.NotNil(t, got.Split.Rate)
	assert.Equal(t, 25, *got.Split.Rate)
	assert.Equal(t, 3, got.Delay.TotalHours)
	assert.Equal(t, "Average Delay: 3150 (sec/veh)", got.Delay.Lines[1])
	assert.Empty(t, got.Warnings)
}

func TestShowDashboard_UnknownSelectorValue(t *testing.T) {
	t.Parallel()

	rec := serve(t, fixtureServer(), http.MethodGet, "/api/dashboard?intersection=3084&day=1&direction=Sideways")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var got map[string]interface{}
	decode(t, rec, &got)
	arrival := got["arrival"].(map[string]interface{})
	assert.Nil(t, arrival["green_arrival_rate"])
	assert.Len(t, got["warnings"], 1)
}

func TestShowDashboard_Errors(t *testing.T) {
	t.Parallel()

	s := fixtureServer()
	tests := []struct {
		name   string
		method string
		target string
		status int
		msg    string
	}{
		{"bad day", http.MethodGet, "/api/dashboard?intersection=3084&day=monday", http.StatusBadRequest, "invalid 'day' parameter"},
		{"negative day", http.MethodGet, "/api/dashboard?intersection=3084&day=-1", http.StatusBadRequest, "invalid 'day' parameter"},
		{"unknown intersection", http.MethodGet, "/api/dashboard?intersection=9999", http.StatusNotFound, "unknown intersection"},
		{"failed intersection", http.MethodGet, "/api/dashboard?intersection=1113", http.StatusServiceUnavailable, "file does not exist"},
		{"wrong method", http.MethodPost, "/api/dashboard", http.StatusMethodNotAllowed, "method not allowed"},
		{"unknown chart", http.MethodGet, "/charts/3084/scatter", http.StatusNotFound, "unknown chart"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := serve(t, s, tt.method, tt.target)
			testutil.AssertStatusCode(t, rec.Code, tt.status)
			var body map[string]string
			decode(t, rec, &body)
			assert.Contains(t, body["error"], tt.msg)
		})
	}
}

func TestListIntersections(t *testing.T) {
	t.Parallel()

	rec := serve(t, fixtureServer(), http.MethodGet, "/api/intersections")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var got []intersectionInfo
	decode(t, rec, &got)
	require.Len(t, got, 3)
	assert.Equal(t, "3084", got[0].ID)
	assert.Equal(t, []int{1, 2}, got[0].Days)
	assert.Equal(t, 5, got[0].Rows)
	require.NotNil(t, got[0].Report)
	assert.Equal(t, []string{"JourneyId"}, got[0].Report.JoinKeys)
	assert.Equal(t, "1113", got[2].ID)
	assert.Contains(t, got[2].Error, "load intersection 1113")
}

func TestListDays(t *testing.T) {
	t.Parallel()

	rec := serve(t, fixtureServer(), http.MethodGet, "/api/intersections/1037/days")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	var got struct {
		Days []int `json:"days"`
	}
	decode(t, rec, &got)
	assert.Equal(t, []int{2}, got.Days)
}

func TestShowChart(t *testing.T) {
	t.Parallel()

	s := fixtureServer()
	for _, kind := range []string{"arrival", "split", "delay", "movement"} {
		rec := serve(t, s, http.MethodGet, "/charts/3084/"+kind+"?day=1")
		testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "echarts")
	}
}

func TestShowMovementPNG(t *testing.T) {
	t.Parallel()

	rec := serve(t, fixtureServer(), http.MethodGet, "/api/movement.png?intersection=3084&day=1&direction=Left")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
}

func TestShowDashboardPage(t *testing.T) {
	t.Parallel()

	rec := serve(t, fixtureServer(), http.MethodGet, "/intersections/3084?day=1&approach=Northbound")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	body := rec.Body.String()

	assert.Contains(t, body, "<title>Broward 3084 Light</title>")
	assert.Contains(t, body, `<option value="Northbound" selected>`)
	assert.Contains(t, body, `<option value="1" selected>`)
	assert.Contains(t, body, "Green Arrival Rate: 67%")
	assert.Contains(t, body, "Total Split Failures: 1")
	assert.Contains(t, body, `src="/charts/3084/arrival?approach=Northbound&amp;day=1&amp;direction=ALL"`)
	assert.Contains(t, body, `<a href="/intersections/1037">`)
}

func TestShowDashboardPage_UnavailableIntersection(t *testing.T) {
	t.Parallel()

	rec := serve(t, fixtureServer(), http.MethodGet, "/intersections/1113")
	testutil.AssertStatusCode(t, rec.Code, http.StatusServiceUnavailable)
}

func TestShowConfigAndVersion(t *testing.T) {
	t.Parallel()

	s := fixtureServer()
	rec := serve(t, s, http.MethodGet, "/api/config")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	var cfg map[string]interface{}
	decode(t, rec, &cfg)
	assert.Equal(t, "csv", cfg["source"])
	assert.Equal(t, "3084", cfg["default_intersection"])
	assert.Equal(t, []interface{}{"ALL", "Straight", "Left", "Right"}, cfg["travel_directions"])

	rec = serve(t, s, http.MethodGet, "/api/version")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	var v map[string]string
	decode(t, rec, &v)
	assert.Equal(t, "dev", v["version"])
}

func TestMetrics(t *testing.T) {
	s := fixtureServer()
	before := promtest.ToFloat64(monitoring.EmptyResults.WithLabelValues("1037"))
	serve(t, s, http.MethodGet, "/api/dashboard?intersection=1037&day=1")
	assert.Equal(t, before+1, promtest.ToFloat64(monitoring.EmptyResults.WithLabelValues("1037")))

	rec := serve(t, s, http.MethodGet, "/metrics")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	assert.Contains(t, rec.Body.String(), "signal_dashboard_requests_total")
}

func TestLoggingMiddleware(t *testing.T) {
	lines, restore := monitoring.Capture()
	defer restore()

	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version?x=1", nil))

	require.Len(t, *lines, 1)
	assert.Contains(t, (*lines)[0], statusCodeColor(http.StatusTeapot))
	assert.Contains(t, (*lines)[0], "/api/version?x=1")
}

func TestStatusCodeColor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, colorBoldGreen+"200"+colorReset, statusCodeColor(200))
	assert.Equal(t, colorYellow+"302"+colorReset, statusCodeColor(302))
	assert.Equal(t, colorBoldRed+"503"+colorReset, statusCodeColor(503))
	assert.Equal(t, "101", statusCodeColor(101))
}
