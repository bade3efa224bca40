package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"

	"github.com/banshee-data/signal.report/internal/charts"
	"github.com/banshee-data/signal.report/internal/httputil"
	"github.com/banshee-data/signal.report/internal/monitoring"
	"github.com/banshee-data/signal.report/internal/signals"
	"github.com/banshee-data/signal.report/internal/version"
)

// intersectionInfo is one entry of /api/intersections.
type intersectionInfo struct {
	ID     string              `json:"id"`
	Name   string              `json:"name"`
	Title  string              `json:"title"`
	Days   []int               `json:"days,omitempty"`
	Rows   int                 `json:"rows"`
	Report *signals.LoadReport `json:"report,omitempty"`
	Error  string              `json:"error,omitempty"`
}

func (s *Server) redirectToDefault(w http.ResponseWriter, r *http.Request) {
	target := "/intersections/" + url.PathEscape(s.defaultIntersection())
	http.Redirect(w, r, target, http.StatusFound)
}

// defaultIntersection is the configured default when it loaded, otherwise
// the first intersection that did.
func (s *Server) defaultIntersection() string {
	id := s.cfg.GetDefaultIntersection()
	if _, ok := s.tables.Get(id); ok {
		return id
	}
	if ids := s.tables.IDs(); len(ids) > 0 {
		return ids[0]
	}
	return id
}

func (s *Server) listIntersections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	out := make([]intersectionInfo, 0, len(s.tables.IDs())+len(s.tables.FailedIDs()))
	for _, id := range s.tables.IDs() {
		t, _ := s.tables.Get(id)
		report := t.Report
		out = append(out, intersectionInfo{
			ID: id, Name: t.Name, Title: t.Title(), Days: t.Days(), Rows: t.Len(), Report: &report,
		})
	}
	for _, id := range s.tables.FailedIDs() {
		out = append(out, intersectionInfo{
			ID: id, Name: "Broward " + id, Title: "Broward " + id + " Light", Error: s.tables.Failure(id).Error(),
		})
	}
	httputil.WriteJSONOK(w, out)
}

func (s *Server) listDays(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	t, ok := s.table(w, r.PathValue("id"))
	if !ok {
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"intersection": t.IntersectionID,
		"days":         t.Days(),
	})
}

// compute runs the aggregators for a request and records metrics. It writes
// the error response and returns false when the request is unusable.
func (s *Server) compute(w http.ResponseWriter, r *http.Request, id, format string) (signals.DashboardResult, bool) {
	t, ok := s.table(w, id)
	if !ok {
		return signals.DashboardResult{}, false
	}
	sel, err := s.parseSelector(r.URL.Query())
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return signals.DashboardResult{}, false
	}

	res := signals.ComputeDashboard(t, sel)
	monitoring.DashboardRequests.WithLabelValues(t.IntersectionID, format).Inc()
	if res.Empty() {
		monitoring.EmptyResults.WithLabelValues(t.IntersectionID).Inc()
	}
	return res, true
}

func (s *Server) showDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	id := r.URL.Query().Get("intersection")
	if id == "" {
		id = s.defaultIntersection()
	}
	res, ok := s.compute(w, r, id, "json")
	if !ok {
		return
	}
	httputil.WriteJSONOK(w, res)
}

func (s *Server) showChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	kind := r.PathValue("chart")
	switch kind {
	case "arrival", "split", "delay", "movement":
	default:
		httputil.NotFound(w, fmt.Sprintf("unknown chart %q", kind))
		return
	}

	res, ok := s.compute(w, r, r.PathValue("id"), "chart")
	if !ok {
		return
	}

	var chart charts.Renderer
	switch kind {
	case "arrival":
		chart = charts.ArrivalChart(res.Arrival)
	case "split":
		chart = charts.SplitChart(res.Split)
	case "delay":
		chart = charts.DelayChart(res.Delay)
	case "movement":
		chart = charts.MovementChart(res.Movement)
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	httputil.WriteBody(w, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) showMovementPNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	id := r.URL.Query().Get("intersection")
	if id == "" {
		id = s.defaultIntersection()
	}
	res, ok := s.compute(w, r, id, "png")
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := charts.MovementPNG(&buf, res.Movement, res.Selector.Travel); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render plot: %v", err))
		return
	}
	httputil.WriteBody(w, "image/png", buf.Bytes())
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	type intersection struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	ins := make([]intersection, 0)
	for _, in := range s.cfg.GetIntersections() {
		ins = append(ins, intersection{ID: in.ID, Name: in.DisplayName()})
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"source":               s.cfg.GetSource(),
		"default_intersection": s.defaultIntersection(),
		"default_day":          s.cfg.GetDefaultDay(),
		"intersections":        ins,
		"approaches":           append([]string{signals.All}, signals.Approaches...),
		"travel_directions":    append([]string{signals.All}, signals.TravelDirections...),
	})
}

func (s *Server) showVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, version.Get())
}
