package api

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/banshee-data/signal.report/internal/httputil"
	"github.com/banshee-data/signal.report/internal/signals"
)

// option is one entry of a selector drop-down.
type option struct {
	Value    string
	Selected bool
}

type pageData struct {
	Title         string
	Intersection  string
	Intersections []string
	Days          []option
	Approaches    []option
	Travel        []option
	// Query is built by url.Values.Encode and safe to splice into a URL.
	Query         template.URL
	Result        signals.DashboardResult
}

func options(values []string, selected string) []option {
	out := make([]option, len(values))
	for i, v := range values {
		out[i] = option{Value: v, Selected: v == selected}
	}
	return out
}

func (s *Server) showDashboardPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	res, ok := s.compute(w, r, r.PathValue("id"), "html")
	if !ok {
		return
	}
	t, _ := s.tables.Get(res.Intersection)

	days := make([]string, 0, len(t.Days()))
	for _, d := range t.Days() {
		days = append(days, fmt.Sprint(d))
	}
	data := pageData{
		Title:         res.Title,
		Intersection:  res.Intersection,
		Intersections: s.tables.IDs(),
		Days:          options(days, fmt.Sprint(res.Selector.Day)),
		Approaches:    options(append([]string{signals.All}, signals.Approaches...), res.Selector.Approach),
		Travel:        options(append([]string{signals.All}, signals.TravelDirections...), res.Selector.Travel),
		Query:         template.URL(selectorQuery(res.Selector)),
		Result:        res,
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, data); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render page: %v", err))
		return
	}
	httputil.WriteBody(w, "text/html; charset=utf-8", buf.Bytes())
}
