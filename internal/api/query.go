package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/banshee-data/signal.report/internal/httputil"
	"github.com/banshee-data/signal.report/internal/signals"
)

var errBadDay = errors.New("invalid 'day' parameter")

// parseSelector reads day, approach and direction from the query. Missing
// values fall back to the configured default day and ALL; approach and
// direction values are not checked here so an unknown one yields an empty
// dashboard rather than an error.
func (s *Server) parseSelector(q url.Values) (signals.Selector, error) {
	sel := signals.Selector{
		Day:      s.cfg.GetDefaultDay(),
		Approach: strings.TrimSpace(q.Get("approach")),
		Travel:   strings.TrimSpace(q.Get("direction")),
	}
	if d := strings.TrimSpace(q.Get("day")); d != "" {
		day, err := strconv.Atoi(d)
		if err != nil || day < 0 {
			return signals.Selector{}, fmt.Errorf("%w: %q", errBadDay, d)
		}
		sel.Day = day
	}
	if sel.Approach == "" {
		sel.Approach = signals.All
	}
	if sel.Travel == "" {
		sel.Travel = signals.All
	}
	return sel, nil
}

// selectorQuery is the inverse of parseSelector.
func selectorQuery(sel signals.Selector) string {
	v := url.Values{}
	v.Set("day", strconv.Itoa(sel.Day))
	v.Set("approach", sel.Approach)
	v.Set("direction", sel.Travel)
	return v.Encode()
}

// table resolves an intersection id, writing the error response when it
// cannot. Intersections that failed to load answer 503 with the reason.
func (s *Server) table(w http.ResponseWriter, id string) (*signals.Table, bool) {
	if id == "" {
		httputil.BadRequest(w, "missing 'intersection' parameter")
		return nil, false
	}
	if t, ok := s.tables.Get(id); ok {
		return t, true
	}
	if err := s.tables.Failure(id); err != nil {
		httputil.ServiceUnavailable(w, fmt.Sprintf("intersection %s is unavailable: %v", id, err))
		return nil, false
	}
	httputil.NotFound(w, fmt.Sprintf("unknown intersection %q", id))
	return nil, false
}
