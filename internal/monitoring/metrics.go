package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DashboardRequests counts dashboard computations per intersection and
	// response format.
	DashboardRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_dashboard_requests_total",
		Help: "Total number of dashboard computations served.",
	}, []string{"intersection", "format"})

	// EmptyResults counts computations whose selectors matched no crossings.
	EmptyResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_dashboard_empty_results_total",
		Help: "Total number of dashboard computations that matched no crossings.",
	}, []string{"intersection"})

	// LoadedRows is the size of each intersection's unified table.
	LoadedRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "signal_loaded_rows",
		Help: "Number of joined crossing records held for an intersection.",
	}, []string{"intersection"})

	// LoadFailures counts intersections that could not be loaded at startup.
	LoadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signal_load_failures_total",
		Help: "Total number of intersections that failed to load.",
	})
)
