package main

import (
	"context"
	"fmt"

	"github.com/banshee-data/signal.report/internal/config"
	"github.com/banshee-data/signal.report/internal/db"
	"github.com/banshee-data/signal.report/internal/fsutil"
	"github.com/banshee-data/signal.report/internal/monitoring"
	"github.com/banshee-data/signal.report/internal/signals"
)

// overrides are command line values that replace config file fields.
type overrides struct {
	Listen, DataDir, DBPath, Source string
}

func loadConfig(path string, o overrides) (*config.Config, error) {
	cfg := config.EmptyConfig()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	for _, f := range []struct {
		dst **string
		val string
	}{
		{&cfg.Listen, o.Listen},
		{&cfg.DataDir, o.DataDir},
		{&cfg.DBPath, o.DBPath},
		{&cfg.Source, o.Source},
	} {
		if f.val != "" {
			v := f.val
			*f.dst = &v
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// sources resolves every configured intersection's file paths. An
// intersection whose paths escape the data directory is reported as a
// failure instead of a source.
func sources(cfg *config.Config) ([]signals.Source, map[string]error) {
	var out []signals.Source
	failures := make(map[string]error)
	for _, in := range cfg.GetIntersections() {
		vehicles, err := cfg.ResolvePath(in.Vehicles)
		if err != nil {
			failures[in.ID] = &signals.LoadError{Intersection: in.ID, Path: in.Vehicles, Err: err}
			continue
		}
		journeys, err := cfg.ResolvePath(in.Journeys)
		if err != nil {
			failures[in.ID] = &signals.LoadError{Intersection: in.ID, Path: in.Journeys, Err: err}
			continue
		}
		out = append(out, signals.Source{
			ID:           in.ID,
			Name:         in.DisplayName(),
			VehiclesPath: vehicles,
			JourneysPath: journeys,
			JoinKeys:     in.JoinKeys,
		})
	}
	return out, failures
}

// loadCSV builds every configured intersection from its CSV exports. One
// intersection failing leaves the others available.
func loadCSV(fsys fsutil.FileSystem, cfg *config.Config) ([]*signals.Table, []signals.Source, map[string]error) {
	srcs, failures := sources(cfg)
	var (
		tables []*signals.Table
		loaded []signals.Source
	)
	for _, src := range srcs {
		t, err := signals.Load(fsys, src)
		if err != nil {
			failures[src.ID] = err
			continue
		}
		tables = append(tables, t)
		loaded = append(loaded, src)
	}
	return tables, loaded, failures
}

// loadSQLite rebuilds every configured intersection from the database.
func loadSQLite(ctx context.Context, cfg *config.Config) ([]*signals.Table, map[string]error, error) {
	database, err := db.OpenDB(cfg.GetDBPath())
	if err != nil {
		return nil, nil, err
	}
	defer database.Close()

	if err := database.CheckMigrations(); err != nil {
		return nil, nil, err
	}
	ids := make([]string, 0, len(cfg.GetIntersections()))
	for _, in := range cfg.GetIntersections() {
		ids = append(ids, in.ID)
	}
	tables, failures := database.LoadIntersections(ctx, ids)
	return tables, failures, nil
}

// loadIntersections builds the immutable table set serve answers from.
func loadIntersections(ctx context.Context, cfg *config.Config, fsys fsutil.FileSystem) (*signals.Intersections, error) {
	var (
		tables   []*signals.Table
		failures map[string]error
	)
	switch cfg.GetSource() {
	case "sqlite":
		var err error
		if tables, failures, err = loadSQLite(ctx, cfg); err != nil {
			return nil, fmt.Errorf("failed to read database: %w", err)
		}
	default:
		tables, _, failures = loadCSV(fsys, cfg)
	}

	for _, t := range tables {
		monitoring.LoadedRows.WithLabelValues(t.IntersectionID).Set(float64(t.Len()))
		monitoring.Logf("loaded intersection %s: %s", t.IntersectionID, t.Report)
	}
	for id, err := range failures {
		monitoring.LoadFailures.Inc()
		monitoring.Logf("intersection %s unavailable: %v", id, err)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no intersection could be loaded")
	}
	return signals.NewIntersections(tables, failures), nil
}
