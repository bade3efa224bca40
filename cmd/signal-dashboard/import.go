package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/banshee-data/signal.report/internal/config"
	"github.com/banshee-data/signal.report/internal/db"
	"github.com/banshee-data/signal.report/internal/fsutil"
)

// runImport loads every configured intersection from CSV and stores it,
// migrating the database first. Intersections that fail to load are
// reported and skipped; the command fails only if none could be stored.
func runImport(ctx context.Context, cfg *config.Config, fsys fsutil.FileSystem) error {
	database, err := db.NewDB(requireDBPath(cfg))
	if err != nil {
		return err
	}
	defer database.Close()

	tables, srcs, failures := loadCSV(fsys, cfg)
	for id, err := range failures {
		log.Printf("skipping intersection %s: %v", id, err)
	}

	var errs []error
	stored := 0
	for i, t := range tables {
		run, err := database.SaveTable(ctx, t, srcs[i].VehiclesPath, srcs[i].JourneysPath)
		if err != nil {
			errs = append(errs, fmt.Errorf("intersection %s: %w", t.IntersectionID, err))
			continue
		}
		stored++
		log.Printf("imported intersection %s as run %s: %s", t.IntersectionID, run.RunID, t.Report)
	}
	if stored == 0 {
		errs = append(errs, errors.New("no intersection was imported"))
	}
	return errors.Join(errs...)
}
