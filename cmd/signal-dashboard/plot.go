package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/banshee-data/signal.report/internal/charts"
	"github.com/banshee-data/signal.report/internal/config"
	"github.com/banshee-data/signal.report/internal/fsutil"
	"github.com/banshee-data/signal.report/internal/security"
	"github.com/banshee-data/signal.report/internal/signals"
)

// runPlot writes the movement delay chart of one intersection and day as a
// PNG file into the output directory.
func runPlot(ctx context.Context, cfg *config.Config, fsys fsutil.FileSystem, args []string) error {
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	id := fs.String("intersection", cfg.GetDefaultIntersection(), "Intersection id")
	day := fs.Int("day", cfg.GetDefaultDay(), "Day number")
	direction := fs.String("direction", signals.All, "Travel direction, or ALL")
	outDir := fs.String("out", ".", "Output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tables, err := loadIntersections(ctx, cfg, fsys)
	if err != nil {
		return err
	}
	t, ok := tables.Get(*id)
	if !ok {
		if err := tables.Failure(*id); err != nil {
			return err
		}
		return fmt.Errorf("unknown intersection %q", *id)
	}

	res := signals.ComputeDashboard(t, signals.Selector{Day: *day, Travel: *direction})
	for _, w := range res.Warnings {
		log.Printf("warning: %s", w)
	}

	if err := fsys.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	name := filepath.Join(*outDir, security.ChartFilename(".png", t.IntersectionID, fmt.Sprintf("day%d", *day), *direction))
	path, err := writePlot(fsys, name, res.Movement, *direction)
	if err != nil {
		return err
	}
	log.Printf("wrote %s", path)
	return nil
}

func writePlot(fsys fsutil.FileSystem, name string, m signals.MovementSummary, direction string) (string, error) {
	f, err := fsys.Create(name)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}
	if err := charts.MovementPNG(f, m, direction); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return name, nil
}
