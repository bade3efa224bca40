package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/signal.report/internal/signals"
)

// ErrNotImported is returned when an intersection has no stored import.
var ErrNotImported = errors.New("intersection not imported")

// ImportRun records one import of an intersection's CSV exports.
type ImportRun struct {
	RunID          string             `json:"run_id"`
	IntersectionID string             `json:"intersection_id"`
	Name           string             `json:"name"`
	VehiclesPath   string             `json:"vehicles_path"`
	JourneysPath   string             `json:"journeys_path"`
	Report         signals.LoadReport `json:"report"`
	ImportedAt     time.Time          `json:"imported_at"`
}

// SaveTable stores t as the current import of its intersection, replacing
// any earlier import. The source paths are kept for reference only.
func (db *DB) SaveTable(ctx context.Context, t *signals.Table, vehiclesPath, journeysPath string) (ImportRun, error) {
	run := ImportRun{
		RunID:          uuid.NewString(),
		IntersectionID: t.IntersectionID,
		Name:           t.Name,
		VehiclesPath:   vehiclesPath,
		JourneysPath:   journeysPath,
		Report:         t.Report,
		ImportedAt:     db.clock.Now().UTC().Truncate(time.Second),
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ImportRun{}, fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM import_runs WHERE intersection_id = ?`, t.IntersectionID); err != nil {
		return ImportRun{}, fmt.Errorf("failed to clear previous import: %w", err)
	}

	r := run.Report
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO import_runs (
			run_id, intersection_id, name, vehicles_path, journeys_path, join_keys,
			vehicle_rows, journey_rows, joined_rows, unmatched_vehicles, invalid_timestamps,
			imported_unix
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.IntersectionID, run.Name, run.VehiclesPath, run.JourneysPath, strings.Join(r.JoinKeys, ","),
		r.VehicleRows, r.JourneyRows, r.JoinedRows, r.UnmatchedVehicles, r.InvalidTimestamps,
		run.ImportedAt.Unix(),
	); err != nil {
		return ImportRun{}, fmt.Errorf("failed to record import run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO crossings (
			run_id, seq, intersection_id, journey_id, day, entry_time,
			approach_direction, travel_direction, delay_seconds, red_arrival, split_failure
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return ImportRun{}, fmt.Errorf("failed to prepare crossing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range t.Rows() {
		var delay sql.NullFloat64
		if !math.IsNaN(c.DelaySeconds) {
			delay = sql.NullFloat64{Float64: c.DelaySeconds, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			run.RunID, i, t.IntersectionID, c.JourneyID, c.Day, c.EntryTime,
			c.ApproachDirection, c.TravelDirection, delay, c.RedArrival, c.SplitFailure,
		); err != nil {
			return ImportRun{}, fmt.Errorf("failed to insert crossing %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportRun{}, fmt.Errorf("failed to commit import: %w", err)
	}
	return run, nil
}

const importRunColumns = `run_id, intersection_id, name, vehicles_path, journeys_path, join_keys,
	vehicle_rows, journey_rows, joined_rows, unmatched_vehicles, invalid_timestamps, imported_unix`

func scanImportRun(row interface{ Scan(...any) error }) (ImportRun, error) {
	var (
		run      ImportRun
		keys     string
		imported int64
	)
	r := &run.Report
	if err := row.Scan(&run.RunID, &run.IntersectionID, &run.Name, &run.VehiclesPath, &run.JourneysPath, &keys,
		&r.VehicleRows, &r.JourneyRows, &r.JoinedRows, &r.UnmatchedVehicles, &r.InvalidTimestamps, &imported); err != nil {
		return ImportRun{}, err
	}
	if keys != "" {
		r.JoinKeys = strings.Split(keys, ",")
	}
	run.ImportedAt = time.Unix(imported, 0).UTC()
	return run, nil
}

// ImportRuns lists the stored imports in the order they were made.
func (db *DB) ImportRuns(ctx context.Context) ([]ImportRun, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+importRunColumns+` FROM import_runs ORDER BY imported_unix, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query import runs: %w", err)
	}
	defer rows.Close()

	var runs []ImportRun
	for rows.Next() {
		run, err := scanImportRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ImportRun returns the current import of an intersection.
func (db *DB) ImportRun(ctx context.Context, intersectionID string) (ImportRun, error) {
	row := db.QueryRowContext(ctx, `SELECT `+importRunColumns+` FROM import_runs
		WHERE intersection_id = ? ORDER BY imported_unix DESC, rowid DESC LIMIT 1`, intersectionID)
	run, err := scanImportRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ImportRun{}, fmt.Errorf("%w: %s", ErrNotImported, intersectionID)
	}
	if err != nil {
		return ImportRun{}, fmt.Errorf("failed to read import run: %w", err)
	}
	return run, nil
}

// LoadTable rebuilds an intersection's table from its current import. Peaks
// are classified again from the stored entry times.
func (db *DB) LoadTable(ctx context.Context, intersectionID string) (*signals.Table, error) {
	run, err := db.ImportRun(ctx, intersectionID)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT journey_id, day, entry_time, approach_direction, travel_direction,
		       delay_seconds, red_arrival, split_failure
		FROM crossings WHERE run_id = ? ORDER BY seq`, run.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to query crossings: %w", err)
	}
	defer rows.Close()

	records := make([]signals.CrossingRecord, 0, run.Report.JoinedRows)
	invalid := 0
	for rows.Next() {
		var (
			c     signals.CrossingRecord
			delay sql.NullFloat64
		)
		if err := rows.Scan(&c.JourneyID, &c.Day, &c.EntryTime, &c.ApproachDirection, &c.TravelDirection,
			&delay, &c.RedArrival, &c.SplitFailure); err != nil {
			return nil, fmt.Errorf("failed to scan crossing: %w", err)
		}
		c.DelaySeconds = math.NaN()
		if delay.Valid {
			c.DelaySeconds = delay.Float64
		}
		if c.Peak, err = signals.ClassifyEntryTime(c.EntryTime); err != nil {
			invalid++
		}
		records = append(records, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	report := run.Report
	report.InvalidTimestamps = invalid
	return signals.NewTable(run.IntersectionID, run.Name, records, report), nil
}

// LoadIntersections loads every listed intersection, collecting failures
// per id instead of stopping at the first one.
func (db *DB) LoadIntersections(ctx context.Context, ids []string) ([]*signals.Table, map[string]error) {
	var tables []*signals.Table
	failures := make(map[string]error)
	for _, id := range ids {
		t, err := db.LoadTable(ctx, id)
		if err != nil {
			failures[id] = err
			continue
		}
		tables = append(tables, t)
	}
	return tables, failures
}
