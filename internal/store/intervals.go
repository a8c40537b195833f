package store

import (
	"fmt"

	"rideintervals/internal/analysis"
)

// SaveSourceIntervals replaces the intervals recorded in a ride file.
// Derived intervals are rebuilt on every refresh and never stored.
func (db *DB) SaveSourceIntervals(rideID int64, intervals []analysis.SourceInterval) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM ride_intervals WHERE ride_id = ?", rideID); err != nil {
		return fmt.Errorf("deleting existing intervals: %w", err)
	}

	for i, iv := range intervals {
		_, err := tx.Exec(`
			INSERT INTO ride_intervals (ride_id, seq, name, kind, start_secs, stop_secs)
			VALUES (?, ?, ?, ?, ?, ?)
		`, rideID, i, iv.Name, iv.Kind.String(), iv.Start, iv.Stop)
		if err != nil {
			return fmt.Errorf("inserting interval %q: %w", iv.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetSourceIntervals retrieves the recorded intervals of a ride in file order
func (db *DB) GetSourceIntervals(rideID int64) ([]analysis.SourceInterval, error) {
	rows, err := db.Query(`
		SELECT name, kind, start_secs, stop_secs
		FROM ride_intervals
		WHERE ride_id = ?
		ORDER BY seq
	`, rideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var intervals []analysis.SourceInterval
	for rows.Next() {
		var iv analysis.SourceInterval
		var kind string
		if err := rows.Scan(&iv.Name, &kind, &iv.Start, &iv.Stop); err != nil {
			return nil, err
		}
		iv.Kind = analysis.ParseKind(kind)
		intervals = append(intervals, iv)
	}
	return intervals, rows.Err()
}
