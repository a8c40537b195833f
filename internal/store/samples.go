package store

import (
	"database/sql"
	"fmt"

	"rideintervals/internal/analysis"
)

// SaveSamples saves the sample series for a ride.
// It replaces any existing samples for the ride.
func (db *DB) SaveSamples(rideID int64, samples []analysis.Sample) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Delete existing samples for this ride
	if _, err := tx.Exec("DELETE FROM samples WHERE ride_id = ?", rideID); err != nil {
		return fmt.Errorf("deleting existing samples: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO samples (ride_id, seq, secs, distance, power, altitude)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, p := range samples {
		if _, err := stmt.Exec(rideID, i, p.Time, p.Distance, p.Power, p.Altitude); err != nil {
			return fmt.Errorf("inserting sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// GetSamples retrieves the sample series for a ride in time order
func (db *DB) GetSamples(rideID int64) ([]analysis.Sample, error) {
	rows, err := db.Query(`
		SELECT secs, distance, power, altitude
		FROM samples
		WHERE ride_id = ?
		ORDER BY seq
	`, rideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []analysis.Sample
	for rows.Next() {
		var p analysis.Sample
		if err := rows.Scan(&p.Time, &p.Distance, &p.Power, &p.Altitude); err != nil {
			return nil, err
		}
		samples = append(samples, p)
	}

	return samples, rows.Err()
}

// HasSamples checks if a ride has sample data
func (db *DB) HasSamples(rideID int64) (bool, error) {
	var exists int
	err := db.QueryRow(`SELECT 1 FROM samples WHERE ride_id = ? LIMIT 1`, rideID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
