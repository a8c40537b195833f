package store

import (
	"database/sql"
	"errors"
	"time"
)

// SaveWeight records the body mass measured on a date
func (db *DB) SaveWeight(date time.Time, kg float64) error {
	_, err := db.Exec(`
		INSERT INTO weights (date, kg) VALUES (?, ?)
		ON CONFLICT(date) DO UPDATE SET kg = excluded.kg
	`, date.Format(time.DateOnly), kg)
	return err
}

// WeightOn returns the most recent body mass measured on or before the
// date, or 0 if there is none.
func (db *DB) WeightOn(date time.Time) (float64, error) {
	var kg float64
	err := db.QueryRow(`
		SELECT kg FROM weights
		WHERE date <= ?
		ORDER BY date DESC
		LIMIT 1
	`, date.Format(time.DateOnly)).Scan(&kg)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return kg, err
}
