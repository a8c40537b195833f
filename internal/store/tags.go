package store

import "fmt"

// SaveTags replaces the metadata tags of a ride
func (db *DB) SaveTags(rideID int64, tags map[string]string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM ride_tags WHERE ride_id = ?", rideID); err != nil {
		return fmt.Errorf("deleting existing tags: %w", err)
	}

	for k, v := range tags {
		if _, err := tx.Exec(`INSERT INTO ride_tags (ride_id, key, value) VALUES (?, ?, ?)`, rideID, k, v); err != nil {
			return fmt.Errorf("inserting tag %q: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetTags retrieves the metadata tags of a ride. A ride without tags gets
// an empty, non-nil map.
func (db *DB) GetTags(rideID int64) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM ride_tags WHERE ride_id = ?`, rideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		tags[k] = v
	}
	return tags, rows.Err()
}
