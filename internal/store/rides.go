package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rideintervals/internal/staleness"
)

const rideColumns = `id, path, file_name, name, sport, start_time, rec_interval,
	schema_version, fingerprint, weight, metadata_crc, content_crc, content_time,
	has_samples, interval_count, color`

// UpsertRide inserts or updates a ride, including its staleness record
func (db *DB) UpsertRide(r *Ride) error {
	st := r.Staleness
	_, err := db.Exec(`
		INSERT INTO rides (`+rideColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			file_name = excluded.file_name,
			name = excluded.name,
			sport = excluded.sport,
			start_time = excluded.start_time,
			rec_interval = excluded.rec_interval,
			schema_version = excluded.schema_version,
			fingerprint = excluded.fingerprint,
			weight = excluded.weight,
			metadata_crc = excluded.metadata_crc,
			content_crc = excluded.content_crc,
			content_time = excluded.content_time,
			has_samples = excluded.has_samples,
			interval_count = excluded.interval_count,
			color = excluded.color,
			updated_at = CURRENT_TIMESTAMP
	`,
		r.ID, r.Path, r.FileName, r.Name, r.Sport, r.StartTime.Format(time.RFC3339), r.RecInterval,
		st.SchemaVersion, int64(st.Fingerprint), st.Weight, int64(st.MetadataCRC), int64(st.ContentCRC),
		unixOrZero(st.ContentTime), boolToInt(st.HasSamples), st.Intervals, st.Color,
	)
	return err
}

// GetRide retrieves a ride by ID
func (db *DB) GetRide(id int64) (*Ride, error) {
	row := db.QueryRow(`SELECT `+rideColumns+` FROM rides WHERE id = ?`, id)

	r, err := scanRide(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRideNotFound
	}
	return r, err
}

// ListRides returns all rides ordered by start time
func (db *DB) ListRides() ([]Ride, error) {
	rows, err := db.Query(`SELECT ` + rideColumns + ` FROM rides ORDER BY start_time, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, *r)
	}
	return rides, rows.Err()
}

// UpdateStaleness overwrites the staleness record of a ride
func (db *DB) UpdateStaleness(id int64, st staleness.Record) error {
	result, err := db.Exec(`
		UPDATE rides SET
			schema_version = ?, fingerprint = ?, weight = ?, metadata_crc = ?,
			content_crc = ?, content_time = ?, has_samples = ?, interval_count = ?,
			color = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`,
		st.SchemaVersion, int64(st.Fingerprint), st.Weight, int64(st.MetadataCRC),
		int64(st.ContentCRC), unixOrZero(st.ContentTime), boolToInt(st.HasSamples), st.Intervals,
		st.Color, id,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRideNotFound
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*Ride, error) {
	var r Ride
	var startTime string
	var fingerprint, metaCRC, contentCRC, contentTime int64
	var hasSamples int

	err := row.Scan(
		&r.ID, &r.Path, &r.FileName, &r.Name, &r.Sport, &startTime, &r.RecInterval,
		&r.Staleness.SchemaVersion, &fingerprint, &r.Staleness.Weight, &metaCRC, &contentCRC, &contentTime,
		&hasSamples, &r.Staleness.Intervals, &r.Staleness.Color,
	)
	if err != nil {
		return nil, err
	}

	r.StartTime, err = time.Parse(time.RFC3339, startTime)
	if err != nil {
		return nil, fmt.Errorf("parsing start_time %q: %w", startTime, err)
	}

	r.Staleness.Fingerprint = uint64(fingerprint)
	r.Staleness.MetadataCRC = uint32(metaCRC)
	r.Staleness.ContentCRC = uint32(contentCRC)
	if contentTime > 0 {
		r.Staleness.ContentTime = time.Unix(contentTime, 0)
	}
	r.Staleness.HasSamples = hasSamples == 1

	return &r, nil
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
