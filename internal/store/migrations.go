package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Rides, with the staleness record from the last refresh
		`CREATE TABLE IF NOT EXISTS rides (
			id INTEGER PRIMARY KEY,
			path TEXT NOT NULL DEFAULT '',
			file_name TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			sport TEXT NOT NULL DEFAULT '',
			start_time TEXT NOT NULL,
			rec_interval REAL NOT NULL DEFAULT 0,
			schema_version INTEGER NOT NULL DEFAULT 0,
			fingerprint INTEGER NOT NULL DEFAULT 0,
			weight REAL NOT NULL DEFAULT 0,
			metadata_crc INTEGER NOT NULL DEFAULT 0,
			content_crc INTEGER NOT NULL DEFAULT 0,
			content_time INTEGER NOT NULL DEFAULT 0,
			has_samples INTEGER NOT NULL DEFAULT 0,
			interval_count INTEGER NOT NULL DEFAULT 0,
			color TEXT NOT NULL DEFAULT '',
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_rides_start_time ON rides(start_time)`,

		// Samples (time series recorded for each ride)
		`CREATE TABLE IF NOT EXISTS samples (
			ride_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			secs REAL NOT NULL,
			distance REAL NOT NULL DEFAULT 0,
			power REAL NOT NULL DEFAULT 0,
			altitude REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (ride_id, seq),
			FOREIGN KEY (ride_id) REFERENCES rides(id) ON DELETE CASCADE
		)`,

		// Ride metadata tags
		`CREATE TABLE IF NOT EXISTS ride_tags (
			ride_id INTEGER NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (ride_id, key),
			FOREIGN KEY (ride_id) REFERENCES rides(id) ON DELETE CASCADE
		)`,

		// Intervals recorded in the ride by the user or the device
		`CREATE TABLE IF NOT EXISTS ride_intervals (
			ride_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			kind TEXT NOT NULL DEFAULT 'USER',
			start_secs REAL NOT NULL,
			stop_secs REAL NOT NULL,
			PRIMARY KEY (ride_id, seq),
			FOREIGN KEY (ride_id) REFERENCES rides(id) ON DELETE CASCADE
		)`,

		// Known routes and where they were found
		`CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			position INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS route_rides (
			route_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			start_time TEXT NOT NULL,
			start_secs REAL NOT NULL,
			stop_secs REAL NOT NULL,
			file_name TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (route_id, seq),
			FOREIGN KEY (route_id) REFERENCES routes(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_route_rides_start ON route_rides(start_time)`,

		// Body mass log
		`CREATE TABLE IF NOT EXISTS weights (
			date TEXT PRIMARY KEY,
			kg REAL NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
