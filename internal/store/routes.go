package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rideintervals/internal/analysis"
)

// SaveRoute inserts or replaces a route and its ride occurrences.
// A new route is appended to the end of the route table; an existing one
// keeps its position.
func (db *DB) SaveRoute(r analysis.Route) error {
	if r.ID == uuid.Nil {
		return fmt.Errorf("route %q has no id", r.Name)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRow(`SELECT position FROM routes WHERE id = ?`, r.ID.String()).Scan(&position)
	switch {
	case err == sql.ErrNoRows:
		if err := tx.QueryRow(`SELECT COALESCE(MAX(position) + 1, 0) FROM routes`).Scan(&position); err != nil {
			return fmt.Errorf("finding route position: %w", err)
		}
		if _, err := tx.Exec(`INSERT INTO routes (id, name, position) VALUES (?, ?, ?)`, r.ID.String(), r.Name, position); err != nil {
			return fmt.Errorf("inserting route: %w", err)
		}
	case err != nil:
		return fmt.Errorf("looking up route: %w", err)
	default:
		if _, err := tx.Exec(`UPDATE routes SET name = ? WHERE id = ?`, r.Name, r.ID.String()); err != nil {
			return fmt.Errorf("updating route: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM route_rides WHERE route_id = ?`, r.ID.String()); err != nil {
		return fmt.Errorf("deleting route rides: %w", err)
	}
	for i, ride := range r.Rides {
		_, err := tx.Exec(`
			INSERT INTO route_rides (route_id, seq, start_time, start_secs, stop_secs, file_name)
			VALUES (?, ?, ?, ?, ?, ?)
		`, r.ID.String(), i, ride.StartTime.Format(time.RFC3339), ride.Start, ride.Stop, ride.FileName)
		if err != nil {
			return fmt.Errorf("inserting route ride: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListRoutes returns the route table in order, each with its rides
func (db *DB) ListRoutes() ([]analysis.Route, error) {
	rows, err := db.Query(`
		SELECT r.id, r.name, rr.start_time, rr.start_secs, rr.stop_secs, rr.file_name
		FROM routes r
		LEFT JOIN route_rides rr ON rr.route_id = r.id
		ORDER BY r.position, rr.seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []analysis.Route
	for rows.Next() {
		var id, name string
		var startTime, fileName sql.NullString
		var start, stop sql.NullFloat64
		if err := rows.Scan(&id, &name, &startTime, &start, &stop, &fileName); err != nil {
			return nil, err
		}

		if len(routes) == 0 || routes[len(routes)-1].ID.String() != id {
			routeID, err := uuid.Parse(id)
			if err != nil {
				return nil, fmt.Errorf("parsing route id %q: %w", id, err)
			}
			routes = append(routes, analysis.Route{ID: routeID, Name: name})
		}
		if !startTime.Valid {
			continue // route without rides
		}

		t, err := time.Parse(time.RFC3339, startTime.String)
		if err != nil {
			return nil, fmt.Errorf("parsing route ride start %q: %w", startTime.String, err)
		}
		r := &routes[len(routes)-1]
		r.Rides = append(r.Rides, analysis.RouteRide{
			StartTime: t,
			Start:     start.Float64,
			Stop:      stop.Float64,
			FileName:  fileName.String,
		})
	}
	return routes, rows.Err()
}
