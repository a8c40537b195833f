package store

import (
	"path/filepath"
	"time"

	"rideintervals/internal/staleness"
)

// Ride is a recorded activity in the catalog
type Ride struct {
	ID          int64
	Path        string // directory holding the ride file
	FileName    string
	Name        string
	Sport       string
	StartTime   time.Time
	RecInterval float64 // seconds, 0 if unknown

	// Staleness is the state saved on the last refresh
	Staleness staleness.Record
}

// FilePath returns the full path of the ride file, empty if unknown
func (r Ride) FilePath() string {
	if r.FileName == "" {
		return ""
	}
	return filepath.Join(r.Path, r.FileName)
}
