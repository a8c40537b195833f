package analysis

import (
	"time"

	"github.com/google/uuid"
)

// Route is a named segment with the rides it has been found in
type Route struct {
	ID    uuid.UUID
	Name  string
	Rides []RouteRide
}

// RouteRide is one occurrence of a route, keyed by the ride start time
type RouteRide struct {
	StartTime time.Time
	Start     float64 // seconds into the ride
	Stop      float64 // seconds into the ride
	FileName  string
}

// RouteMatch is a route occurrence found in the current ride
type RouteMatch struct {
	RouteID uuid.UUID
	Name    string
	Start   float64
	Stop    float64
}

// MatchRoutes returns every route occurrence whose start time equals the
// ride start, in route table order.
func MatchRoutes(routes []Route, rideStart time.Time) []RouteMatch {
	var matches []RouteMatch
	for _, r := range routes {
		for _, ride := range r.Rides {
			if !ride.StartTime.Equal(rideStart) {
				continue
			}
			matches = append(matches, RouteMatch{
				RouteID: r.ID,
				Name:    r.Name,
				Start:   ride.Start,
				Stop:    ride.Stop,
			})
		}
	}
	return matches
}
