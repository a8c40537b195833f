package ridefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"rideintervals/internal/analysis"
)

// RoutesFile is the name of the routes document in the activities directory
const RoutesFile = "routes.json"

// ErrNoStartTime is returned for a ride with neither an id nor a start time
var ErrNoStartTime = errors.New("ride has no id and no start time")

// Read decodes the ride document at path
func Read(path string) (*Ride, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Decode reads a ride document and checks its streams line up
func Decode(rd io.Reader) (*Ride, error) {
	var r Ride
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("decoding ride: %w", err)
	}

	n := r.Streams.Len()
	for name, s := range map[string]*StreamData{
		"distance": r.Streams.Distance,
		"watts":    r.Streams.Watts,
		"altitude": r.Streams.Altitude,
	} {
		if s != nil && len(s.Data) != n {
			return nil, fmt.Errorf("%s stream has %d samples, time has %d", name, len(s.Data), n)
		}
	}
	return &r, nil
}

// RideID returns the catalog id of the ride
func (r *Ride) RideID() (int64, error) {
	if r.ID != 0 {
		return r.ID, nil
	}
	if r.StartTime.Time().IsZero() {
		return 0, ErrNoStartTime
	}
	return r.StartTime.Time().Unix(), nil
}

// Samples zips the streams into a sample series. Missing streams read as 0.
func (r *Ride) Samples() []analysis.Sample {
	s := r.Streams
	n := s.Len()
	if n == 0 {
		return nil
	}

	samples := make([]analysis.Sample, n)
	for i := 0; i < n; i++ {
		p := analysis.Sample{Time: s.Time.Data[i]}
		if s.Distance != nil {
			p.Distance = s.Distance.Data[i]
		}
		if s.Watts != nil {
			p.Power = s.Watts.Data[i]
		}
		if s.Altitude != nil {
			p.Altitude = s.Altitude.Data[i]
		}
		samples[i] = p
	}
	return samples
}

// SourceIntervals returns the recorded intervals in file order. An empty
// kind is a user interval.
func (r *Ride) SourceIntervals() []analysis.SourceInterval {
	if len(r.Intervals) == 0 {
		return nil
	}
	intervals := make([]analysis.SourceInterval, len(r.Intervals))
	for i, iv := range r.Intervals {
		intervals[i] = analysis.SourceInterval{
			Name:  iv.Name,
			Start: iv.Start,
			Stop:  iv.Stop,
			Kind:  analysis.ParseKind(iv.Kind),
		}
	}
	return intervals
}

// ReadRoutes decodes the routes document at path into the route table
func ReadRoutes(path string) ([]analysis.Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var table RouteTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("decoding routes: %w", err)
	}
	return table.Table()
}

// Table converts the document into analysis routes, in document order.
// Routes without an id get one derived from their name, so re-reading the
// same document yields the same ids.
func (t RouteTable) Table() ([]analysis.Route, error) {
	routes := make([]analysis.Route, 0, len(t.Routes))
	for _, r := range t.Routes {
		if r.Name == "" {
			return nil, errors.New("route without a name")
		}

		id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("route:"+r.Name))
		if r.ID != "" {
			parsed, err := uuid.Parse(r.ID)
			if err != nil {
				return nil, fmt.Errorf("route %q: %w", r.Name, err)
			}
			id = parsed
		}

		route := analysis.Route{ID: id, Name: r.Name}
		for _, ride := range r.Rides {
			route.Rides = append(route.Rides, analysis.RouteRide{
				StartTime: ride.StartTime.Time(),
				Start:     ride.Start,
				Stop:      ride.Stop,
				FileName:  ride.File,
			})
		}
		routes = append(routes, route)
	}
	return routes, nil
}
