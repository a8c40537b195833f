// Package ridefile reads ride and route documents from the activities
// directory.
package ridefile

import (
	"bytes"
	"time"

	"github.com/relvacode/iso8601"
)

// Ride is a ride document: header, metadata tags, streams and the
// intervals recorded by the user or the device
type Ride struct {
	ID          int64             `json:"id"` // 0 derives the id from the start time
	Name        string            `json:"name"`
	Sport       string            `json:"sport"`
	StartTime   Timestamp         `json:"start_time"`
	RecInterval float64           `json:"rec_interval"` // seconds
	Tags        map[string]string `json:"tags"`
	Streams     Streams           `json:"streams"`
	Intervals   []Interval        `json:"intervals"`
}

// Streams holds the recorded series keyed by type. Every stream is
// indexed like Time.
type Streams struct {
	Time     *StreamData `json:"time"`     // seconds
	Distance *StreamData `json:"distance"` // meters
	Watts    *StreamData `json:"watts"`
	Altitude *StreamData `json:"altitude"` // meters
}

// StreamData is a single stream
type StreamData struct {
	Data []float64 `json:"data"`
}

// Len returns the number of samples, 0 without a time stream
func (s Streams) Len() int {
	if s.Time == nil {
		return 0
	}
	return len(s.Time.Data)
}

// Interval is a recorded interval
type Interval struct {
	Name  string  `json:"name"`
	Start float64 `json:"start"` // seconds
	Stop  float64 `json:"stop"`  // seconds
	Kind  string  `json:"kind,omitempty"`
}

// RouteTable is the routes document
type RouteTable struct {
	Routes []Route `json:"routes"`
}

// Route is a named segment and the rides it was found in
type Route struct {
	ID    string      `json:"id,omitempty"` // empty derives the id from the name
	Name  string      `json:"name"`
	Rides []RouteRide `json:"rides"`
}

// RouteRide is one occurrence of a route
type RouteRide struct {
	StartTime Timestamp `json:"start_time"`
	Start     float64   `json:"start"`
	Stop      float64   `json:"stop"`
	File      string    `json:"file,omitempty"`
}

// Timestamp is an ISO 8601 instant
type Timestamp time.Time

// Time returns the instant as a time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// MarshalText implements encoding.TextMarshaler
func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(time.Time(t).Format(time.RFC3339)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Timestamp) UnmarshalText(b []byte) error {
	parsed, err := iso8601.Parse(bytes.TrimSpace(b))
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}
