package ridefile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"rideintervals/internal/analysis"
)

const testRide = `{
	"name": "Morning ride",
	"sport": "Ride",
	"start_time": "2024-05-04T07:30:00Z",
	"rec_interval": 1,
	"tags": {"Workout Code": "Tempo"},
	"streams": {
		"time": {"data": [0, 1, 2]},
		"distance": {"data": [0, 8.5, 17]},
		"watts": {"data": [180, 210, 0]}
	},
	"intervals": [
		{"name": "Lap 1", "start": 0, "stop": 1},
		{"name": "Old peak", "start": 0, "stop": 2, "kind": "PEAKPOWER"}
	]
}`

func TestDecode(t *testing.T) {
	r, err := Decode(strings.NewReader(testRide))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if r.Name != "Morning ride" || r.Sport != "Ride" || r.RecInterval != 1 {
		t.Errorf("header = %+v", r)
	}
	want := time.Date(2024, 5, 4, 7, 30, 0, 0, time.UTC)
	if !r.StartTime.Time().Equal(want) {
		t.Errorf("StartTime = %v, want %v", r.StartTime.Time(), want)
	}

	samples := []analysis.Sample{
		{Time: 0, Distance: 0, Power: 180},
		{Time: 1, Distance: 8.5, Power: 210},
		{Time: 2, Distance: 17, Power: 0},
	}
	if diff := cmp.Diff(samples, r.Samples()); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}

	intervals := []analysis.SourceInterval{
		{Name: "Lap 1", Start: 0, Stop: 1, Kind: analysis.KindUser},
		{Name: "Old peak", Start: 0, Stop: 2, Kind: analysis.KindPeakPower},
	}
	if diff := cmp.Diff(intervals, r.SourceIntervals()); diff != "" {
		t.Errorf("intervals mismatch (-want +got):\n%s", diff)
	}

	id, err := r.RideID()
	if err != nil || id != want.Unix() {
		t.Errorf("RideID = %d, %v; want %d", id, err, want.Unix())
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `samples: 3`},
		{"bad start time", `{"start_time": "yesterday"}`},
		{"short watts stream", `{"streams": {"time": {"data": [0, 1]}, "watts": {"data": [100]}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestRideID(t *testing.T) {
	if id, err := (&Ride{ID: 42}).RideID(); err != nil || id != 42 {
		t.Errorf("RideID with explicit id = %d, %v", id, err)
	}
	if _, err := (&Ride{}).RideID(); !errors.Is(err, ErrNoStartTime) {
		t.Errorf("RideID without id or start = %v, want ErrNoStartTime", err)
	}
}

func TestSamples_NoTimeStream(t *testing.T) {
	r, err := Decode(strings.NewReader(`{"name": "Empty"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := r.Samples(); got != nil {
		t.Errorf("Samples = %v, want nil", got)
	}
}

func TestReadRoutes(t *testing.T) {
	path := filepath.Join(t.TempDir(), RoutesFile)
	doc := `{"routes": [
		{"id": "3f1c7a52-8e0b-4a8e-9a53-2d1b8f6c0e11", "name": "River loop",
		 "rides": [{"start_time": "2024-05-04T07:30:00Z", "start": 60, "stop": 1800, "file": "a.json"}]},
		{"name": "Hill repeats"}
	]}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	routes, err := ReadRoutes(path)
	if err != nil {
		t.Fatalf("ReadRoutes: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("Expected 2 routes, got %d", len(routes))
	}

	loop := routes[0]
	if loop.ID != uuid.MustParse("3f1c7a52-8e0b-4a8e-9a53-2d1b8f6c0e11") || loop.Name != "River loop" {
		t.Errorf("first route = %+v", loop)
	}
	if len(loop.Rides) != 1 || loop.Rides[0].Stop != 1800 || loop.Rides[0].FileName != "a.json" {
		t.Errorf("route rides = %+v", loop.Rides)
	}

	// derived ids are stable
	again, err := ReadRoutes(path)
	if err != nil {
		t.Fatalf("ReadRoutes: %v", err)
	}
	if routes[1].ID == uuid.Nil || routes[1].ID != again[1].ID {
		t.Errorf("derived route id = %v then %v", routes[1].ID, again[1].ID)
	}
}

func TestRouteTable_Errors(t *testing.T) {
	if _, err := (RouteTable{Routes: []Route{{ID: "not-a-uuid", Name: "x"}}}).Table(); err == nil {
		t.Error("Expected an error for a malformed route id")
	}
	if _, err := (RouteTable{Routes: []Route{{}}}).Table(); err == nil {
		t.Error("Expected an error for a route without a name")
	}
}
