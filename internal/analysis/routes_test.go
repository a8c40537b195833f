package analysis

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMatchRoutes(t *testing.T) {
	start := time.Date(2024, 6, 2, 7, 30, 0, 0, time.UTC)
	other := start.Add(24 * time.Hour)

	loop := Route{
		ID:   uuid.New(),
		Name: "River loop",
		Rides: []RouteRide{
			{StartTime: other, Start: 10, Stop: 900},
			{StartTime: start, Start: 120, Stop: 1500},
		},
	}
	hill := Route{
		ID:   uuid.New(),
		Name: "Hill repeat",
		Rides: []RouteRide{
			{StartTime: start, Start: 1600, Stop: 1900},
		},
	}
	unrelated := Route{ID: uuid.New(), Name: "Commute", Rides: []RouteRide{{StartTime: other}}}

	matches := MatchRoutes([]Route{loop, unrelated, hill}, start)
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d: %+v", len(matches), matches)
	}

	if matches[0].RouteID != loop.ID || matches[0].Start != 120 || matches[0].Stop != 1500 {
		t.Errorf("first match = %+v, want River loop [120, 1500]", matches[0])
	}
	if matches[1].RouteID != hill.ID || matches[1].Name != "Hill repeat" {
		t.Errorf("second match = %+v, want Hill repeat", matches[1])
	}
}

func TestMatchRoutes_SameInstantOtherZone(t *testing.T) {
	start := time.Date(2024, 6, 2, 7, 30, 0, 0, time.UTC)
	zone := time.FixedZone("CEST", 2*60*60)

	routes := []Route{{
		ID:    uuid.New(),
		Name:  "Loop",
		Rides: []RouteRide{{StartTime: start.In(zone), Start: 0, Stop: 60}},
	}}

	if matches := MatchRoutes(routes, start); len(matches) != 1 {
		t.Errorf("Expected the same instant to match across zones, got %d matches", len(matches))
	}
}

func TestMatchRoutes_NoRoutes(t *testing.T) {
	if matches := MatchRoutes(nil, time.Now()); len(matches) != 0 {
		t.Errorf("Expected no matches, got %+v", matches)
	}
}
