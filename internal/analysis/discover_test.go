package analysis

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

var rideStart = time.Date(2024, 4, 14, 9, 0, 0, 0, time.UTC)

func seqColor(seq int) string {
	return fmt.Sprintf("c%d", seq)
}

func countKind(ivs []DerivedInterval, k Kind) int {
	n := 0
	for _, iv := range ivs {
		if iv.Kind == k {
			n++
		}
	}
	return n
}

func TestDiscoverIntervals_EmptyRide(t *testing.T) {
	a := Activity{ID: 1, Start: rideStart, Sport: "Ride"}
	if got := DiscoverIntervals(a, Options{}); len(got) != 0 {
		t.Errorf("Expected no intervals for a ride without samples, got %+v", got)
	}
}

func TestDiscoverIntervals_PowerRide(t *testing.T) {
	a := Activity{
		ID:      7,
		Start:   rideStart,
		Sport:   "Ride",
		Series:  steadyRide(3700, 257),
		Metrics: Metrics{MetricAveragePower: 257},
	}
	opts := Options{
		Capacity: fixedResolver{model: CapacityModel{CP: 250, WPrime: 22000}, ok: true},
		Color:    seqColor,
	}

	got := DiscoverIntervals(a, opts)

	// entire activity, every peak duration, one maximal effort
	if len(got) != 1+len(PeakDurations)+1 {
		t.Fatalf("Expected %d intervals, got %d", 1+len(PeakDurations)+1, len(got))
	}

	all := got[0]
	if all.Kind != KindAll || all.Name != EntireActivityName {
		t.Errorf("first interval = %s %q, want the entire activity", all.Kind, all.Name)
	}
	if all.Start != 0 || all.Stop != 3700 {
		t.Errorf("entire activity = [%v, %v], want [0, 3700]", all.Start, all.Stop)
	}
	if all.StartDistance != 0 || all.StopDistance != 37000 {
		t.Errorf("entire activity distance = [%v, %v], want [0, 37000]", all.StartDistance, all.StopDistance)
	}
	if all.Metrics[MetricAveragePower] != 257 {
		t.Errorf("entire activity metrics = %v", all.Metrics)
	}

	for i, d := range PeakDurations {
		iv := got[1+i]
		if iv.Kind != KindPeakPower {
			t.Errorf("interval %d kind = %s, want PEAKPOWER", 1+i, iv.Kind)
			continue
		}
		if want := fmt.Sprintf("%s (257 watts)", d.Name); iv.Name != want {
			t.Errorf("interval %d name = %q, want %q", 1+i, iv.Name, want)
		}
		if iv.Duration() != float64(d.Seconds) {
			t.Errorf("interval %d duration = %v, want %d", 1+i, iv.Duration(), d.Seconds)
		}
	}

	tte := got[len(got)-1]
	if tte.Kind != KindTTE || tte.Name != "TTE of 1:00:00 (257 watts)" {
		t.Errorf("last interval = %s %q, want the hour TTE", tte.Kind, tte.Name)
	}

	for i, iv := range got {
		if iv.Sequence != i {
			t.Errorf("interval %d has sequence %d", i, iv.Sequence)
		}
		if iv.Color != seqColor(i) {
			t.Errorf("interval %d has color %q, want %q", i, iv.Color, seqColor(i))
		}
		if iv.RideID != 7 {
			t.Errorf("interval %d has ride %d, want 7", i, iv.RideID)
		}
		if iv.Kind != KindAll && iv.Metrics != nil {
			t.Errorf("interval %d (%s) carries metrics", i, iv.Kind)
		}
	}
}

func TestDiscoverIntervals_PowerSearchGating(t *testing.T) {
	tests := []struct {
		name  string
		sport Sport
		watts float64
	}{
		{"run", "Run", 300},
		{"trail run", "Trail Running", 300},
		{"swim", "Open Water Swim", 300},
		{"ride without power", "Ride", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Activity{ID: 1, Start: rideStart, Sport: tt.sport, Series: steadyRide(900, tt.watts)}
			got := DiscoverIntervals(a, Options{})

			if n := countKind(got, KindPeakPower) + countKind(got, KindTTE); n != 0 {
				t.Errorf("Expected no power intervals, got %d", n)
			}
			if len(got) != 1 || got[0].Kind != KindAll {
				t.Errorf("Expected only the entire activity, got %+v", got)
			}
		})
	}
}

func TestDiscoverIntervals_UserClimbAndRouteOrder(t *testing.T) {
	// up 100m over 1km at 200W, then 1km flat at 100W
	s := profileRide(2000, func(d float64) float64 {
		if d <= 1000 {
			return d / 10
		}
		return 100
	})
	for i := range s.Samples {
		s.Samples[i].Power = 100
		if s.Samples[i].Time <= 100 {
			s.Samples[i].Power = 200
		}
	}

	route := Route{
		ID:   uuid.New(),
		Name: "Col loop",
		Rides: []RouteRide{
			{StartTime: rideStart, Start: 20, Stop: 180},
			{StartTime: rideStart, Start: 50, Stop: 50}, // empty, skipped
		},
	}

	a := Activity{
		ID:     3,
		Start:  rideStart,
		Sport:  "Ride",
		Series: s,
		Intervals: []SourceInterval{
			{Name: "Lap 1", Start: 0, Stop: 100, Kind: KindUser},
			{Name: "Entire", Start: 0, Stop: 200, Kind: KindUser},
			{Name: "Climb 1", Start: 0, Stop: 100, Kind: KindClimb},
		},
	}

	got := DiscoverIntervals(a, Options{Routes: []Route{route}, Color: seqColor})

	var kinds []Kind
	for _, iv := range got {
		if len(kinds) == 0 || kinds[len(kinds)-1] != iv.Kind {
			kinds = append(kinds, iv.Kind)
		}
	}
	wantKinds := []Kind{KindAll, KindUser, KindPeakPower, KindClimb, KindRoute}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Errorf("kind order mismatch (-want +got):\n%s", diff)
	}

	if n := countKind(got, KindUser); n != 1 {
		t.Errorf("Expected 1 user interval, got %d", n)
	}
	if n := countKind(got, KindTTE); n != 0 {
		t.Errorf("Expected no TTE below CP, got %d", n)
	}

	climb := got[len(got)-2]
	if climb.Name != "Climb 1" || climb.Start != 0 || climb.Stop != 100 {
		t.Errorf("climb = %q [%v, %v], want Climb 1 [0, 100]", climb.Name, climb.Start, climb.Stop)
	}

	r := got[len(got)-1]
	if r.Name != "Col loop" || r.RouteID != route.ID.String() || r.Start != 20 || r.Stop != 180 {
		t.Errorf("route = %+v", r)
	}
	if r.StartDistance != 200 || r.StopDistance != 1800 {
		t.Errorf("route distance = [%v, %v], want [200, 1800]", r.StartDistance, r.StopDistance)
	}
}

func TestDiscoverIntervals_SingleSample(t *testing.T) {
	a := Activity{ID: 1, Start: rideStart, Sport: "Ride", Series: Series{Samples: []Sample{{Time: 12, Power: 300}}}}

	got := DiscoverIntervals(a, Options{})
	if len(got) != 1 {
		t.Fatalf("Expected only the entire activity, got %+v", got)
	}
	if got[0].Start != 12 || got[0].Stop != 12 {
		t.Errorf("entire activity = [%v, %v], want [12, 12]", got[0].Start, got[0].Stop)
	}
}

func TestDiscoverIntervals_Idempotent(t *testing.T) {
	s := burstRide(1800)
	a := Activity{
		ID:        9,
		Start:     rideStart,
		Sport:     "Ride",
		Series:    s,
		Metrics:   ComputeRideMetrics(s),
		Intervals: []SourceInterval{{Name: "Sprint", Start: 0, Stop: 30, Kind: KindUser}},
		Tags:      map[string]string{"CP": "240"},
	}
	opts := Options{Color: seqColor}

	first := DiscoverIntervals(a, opts)
	second := DiscoverIntervals(a, opts)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated discovery differs (-first +second):\n%s", diff)
	}
	if countKind(first, KindTTE) == 0 {
		t.Error("Expected the burst to produce a maximal effort")
	}
}

func TestDiscoverIntervals_MetricsAreCopied(t *testing.T) {
	metrics := Metrics{MetricDistance: 1000}
	a := Activity{ID: 1, Start: rideStart, Sport: "Ride", Series: steadyRide(60, 0), Metrics: metrics}

	got := DiscoverIntervals(a, Options{})
	got[0].Metrics[MetricDistance] = 0

	if metrics[MetricDistance] != 1000 {
		t.Error("Expected the activity metric table to be left untouched")
	}
}

func TestSportGating(t *testing.T) {
	tests := []struct {
		sport     Sport
		run, swim bool
	}{
		{"Ride", false, false},
		{"Run", true, false},
		{"virtual run", true, false},
		{"Swim", false, true},
		{"", false, false},
	}

	for _, tt := range tests {
		name := string(tt.sport)
		if name == "" {
			name = "empty"
		}
		t.Run(strings.ReplaceAll(name, " ", "_"), func(t *testing.T) {
			if tt.sport.IsRun() != tt.run || tt.sport.IsSwim() != tt.swim {
				t.Errorf("IsRun=%v IsSwim=%v, want %v %v", tt.sport.IsRun(), tt.sport.IsSwim(), tt.run, tt.swim)
			}
		})
	}
}
