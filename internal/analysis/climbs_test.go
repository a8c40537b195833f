package analysis

import (
	"math"
	"testing"
)

// profileRide samples a ride every 10 meters, one second apart. The
// altitude at each sample is given by alt, called with the distance in
// meters.
func profileRide(meters int, alt func(d float64) float64) Series {
	var samples []Sample
	for i := 0; i*10 <= meters; i++ {
		d := float64(i * 10)
		samples = append(samples, Sample{
			Time:     float64(i),
			Distance: d,
			Altitude: alt(d),
		})
	}
	return Series{Samples: samples, RecInterval: 1}
}

func TestFindClimbs_ShortSteepRampRejected(t *testing.T) {
	// 100m of gain in 300m, then 1.5km flat: steep but too short for any tier
	s := profileRide(1800, func(d float64) float64 {
		return 100 * math.Min(d, 300) / 300
	})

	if climbs := FindClimbs(s); len(climbs) != 0 {
		t.Errorf("Expected no climbs, got %+v", climbs)
	}
}

func TestFindClimbs_SustainedClimbAccepted(t *testing.T) {
	// 150m of gain over 2.5km (60 m/km), then 500m flat
	s := profileRide(3000, func(d float64) float64 {
		return 150 * math.Min(d, 2500) / 2500
	})

	climbs := FindClimbs(s)
	if len(climbs) != 1 {
		t.Fatalf("Expected 1 climb, got %d: %+v", len(climbs), climbs)
	}

	c := climbs[0]
	if c.Start != 0 || c.Stop != 250 {
		t.Errorf("Expected climb [0, 250], got [%v, %v]", c.Start, c.Stop)
	}
	if c.Gain != 150 {
		t.Errorf("Expected 150m gain, got %v", c.Gain)
	}
	if math.Abs(c.LengthKm()-2.5) > 1e-9 {
		t.Errorf("Expected 2.5km, got %v", c.LengthKm())
	}
	if math.Abs(c.Gradient()-60) > 1e-9 {
		t.Errorf("Expected 60 m/km, got %v", c.Gradient())
	}
}

func TestFindClimbs_DescentSplitsClimbs(t *testing.T) {
	// up 100m over 1km, down 100m over 1km, up 100m over 1km
	s := profileRide(3000, func(d float64) float64 {
		switch {
		case d <= 1000:
			return d / 10
		case d <= 2000:
			return 100 - (d-1000)/10
		default:
			return (d - 2000) / 10
		}
	})

	climbs := FindClimbs(s)
	if len(climbs) != 2 {
		t.Fatalf("Expected 2 climbs, got %d: %+v", len(climbs), climbs)
	}

	want := []struct{ start, stop, gain float64 }{
		{0, 100, 100},
		{200, 300, 100},
	}
	for i, w := range want {
		c := climbs[i]
		if c.Start != w.start || c.Stop != w.stop {
			t.Errorf("climb %d: expected [%v, %v], got [%v, %v]", i, w.start, w.stop, c.Start, c.Stop)
		}
		if math.Abs(c.Gain-w.gain) > 1e-9 {
			t.Errorf("climb %d: expected gain %v, got %v", i, w.gain, c.Gain)
		}
	}
}

func TestFindClimbs_FlatAndDescending(t *testing.T) {
	tests := []struct {
		name string
		s    Series
	}{
		{"empty", Series{}},
		{"single sample", Series{Samples: []Sample{{Time: 0, Altitude: 50}}}},
		{"flat", profileRide(5000, func(float64) float64 { return 200 })},
		{"descent", profileRide(5000, func(d float64) float64 { return 500 - d/10 })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if climbs := FindClimbs(tt.s); len(climbs) != 0 {
				t.Errorf("Expected no climbs, got %+v", climbs)
			}
		})
	}
}

func TestClimbTiers(t *testing.T) {
	tests := []struct {
		name   string
		km     float64
		gain   float64
		accept bool
	}{
		{"short and steep", 0.5, 30, true},
		{"short and not steep enough", 0.5, 29, false},
		{"medium", 2.0, 80, true},
		{"medium and shallow", 2.0, 70, false},
		{"long and shallow", 4.0, 80, true},
		{"long and too shallow", 4.0, 70, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := []Sample{
				{Time: 0, Distance: 0, Altitude: 0},
				{Time: 100, Distance: tt.km * 1000, Altitude: tt.gain},
			}
			_, ok := closeClimb(pts, 0, 1)
			if ok != tt.accept {
				t.Errorf("closeClimb accepted = %v, want %v (%.1f km at %.0f m/km)",
					ok, tt.accept, tt.km, tt.gain/tt.km)
			}
		})
	}
}

func TestCloseClimb_LengthExcludesRunOut(t *testing.T) {
	// 0.4km at 100 m/km, then 1km flat. Counting the run-out would clear
	// the 0.5km tier.
	s := profileRide(1400, func(d float64) float64 {
		return 40 * math.Min(d, 400) / 400
	})
	top := 40

	if c, ok := closeClimb(s.Samples, 0, top); ok {
		t.Errorf("Expected the 0.4km ramp rejected, got %+v", c)
	}
	if climbs := FindClimbs(s); len(climbs) != 0 {
		t.Errorf("Expected no climbs, got %+v", climbs)
	}
}
