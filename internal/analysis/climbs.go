package analysis

// Climb detection thresholds. Gradients are meters of gain per kilometer,
// so 60 is a 6% average.
const (
	MilestoneSpacingKm = 0.1  // minimum distance between milestones
	MilestoneWindow    = 10   // milestones judged together for flatness
	FlatGradient       = 20.0 // below this every milestone counts as flat
	DescentFraction    = 0.2  // drop below the top, as a share of the climb, that ends it
)

// climbTier is a joint distance/gradient threshold a climb must clear.
// Steeper climbs may be shorter.
type climbTier struct {
	MinKm       float64
	MinGradient float64
}

var climbTiers = []climbTier{
	{MinKm: 0.5, MinGradient: 60},
	{MinKm: 2.0, MinGradient: 40},
	{MinKm: 4.0, MinGradient: 20},
}

// Climb is a sustained net elevation gain from a local low to a local high
type Climb struct {
	Start         float64 // seconds, at the low point
	Stop          float64 // seconds, at the high point
	StartDistance float64 // meters
	StopDistance  float64 // meters
	Gain          float64 // meters
}

// LengthKm returns the climb length in kilometers
func (c Climb) LengthKm() float64 {
	return (c.StopDistance - c.StartDistance) / 1000
}

// Gradient returns meters of gain per kilometer
func (c Climb) Gradient() float64 {
	km := c.LengthKm()
	if km <= 0 {
		return 0
	}
	return c.Gain / km
}

// FindClimbs segments the ride into climbs.
//
// A segment runs from its low point to the highest point seen since. It
// closes when altitude falls more than DescentFraction of the segment's
// gain below the top, when the last MilestoneWindow milestones are all
// flat, or at the end of the ride. Closed segments that clear a tier are
// returned; the search then restarts from the closing point.
func FindClimbs(s Series) []Climb {
	pts := s.Samples
	if len(pts) == 0 {
		return nil
	}

	var climbs []Climb
	var milestones []int // sample indices at least MilestoneSpacingKm apart
	base, top := 0, 0

	for i, p := range pts {
		flat := false
		if len(milestones) == 0 || km(p)-km(pts[milestones[len(milestones)-1]]) > MilestoneSpacingKm {
			milestones = append(milestones, i)
			if len(milestones) > MilestoneWindow {
				milestones = milestones[1:]
				flat = isFlat(pts, milestones, pts[base])
			}
		}

		if p.Altitude > pts[top].Altitude {
			top = i
		}

		gain := pts[top].Altitude - pts[base].Altitude
		descended := pts[top].Altitude-p.Altitude > DescentFraction*gain
		if !flat && !descended && i != len(pts)-1 {
			continue
		}

		if c, ok := closeClimb(pts, base, top); ok {
			climbs = append(climbs, c)
		}

		base, top = i, i
		milestones = append(milestones[:0], i)
	}

	return climbs
}

// isFlat reports whether every milestone rises less than FlatGradient from
// the one before it, the first being measured from the segment base.
func isFlat(pts []Sample, milestones []int, ref Sample) bool {
	run := 0
	for _, idx := range milestones {
		p := pts[idx]
		if (p.Altitude-ref.Altitude)/(km(p)-km(ref)) < FlatGradient {
			run++
			if run >= MilestoneWindow {
				return true
			}
		} else {
			run = 0
		}
		ref = p
	}
	return false
}

// closeClimb accepts the segment from base to top if it clears a tier.
// Length and gradient run from the low point to the high point only; the
// descent or flat run-out that closed the segment is not counted.
func closeClimb(pts []Sample, base, top int) (Climb, bool) {
	if top <= base || pts[top].Time <= pts[base].Time {
		return Climb{}, false
	}

	c := Climb{
		Start:         pts[base].Time,
		Stop:          pts[top].Time,
		StartDistance: pts[base].Distance,
		StopDistance:  pts[top].Distance,
		Gain:          pts[top].Altitude - pts[base].Altitude,
	}

	length, gradient := c.LengthKm(), c.Gradient()
	for _, tier := range climbTiers {
		if length >= tier.MinKm && gradient >= tier.MinGradient {
			return c, true
		}
	}
	return Climb{}, false
}

func km(p Sample) float64 {
	return p.Distance / 1000
}
