package analysis

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// Sport is the activity sport as recorded
type Sport string

// IsRun reports whether the sport is a run of any kind
func (s Sport) IsRun() bool {
	return strings.Contains(strings.ToLower(string(s)), "run")
}

// IsSwim reports whether the sport is a swim of any kind
func (s Sport) IsSwim() bool {
	return strings.Contains(strings.ToLower(string(s)), "swim")
}

// Activity is everything interval discovery needs to know about one ride
type Activity struct {
	ID        int64
	Start     time.Time // recorded start, used for route matching and zone lookup
	Sport     Sport
	Series    Series
	Metrics   Metrics           // whole-activity metric table, copied to the ALL interval
	Intervals []SourceInterval  // user and device intervals from the recording
	Tags      map[string]string // metadata, may override CP
}

// Options is the read-only configuration for one discovery run
type Options struct {
	Capacity CapacityResolver     // nil uses DefaultCapacityModel
	Routes   []Route              // known routes
	Color    func(seq int) string // nil leaves colors empty
}

// EntireActivityName names the interval spanning the whole ride
const EntireActivityName = "Entire Activity"

// DiscoverIntervals builds the derived interval collection for a ride.
//
// The result is ordered and sequenced: the entire activity, admitted user
// intervals, peak powers in catalog order, maximal efforts in scan order,
// climbs, then route matches. A ride without samples has no intervals.
func DiscoverIntervals(a Activity, opts Options) []DerivedInterval {
	s := a.Series
	if s.Empty() {
		return nil
	}

	b := &intervalBuilder{ride: a.ID, series: s, color: opts.Color}

	model := ResolveCapacityModel(opts.Capacity, a.Start, a.Tags)

	entire := Span{Start: s.Begin(), Stop: s.End()}
	b.add(EntireActivityName, KindAll, entire.Start, entire.Stop).Metrics = maps.Clone(a.Metrics)

	for _, iv := range AdmitUserIntervals(a.Intervals, entire, s.RecordingInterval(), AutoKinds) {
		b.add(iv.Name, KindUser, iv.Start, iv.Stop)
	}

	if !a.Sport.IsRun() && !a.Sport.IsSwim() && s.HasPower() {
		buckets := secondBuckets(s.Samples)
		for _, d := range PeakDurations {
			w := peakInBuckets(buckets, s.Begin(), d.Seconds)
			if w == nil {
				continue
			}
			b.add(peakName(d, w.AvgPower), KindPeakPower, w.Start, w.Stop)
		}

		for _, e := range FindMaximalEfforts(s, model) {
			b.add(effortName(e), KindTTE, e.Start, e.Stop)
		}
	}

	for n, c := range FindClimbs(s) {
		b.add(fmt.Sprintf("Climb %d", n+1), KindClimb, c.Start, c.Stop)
	}

	for _, m := range MatchRoutes(opts.Routes, a.Start) {
		if m.Start >= m.Stop {
			continue
		}
		b.add(m.Name, KindRoute, m.Start, m.Stop).RouteID = m.RouteID.String()
	}

	return b.intervals
}

// intervalBuilder appends intervals with contiguous sequence numbers
type intervalBuilder struct {
	ride      int64
	series    Series
	color     func(seq int) string
	intervals []DerivedInterval
}

func (b *intervalBuilder) add(name string, kind Kind, start, stop float64) *DerivedInterval {
	seq := len(b.intervals)
	iv := DerivedInterval{
		RideID:        b.ride,
		Name:          name,
		Kind:          kind,
		Start:         start,
		Stop:          stop,
		StartDistance: b.series.DistanceAt(start),
		StopDistance:  b.series.DistanceAt(stop),
		Sequence:      seq,
	}
	if b.color != nil {
		iv.Color = b.color(seq)
	}
	b.intervals = append(b.intervals, iv)
	return &b.intervals[seq]
}
