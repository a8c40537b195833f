package analysis

import (
	"math"
	"sort"
)

// Sample is a single recorded data point
type Sample struct {
	Time     float64 // seconds from the start of the recording
	Distance float64 // cumulative meters
	Power    float64 // watts
	Altitude float64 // meters
}

// Series is a time-ordered sequence of samples for one activity
type Series struct {
	Samples     []Sample
	RecInterval float64 // recording interval in seconds, 0 if unknown
}

// millisPerSecond is the resolution used when folding samples into
// one-second buckets.
const millisPerSecond = 1000

// Empty reports whether the series has no samples
func (s Series) Empty() bool {
	return len(s.Samples) == 0
}

// Begin returns the first sample time
func (s Series) Begin() float64 {
	if s.Empty() {
		return 0
	}
	return s.Samples[0].Time
}

// End returns the last sample time
func (s Series) End() float64 {
	if s.Empty() {
		return 0
	}
	return s.Samples[len(s.Samples)-1].Time
}

// HasPower reports whether any sample carries power data
func (s Series) HasPower() bool {
	for _, p := range s.Samples {
		if p.Power > 0 {
			return true
		}
	}
	return false
}

// RecordingInterval returns the recording interval in seconds.
// Falls back to the gap between the first two samples, then to 1s.
func (s Series) RecordingInterval() float64 {
	if s.RecInterval > 0 {
		return s.RecInterval
	}
	if len(s.Samples) >= 2 {
		if gap := s.Samples[1].Time - s.Samples[0].Time; gap > 0 {
			return gap
		}
	}
	return 1
}

// DistanceAt returns the cumulative distance at time t, interpolating
// linearly between the surrounding samples and clamping at the ends.
func (s Series) DistanceAt(t float64) float64 {
	n := len(s.Samples)
	if n == 0 {
		return 0
	}
	i := sort.Search(n, func(i int) bool { return s.Samples[i].Time >= t })
	if i == 0 {
		return s.Samples[0].Distance
	}
	if i == n {
		return s.Samples[n-1].Distance
	}

	prev, next := s.Samples[i-1], s.Samples[i]
	span := next.Time - prev.Time
	if span <= 0 {
		return next.Distance
	}
	frac := (t - prev.Time) / span
	return prev.Distance + frac*(next.Distance-prev.Distance)
}

// secondBuckets folds the samples into one-second buckets of average power.
// Each sample's power covers the time since the previous sample; when that
// span crosses a bucket edge it is split proportionally. Bucket 0 starts at
// the first sample. A trailing partial bucket is discarded.
func secondBuckets(samples []Sample) []float64 {
	if len(samples) < 2 {
		return nil
	}

	origin := toMillis(samples[0].Time)
	last := origin
	total := toMillis(samples[len(samples)-1].Time) - origin
	if total < millisPerSecond {
		return nil
	}
	buckets := make([]float64, 0, total/millisPerSecond)

	var filled int64 // milliseconds aggregated into the current bucket
	var energy float64

	for _, p := range samples[1:] {
		now := toMillis(p.Time)
		dt := now - last
		last = now

		for dt > 0 {
			need := millisPerSecond - filled
			if dt < need {
				filled += dt
				energy += float64(dt) * p.Power
				dt = 0
				continue
			}

			dt -= need
			energy += float64(need) * p.Power
			buckets = append(buckets, energy/millisPerSecond)
			filled = 0
			energy = 0
		}
	}

	return buckets
}

func toMillis(secs float64) int64 {
	return int64(math.Round(secs * millisPerSecond))
}
