package analysis

import "fmt"

// BestWindow is the highest average power window of a fixed duration
type BestWindow struct {
	Start    float64 // seconds
	Stop     float64 // seconds
	AvgPower float64 // watts
}

// PeakDuration is one entry of the peak power catalog
type PeakDuration struct {
	Seconds int
	Name    string
}

// PeakDurations defines the peak power durations searched on every ride,
// in the order they are sequenced.
var PeakDurations = []PeakDuration{
	{1, "1 second"},
	{5, "5 seconds"},
	{10, "10 seconds"},
	{15, "15 seconds"},
	{20, "20 seconds"},
	{30, "30 seconds"},
	{60, "1 minute"},
	{300, "5 minutes"},
	{600, "10 minutes"},
	{1200, "20 minutes"},
	{1800, "30 minutes"},
	{2700, "45 minutes"},
	{3600, "1 hour"},
}

// FindPeakPower finds the window of the given duration with the highest
// average power. Uses a running sum over one-second buckets, O(n).
// Returns nil if the ride is shorter than the duration or has no power.
func FindPeakPower(s Series, seconds int) *BestWindow {
	if seconds <= 0 {
		return nil
	}
	return peakInBuckets(secondBuckets(s.Samples), s.Begin(), seconds)
}

// peakInBuckets runs the sliding window over pre-built buckets so the
// whole catalog can share one pass of bucketing.
func peakInBuckets(buckets []float64, origin float64, seconds int) *BestWindow {
	if len(buckets) < seconds {
		return nil
	}

	var sum float64
	for _, w := range buckets[:seconds] {
		sum += w
	}
	best, bestStart := sum, 0

	for right := seconds; right < len(buckets); right++ {
		sum += buckets[right] - buckets[right-seconds]
		if sum > best {
			best = sum
			bestStart = right - seconds + 1
		}
	}

	avg := best / float64(seconds)
	if avg <= 0 {
		return nil
	}

	return &BestWindow{
		Start:    origin + float64(bestStart),
		Stop:     origin + float64(bestStart+seconds),
		AvgPower: avg,
	}
}

// peakName labels a peak power interval, e.g. "5 minutes (312 watts)"
func peakName(d PeakDuration, avg float64) string {
	return fmt.Sprintf("%s (%d watts)", d.Name, int(avg))
}
