package analysis

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CapacityModel is the two-parameter critical power model
type CapacityModel struct {
	CP     float64 // critical power, watts
	WPrime float64 // anaerobic work capacity, joules
}

// DefaultCapacityModel is used when no zone range covers the ride date
var DefaultCapacityModel = CapacityModel{CP: 250, WPrime: 22000}

// CapacityResolver looks up the capacity model that applies on a date
type CapacityResolver interface {
	CapacityModel(date time.Time) (CapacityModel, bool)
}

// Bounds of the maximal effort search, in seconds. Efforts are searched
// from the ceiling down and abandoned at the floor, which keeps the scan
// linear in ride length.
const (
	MaxEffortDuration = 3600
	MinEffortDuration = 120
)

// CPOverrideTag is the metadata key that overrides CP for a single ride
const CPOverrideTag = "CP"

// MaximalEffort is a window whose work exceeds what the capacity model
// says could be sustained for its duration.
type MaximalEffort struct {
	Start    float64 // seconds
	Stop     float64 // seconds
	Joules   int64
	AvgPower int64 // watts, Joules / duration
}

// Duration returns the effort length in whole seconds
func (e MaximalEffort) Duration() int {
	return int(e.Stop - e.Start)
}

// ResolveCapacityModel returns the capacity model for the ride date.
// A positive integer CP tag replaces CP; W' is never overridden.
func ResolveCapacityModel(resolver CapacityResolver, date time.Time, tags map[string]string) CapacityModel {
	model := DefaultCapacityModel
	if resolver == nil {
		return model
	}
	if m, ok := resolver.CapacityModel(date); ok && m.CP > 0 && m.WPrime > 0 {
		model = m
	}
	if v, ok := tags[CPOverrideTag]; ok {
		if cp, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && cp > 0 {
			model.CP = float64(cp)
		}
	}
	return model
}

// integratedWork returns cumulative joules per second: element k holds the
// work done in the first k seconds of the ride. Each second's contribution
// is truncated to whole joules before it is accumulated.
func integratedWork(s Series) []int64 {
	buckets := secondBuckets(s.Samples)
	work := make([]int64, len(buckets)+1)
	for k, w := range buckets {
		work[k+1] = work[k] + int64(w)
	}
	return work
}

// FindMaximalEfforts scans the ride for non-overlapping maximal efforts.
//
// For each start second i the longest duration t in (MinEffortDuration,
// MaxEffortDuration] is searched such that the time to exhaustion implied
// by the work in [i, i+t) is at least t:
//
//	tc = (joules - W') / CP
//
// which inverts joules = (W'/t + CP) * t. Once an effort is accepted the
// scan resumes at its end.
func FindMaximalEfforts(s Series, m CapacityModel) []MaximalEffort {
	if m.CP <= 0 {
		return nil
	}

	work := integratedWork(s)
	secs := len(work) - 1
	origin := s.Begin()

	var efforts []MaximalEffort
	for i := 0; i < secs; i++ {
		t := min(secs-i, MaxEffortDuration)
		for ; t > MinEffortDuration; t-- {
			joules := work[i+t] - work[i]
			tc := int((float64(joules) - m.WPrime) / m.CP)
			if tc < t {
				continue
			}

			efforts = append(efforts, MaximalEffort{
				Start:    origin + float64(i),
				Stop:     origin + float64(i+t),
				Joules:   joules,
				AvgPower: joules / int64(t),
			})
			i += t - 1
			break
		}
	}

	return efforts
}

// effortName labels a maximal effort, e.g. "TTE of 4:05 (342 watts)"
func effortName(e MaximalEffort) string {
	return fmt.Sprintf("TTE of %s (%d watts)", formatDuration(e.Duration()), e.AvgPower)
}

// formatDuration renders seconds as h:mm:ss, or m:ss under an hour
func formatDuration(secs int) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
