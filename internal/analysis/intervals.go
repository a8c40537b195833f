package analysis

import "strings"

// Kind classifies an interval by where it came from
type Kind int

const (
	KindAll       Kind = iota // the entire activity
	KindUser                  // user or device supplied
	KindPeakPower             // best average power for a fixed duration
	KindTTE                   // maximal effort under the capacity model
	KindClimb                 // detected climb
	KindRoute                 // known route occurrence
)

var kindNames = [...]string{"ALL", "USER", "PEAKPOWER", "TTE", "CLIMB", "ROUTE"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// ParseKind converts a stored kind name back to a Kind.
// Unknown names are treated as user intervals.
func ParseKind(s string) Kind {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i)
		}
	}
	return KindUser
}

// KindSet is a set of interval kinds
type KindSet map[Kind]bool

// AutoKinds are the kinds rediscovered on every refresh. Supplied intervals
// of these kinds are dropped in favour of the fresh results.
var AutoKinds = KindSet{KindAll: true, KindPeakPower: true, KindClimb: true}

// Metrics is a name-keyed table of computed values
type Metrics map[string]float64

// Span is a time range in seconds
type Span struct {
	Start float64
	Stop  float64
}

// SourceInterval is an interval recorded in the activity itself, by the
// user or the device
type SourceInterval struct {
	Name  string
	Start float64
	Stop  float64
	Kind  Kind
}

// DerivedInterval is one entry of the interval collection built on refresh
type DerivedInterval struct {
	RideID        int64 // owning ride
	Name          string
	Kind          Kind
	Start         float64 // seconds
	Stop          float64 // seconds
	StartDistance float64 // meters
	StopDistance  float64 // meters
	Sequence      int
	Color         string
	RouteID       string  // set for KindRoute
	Metrics       Metrics // only populated for KindAll
}

// Duration returns the interval length in seconds
func (iv DerivedInterval) Duration() float64 {
	return iv.Stop - iv.Start
}

// AdmitUserIntervals filters the intervals recorded in the activity down to
// the ones kept as KindUser intervals, preserving their order.
//
// An interval is dropped when:
//   - its kind is in auto, since those are rediscovered
//   - it is empty or runs backwards
//   - it duplicates the entire activity, allowing one recording interval
//     of slack on one edge only: a late start with a stop past the end, or
//     an early stop with a start at or before the beginning
func AdmitUserIntervals(candidates []SourceInterval, entire Span, recInterval float64, auto KindSet) []SourceInterval {
	var admitted []SourceInterval
	for _, iv := range candidates {
		if auto[iv.Kind] {
			continue
		}
		if iv.Start >= iv.Stop {
			continue
		}
		if duplicatesEntire(iv, entire, recInterval) {
			continue
		}
		admitted = append(admitted, iv)
	}
	return admitted
}

func duplicatesEntire(iv SourceInterval, entire Span, rec float64) bool {
	switch {
	case iv.Start <= entire.Start && iv.Stop >= entire.Stop:
		return true
	case iv.Start-rec <= entire.Start && iv.Stop-rec >= entire.Stop:
		return true
	case iv.Start <= entire.Start && iv.Stop+rec >= entire.Stop:
		return true
	}
	return false
}
