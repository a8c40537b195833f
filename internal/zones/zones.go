// Package zones holds the dated zone ranges (power, heart rate, pace) and
// derives from them the per-date capacity model and configuration
// fingerprints.
package zones

import (
	"fmt"
	"hash/crc32"
	"sort"
	"strings"
	"time"

	"rideintervals/internal/analysis"
)

// Range is one dated zone configuration. It applies from its From date
// until the next range begins.
type Range struct {
	From       time.Time
	CP         float64   // power only, watts
	WPrime     float64   // power only, joules
	Threshold  float64   // LTHR for heart rate, critical velocity for pace
	Boundaries []float64 // zone lower bounds
}

// Table is an ordered set of ranges for one zone type
type Table struct {
	Name   string
	Ranges []Range
}

// NewTable returns a table with its ranges sorted by From date
func NewTable(name string, ranges []Range) Table {
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].From.Before(sorted[j].From)
	})
	return Table{Name: name, Ranges: sorted}
}

// Set groups the three zone tables that feed the fingerprint
type Set struct {
	Power     Table
	HeartRate Table
	Pace      Table
}

// WhichRange returns the index of the range covering the calendar date,
// or -1 if the date is before every range.
func (t Table) WhichRange(date time.Time) int {
	day := calendarDay(date)
	found := -1
	for i, r := range t.Ranges {
		if calendarDay(r.From).After(day) {
			break
		}
		found = i
	}
	return found
}

// Fingerprint returns a checksum of the range covering the date, 0 if none.
// Ranges that do not cover the date never affect it.
func (t Table) Fingerprint(date time.Time) uint32 {
	i := t.WhichRange(date)
	if i < 0 {
		return 0
	}
	return t.Ranges[i].checksum(t.Name)
}

// CapacityModel returns CP and W' for the date
func (t Table) CapacityModel(date time.Time) (analysis.CapacityModel, bool) {
	i := t.WhichRange(date)
	if i < 0 {
		return analysis.CapacityModel{}, false
	}
	r := t.Ranges[i]
	if r.CP <= 0 || r.WPrime <= 0 {
		return analysis.CapacityModel{}, false
	}
	return analysis.CapacityModel{CP: r.CP, WPrime: r.WPrime}, true
}

// Fingerprint sums the checksums of the power, heart rate and pace ranges
// that apply on the date.
func (s Set) Fingerprint(date time.Time) uint64 {
	return uint64(s.Power.Fingerprint(date)) +
		uint64(s.HeartRate.Fingerprint(date)) +
		uint64(s.Pace.Fingerprint(date))
}

func (r Range) checksum(name string) uint32 {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%g|%g|%g", name, r.From.Format(time.DateOnly), r.CP, r.WPrime, r.Threshold)
	for _, v := range r.Boundaries {
		fmt.Fprintf(&b, "|%g", v)
	}
	return crc32.ChecksumIEEE([]byte(b.String()))
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
