// Package staleness decides whether a ride's cached derived data must be
// recomputed after configuration or content changes.
package staleness

import (
	"hash/crc32"
	"sort"
	"time"

	"rideintervals/internal/zones"
)

// Reason explains a stale verdict
type Reason int

const (
	Fresh Reason = iota
	SchemaChanged
	WeightChanged
	ZonesChanged
	ContentChanged
	NoIntervals
	CacheStale
	MetadataChanged
)

var reasonNames = [...]string{
	"fresh",
	"schema version changed",
	"body mass changed",
	"zone configuration changed",
	"file content changed",
	"samples but no intervals",
	"derived cache stale",
	"metadata changed",
}

func (r Reason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return "unknown"
	}
	return reasonNames[r]
}

// Record is the state saved with a ride on its last successful refresh
type Record struct {
	SchemaVersion int
	Fingerprint   uint64
	Weight        float64 // kg
	MetadataCRC   uint32
	ContentCRC    uint32 // 0 when never computed
	ContentTime   time.Time
	HasSamples    bool
	Intervals     int // derived intervals held after the refresh
	Color         string
}

// CacheChecker is a derived-data cache that tracks its own staleness
type CacheChecker interface {
	Stale() bool
}

// Live is a read-only snapshot of the current configuration and content
type Live struct {
	SchemaVersion   int
	Date            time.Time // ride date, selects the zone ranges
	Zones           zones.Set
	BodyMass        float64 // kg, already resolved for the ride date
	ContentModified time.Time
	ContentChecksum func() uint32 // only called when the content is newer than the record
	Cache           CacheChecker  // may be nil
	Metadata        map[string]string
	Color           string
}

// Verdict is the outcome of a staleness check
type Verdict struct {
	Stale  bool
	Reason Reason
}

// Evaluate compares the record against the live configuration. Checks run
// in priority order and stop at the first one that fires.
//
// The ride color is always refreshed on rec, and so is the weight when it
// still matches at gram precision.
func Evaluate(rec *Record, live Live) Verdict {
	rec.Color = live.Color

	if rec.SchemaVersion != live.SchemaVersion {
		return stale(SchemaChanged)
	}

	if grams(rec.Weight) != grams(live.BodyMass) {
		return stale(WeightChanged)
	}
	rec.Weight = live.BodyMass

	if rec.Fingerprint != ZoneFingerprint(live.Zones, live.Date) {
		return stale(ZonesChanged)
	}

	if live.ContentModified.After(rec.ContentTime) && live.ContentChecksum != nil {
		if crc := live.ContentChecksum(); rec.ContentCRC == 0 || crc != rec.ContentCRC {
			return stale(ContentChanged)
		}
	}

	if rec.HasSamples && rec.Intervals == 0 {
		return stale(NoIntervals)
	}

	if live.Cache != nil && live.Cache.Stale() {
		return stale(CacheStale)
	}

	if rec.MetadataCRC != MetadataChecksum(live.Metadata) {
		return stale(MetadataChanged)
	}

	return Verdict{Reason: Fresh}
}

// ZoneFingerprint is the composite fingerprint of the zone ranges that
// apply on the date.
func ZoneFingerprint(set zones.Set, date time.Time) uint64 {
	return set.Fingerprint(date)
}

// MetadataChecksum checksums the tags in key order, each key followed by
// its value.
func MetadataChecksum(tags map[string]string) uint32 {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := crc32.NewIEEE()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte(tags[k]))
	}
	return h.Sum32()
}

func grams(kg float64) int64 {
	return int64(1000 * kg)
}

func stale(r Reason) Verdict {
	return Verdict{Stale: true, Reason: r}
}
