package service

import (
	"errors"
	"fmt"
	"hash/crc32"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"rideintervals/internal/analysis"
	"rideintervals/internal/config"
	"rideintervals/internal/palette"
	"rideintervals/internal/ridefile"
	"rideintervals/internal/staleness"
	"rideintervals/internal/store"
	"rideintervals/internal/zones"
)

// RideService decides when a ride's derived data is stale and rebuilds it
type RideService struct {
	store         *store.DB
	zones         zones.Set
	colors        *palette.Engine
	colorField    string
	weightKG      float64
	activitiesDir string
	logger        *slog.Logger
	now           func() time.Time
}

// NewRideService creates a ride service over a configuration snapshot
func NewRideService(db *store.DB, cfg *config.Config, logger *slog.Logger) *RideService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RideService{
		store:         db,
		zones:         cfg.ZoneSet(),
		colors:        palette.NewEngine(cfg.ColorRules()),
		colorField:    cfg.Colors.Field,
		weightKG:      cfg.Athlete.WeightKG,
		activitiesDir: cfg.Data.ActivitiesDir,
		logger:        logger,
		now:           time.Now,
	}
}

// Check reports whether the ride needs a refresh. The ride color, and the
// weight when it still matches, are saved back as a side effect.
func (s *RideService) Check(id int64) (staleness.Verdict, error) {
	ride, err := s.store.GetRide(id)
	if err != nil {
		return staleness.Verdict{}, err
	}

	tags, err := s.store.GetTags(id)
	if err != nil {
		return staleness.Verdict{}, fmt.Errorf("loading tags: %w", err)
	}

	live, err := s.live(ride, tags)
	if err != nil {
		return staleness.Verdict{}, err
	}

	rec := ride.Staleness
	verdict := staleness.Evaluate(&rec, live)

	if rec.Color != ride.Staleness.Color || rec.Weight != ride.Staleness.Weight {
		if err := s.store.UpdateStaleness(id, rec); err != nil {
			return verdict, fmt.Errorf("saving ride state: %w", err)
		}
	}

	s.logger.Debug("checked ride", "ride", id, "stale", verdict.Stale, "reason", verdict.Reason.String())
	return verdict, nil
}

// Refresh rereads the ride file, rebuilds the derived intervals of the
// ride and saves the new staleness record.
func (s *RideService) Refresh(id int64) ([]analysis.DerivedInterval, error) {
	ride, err := s.store.GetRide(id)
	if err != nil {
		return nil, err
	}

	if err := s.reload(ride); err != nil {
		return nil, err
	}

	tags, err := s.store.GetTags(id)
	if err != nil {
		return nil, fmt.Errorf("loading tags: %w", err)
	}

	derived, err := s.discover(ride, tags)
	if err != nil {
		return nil, err
	}

	bodyMass, err := BodyMass(s.store, ride.StartTime, tags, s.weightKG)
	if err != nil {
		return nil, err
	}

	hasSamples, err := s.store.HasSamples(id)
	if err != nil {
		return nil, fmt.Errorf("checking samples: %w", err)
	}

	rec := staleness.Record{
		SchemaVersion: SchemaVersion,
		Fingerprint:   staleness.ZoneFingerprint(s.zones, ride.StartTime),
		Weight:        bodyMass,
		MetadataCRC:   staleness.MetadataChecksum(tags),
		ContentTime:   s.now(),
		HasSamples:    hasSamples,
		Intervals:     len(derived),
		Color:         s.colors.ColorFor(tags[s.colorField]),
	}
	if path := s.filePath(ride); path != "" {
		crc, err := fileChecksum(path)
		if err != nil {
			s.logger.Warn("could not checksum ride file", "ride", id, "path", path, "error", err)
		}
		rec.ContentCRC = crc
	}

	if err := s.store.UpdateStaleness(id, rec); err != nil {
		return nil, fmt.Errorf("saving ride state: %w", err)
	}

	s.logger.Info("refreshed ride", "ride", id, "name", ride.Name, "intervals", len(derived))
	return derived, nil
}

// Intervals returns the derived intervals of a ride, refreshing it first
// if it is stale.
func (s *RideService) Intervals(id int64) ([]analysis.DerivedInterval, staleness.Verdict, error) {
	verdict, err := s.Check(id)
	if err != nil {
		return nil, verdict, err
	}
	if verdict.Stale {
		derived, err := s.Refresh(id)
		return derived, verdict, err
	}

	ride, err := s.store.GetRide(id)
	if err != nil {
		return nil, verdict, err
	}
	tags, err := s.store.GetTags(id)
	if err != nil {
		return nil, verdict, fmt.Errorf("loading tags: %w", err)
	}
	derived, err := s.discover(ride, tags)
	return derived, verdict, err
}

// reload replaces the stored samples, tags and intervals of a ride with the
// contents of its file. A missing file leaves the catalog as it is.
func (s *RideService) reload(ride *store.Ride) error {
	path := s.filePath(ride)
	if path == "" {
		return nil
	}

	doc, err := ridefile.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("ride file unavailable, using stored samples", "ride", ride.ID, "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading ride file: %w", err)
	}

	if err := s.save(ride, doc); err != nil {
		return fmt.Errorf("storing ride file: %w", err)
	}
	return nil
}

// discover loads everything the engine needs and runs it
func (s *RideService) discover(ride *store.Ride, tags map[string]string) ([]analysis.DerivedInterval, error) {
	samples, err := s.store.GetSamples(ride.ID)
	if err != nil {
		return nil, fmt.Errorf("loading samples: %w", err)
	}

	recorded, err := s.store.GetSourceIntervals(ride.ID)
	if err != nil {
		return nil, fmt.Errorf("loading intervals: %w", err)
	}

	routes, err := s.store.ListRoutes()
	if err != nil {
		return nil, fmt.Errorf("loading routes: %w", err)
	}

	series := analysis.Series{Samples: samples, RecInterval: ride.RecInterval}
	activity := analysis.Activity{
		ID:        ride.ID,
		Start:     ride.StartTime,
		Sport:     analysis.Sport(ride.Sport),
		Series:    series,
		Metrics:   analysis.ComputeRideMetrics(series),
		Intervals: recorded,
		Tags:      tags,
	}

	return analysis.DiscoverIntervals(activity, analysis.Options{
		Capacity: s.zones.Power,
		Routes:   routes,
		Color:    palette.StandardColor,
	}), nil
}

// live snapshots the current configuration and file state for a ride
func (s *RideService) live(ride *store.Ride, tags map[string]string) (staleness.Live, error) {
	bodyMass, err := BodyMass(s.store, ride.StartTime, tags, s.weightKG)
	if err != nil {
		return staleness.Live{}, err
	}

	live := staleness.Live{
		SchemaVersion: SchemaVersion,
		Date:          ride.StartTime,
		Zones:         s.zones,
		BodyMass:      bodyMass,
		Metadata:      tags,
		Color:         s.colors.ColorFor(tags[s.colorField]),
	}

	if path := s.filePath(ride); path != "" {
		info, err := os.Stat(path)
		if err != nil {
			s.logger.Warn("ride file unavailable", "ride", ride.ID, "path", path, "error", err)
			return live, nil
		}
		live.ContentModified = info.ModTime()
		live.ContentChecksum = func() uint32 {
			crc, err := fileChecksum(path)
			if err != nil {
				s.logger.Warn("could not checksum ride file", "ride", ride.ID, "path", path, "error", err)
			}
			return crc
		}
	}

	return live, nil
}

// filePath locates the ride file. Rides stored without a directory are
// looked up in the activities directory.
func (s *RideService) filePath(ride *store.Ride) string {
	if ride.FileName != "" && ride.Path == "" && s.activitiesDir != "" {
		return filepath.Join(s.activitiesDir, ride.FileName)
	}
	return ride.FilePath()
}

// fileChecksum returns the CRC-32 of a file's bytes
func fileChecksum(path string) (uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return crc32.ChecksumIEEE(data), nil
}
