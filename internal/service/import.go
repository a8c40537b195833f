package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"rideintervals/internal/ridefile"
	"rideintervals/internal/store"
)

// ImportProgress reports progress during an import
type ImportProgress struct {
	Total       int
	Completed   int
	CurrentFile string
}

// ImportResult contains the results of an import
type ImportResult struct {
	RidesImported  int
	RoutesImported int
	Errors         []error
}

// Import loads every ride document in dir into the catalog, then the route
// table from its routes document if there is one. Rides already in the
// catalog keep their staleness record, so a changed file is picked up by
// the next check.
func (s *RideService) Import(ctx context.Context, dir string, progress chan<- ImportProgress) (*ImportResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &ImportResult{}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return result, fmt.Errorf("listing ride files: %w", err)
	}
	sort.Strings(files)

	var rides []string
	for _, f := range files {
		if filepath.Base(f) != ridefile.RoutesFile {
			rides = append(rides, f)
		}
	}

	for i, path := range rides {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if progress != nil {
			progress <- ImportProgress{
				Total:       len(rides),
				Completed:   i,
				CurrentFile: filepath.Base(path),
			}
		}

		doc, err := ridefile.Read(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("reading %s: %w", filepath.Base(path), err))
			continue
		}

		id, err := doc.RideID()
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", filepath.Base(path), err))
			continue
		}

		ride := &store.Ride{ID: id, Path: dir, FileName: filepath.Base(path)}
		existing, err := s.store.GetRide(id)
		switch {
		case err == nil:
			ride.Staleness = existing.Staleness
		case !errors.Is(err, store.ErrRideNotFound):
			result.Errors = append(result.Errors, fmt.Errorf("looking up ride %d: %w", id, err))
			continue
		}

		if err := s.save(ride, doc); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing %s: %w", filepath.Base(path), err))
			continue
		}
		result.RidesImported++
		s.logger.Debug("imported ride", "ride", id, "file", ride.FileName, "samples", doc.Streams.Len())
	}

	if progress != nil {
		progress <- ImportProgress{Total: len(rides), Completed: len(rides)}
	}

	routes, err := ridefile.ReadRoutes(filepath.Join(dir, ridefile.RoutesFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
		return result, nil
	case err != nil:
		return result, fmt.Errorf("reading routes: %w", err)
	}

	for _, r := range routes {
		if err := s.store.SaveRoute(r); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing route %q: %w", r.Name, err))
			continue
		}
		result.RoutesImported++
	}

	return result, nil
}

// save writes a ride document into the catalog under ride's id, file and
// staleness record
func (s *RideService) save(ride *store.Ride, doc *ridefile.Ride) error {
	ride.Name = doc.Name
	ride.Sport = doc.Sport
	ride.StartTime = doc.StartTime.Time()
	ride.RecInterval = doc.RecInterval

	if err := s.store.UpsertRide(ride); err != nil {
		return fmt.Errorf("saving ride: %w", err)
	}
	if err := s.store.SaveSamples(ride.ID, doc.Samples()); err != nil {
		return err
	}
	if err := s.store.SaveTags(ride.ID, doc.Tags); err != nil {
		return err
	}
	return s.store.SaveSourceIntervals(ride.ID, doc.SourceIntervals())
}
