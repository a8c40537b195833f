package service

import (
	"context"
	"fmt"

	"rideintervals/internal/staleness"
)

// RefreshProgress reports progress during a catalog refresh
type RefreshProgress struct {
	Total       int
	Completed   int
	CurrentRide string
}

// RefreshResult contains the results of a catalog refresh
type RefreshResult struct {
	Checked   int
	Refreshed int
	Reasons   map[staleness.Reason]int
	Errors    []error
}

// RefreshAll checks every ride in the catalog and refreshes the stale
// ones. Per-ride failures are collected and do not stop the run.
func (s *RideService) RefreshAll(ctx context.Context, progress chan<- RefreshProgress) (*RefreshResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &RefreshResult{Reasons: make(map[staleness.Reason]int)}

	rides, err := s.store.ListRides()
	if err != nil {
		return result, fmt.Errorf("listing rides: %w", err)
	}

	for i, ride := range rides {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if progress != nil {
			progress <- RefreshProgress{
				Total:       len(rides),
				Completed:   i,
				CurrentRide: ride.Name,
			}
		}

		verdict, err := s.Check(ride.ID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("checking ride %d (%s): %w", ride.ID, ride.Name, err))
			continue
		}
		result.Checked++
		result.Reasons[verdict.Reason]++

		if !verdict.Stale {
			continue
		}

		if _, err := s.Refresh(ride.ID); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("refreshing ride %d (%s): %w", ride.ID, ride.Name, err))
			continue
		}
		result.Refreshed++
	}

	if progress != nil {
		progress <- RefreshProgress{Total: len(rides), Completed: len(rides)}
	}

	return result, nil
}
