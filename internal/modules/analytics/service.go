// README: Analytics aggregator; distance lookups degrade per trip, never fail the whole call.
package analytics

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"guardian/internal/types"
)

// Distancer resolves the travel distance between two free-text locations.
// Individual calls may fail; the aggregator isolates those failures.
type Distancer interface {
	Distance(ctx context.Context, origin, destination string) (int64, error)
}

type Service struct {
	store    *Store
	distance Distancer
	timeout  time.Duration
}

// NewService builds the aggregator. distance may be nil, in which case the
// distance-by-date series is served empty.
func NewService(store *Store, distance Distancer, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{store: store, distance: distance, timeout: timeout}
}

// ProfileStats computes the per-profile statistics on demand. Nothing is
// cached or invalidated.
func (s *Service) ProfileStats(ctx context.Context, userID types.ID) (*Stats, error) {
	completed, err := s.store.CountOwnedByStatus(ctx, userID, "closed")
	if err != nil {
		return nil, err
	}
	canceled, err := s.store.CountOwnedByStatus(ctx, userID, "canceled")
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountOwned(ctx, userID)
	if err != nil {
		return nil, err
	}
	accepted, err := s.store.CountAcceptedAsResponder(ctx, userID)
	if err != nil {
		return nil, err
	}
	typeCounts, err := s.store.TypeCounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	trips, err := s.store.ClosedTrips(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Stats{
		CompletedTrips:        completed,
		TripsAccepted:         accepted,
		CancellationRate:      CancellationRate(canceled, total),
		DistanceByDate:        s.distancesByDate(ctx, trips),
		PreferredRequestTypes: typeCounts,
	}, nil
}

// CancellationRate is canceled/total as a percentage; zero when the user has
// no requests at all.
func CancellationRate(canceled, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(canceled) / float64(total) * 100
}

// distancesByDate sums trip distances by creation date. Each lookup is
// bounded by its own timeout; a failed lookup is logged and contributes 0.
func (s *Service) distancesByDate(ctx context.Context, trips []ClosedTrip) []DateDistance {
	byDate := make(map[string]int64)
	if s.distance != nil {
		for _, t := range trips {
			callCtx, cancel := context.WithTimeout(ctx, s.timeout)
			meters, err := s.distance.Distance(callCtx, t.StartLocation, t.EndLocation)
			cancel()
			if err != nil {
				slog.Warn("distance lookup failed",
					"origin", t.StartLocation, "destination", t.EndLocation, "error", err)
				continue
			}
			byDate[t.CreatedAt.Format("2006-01-02")] += meters
		}
	}

	out := make([]DateDistance, 0, len(byDate))
	for date, meters := range byDate {
		out = append(out, DateDistance{Date: date, Meters: meters})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
