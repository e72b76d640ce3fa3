// README: Read-only queries behind the analytics aggregator.
package analytics

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"guardian/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) CountOwnedByStatus(ctx context.Context, userID types.ID, status string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM requests
		WHERE user_id = $1 AND request_status = $2`,
		string(userID), status,
	).Scan(&n)
	return n, err
}

func (s *Store) CountOwned(ctx context.Context, userID types.ID) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM requests WHERE user_id = $1`, string(userID),
	).Scan(&n)
	return n, err
}

// CountAcceptedAsResponder counts the rows where the user offered to join
// and the owner confirmed them.
func (s *Store) CountAcceptedAsResponder(ctx context.Context, userID types.ID) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM accepted_requests
		WHERE user_id = $1 AND status = 'accepted' AND creator_status = 'accepted'`,
		string(userID),
	).Scan(&n)
	return n, err
}

func (s *Store) ClosedTrips(ctx context.Context, userID types.ID) ([]ClosedTrip, error) {
	rows, err := s.db.Query(ctx, `
		SELECT start_location, end_location, created_at
		FROM requests
		WHERE user_id = $1 AND request_status = 'closed'
		ORDER BY created_at`, string(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ClosedTrip, 0)
	for rows.Next() {
		var t ClosedTrip
		if err := rows.Scan(&t.StartLocation, &t.EndLocation, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) TypeCounts(ctx context.Context, userID types.ID) ([]TypeCount, error) {
	rows, err := s.db.Query(ctx, `
		SELECT request_type, COUNT(*) AS n
		FROM requests
		WHERE user_id = $1
		GROUP BY request_type
		ORDER BY n DESC, request_type`, string(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TypeCount, 0)
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}
