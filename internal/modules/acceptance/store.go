// README: Responder store; upsert-on-unique-key serializes concurrent accepts.
package acceptance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"guardian/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// RequestState is the slice of a request the workflow needs to gate accepts.
type RequestState struct {
	OwnerID     types.ID
	Status      string
	MeetingTime time.Time
}

func (s *Store) RequestState(ctx context.Context, requestID types.ID) (*RequestState, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, request_status, meeting_time
		FROM requests
		WHERE id = $1`, string(requestID),
	)
	var st RequestState
	err := row.Scan(&st.OwnerID, &st.Status, &st.MeetingTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Upsert records the responder's offer. Re-accepting the same request only
// refreshes the responder status; the unique (request_id, user_id) key
// prevents duplicate rows under concurrent accepts.
func (s *Store) Upsert(ctx context.Context, requestID, userID types.ID) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO accepted_requests (request_id, user_id, status, creator_status)
		VALUES ($1, $2, 'accepted', 'pending')
		ON CONFLICT (request_id, user_id) DO UPDATE SET status = 'accepted'`,
		string(requestID), string(userID),
	)
	return err
}

// Delete removes the responder row. Returns the number of rows removed so
// callers can stay idempotent.
func (s *Store) Delete(ctx context.Context, requestID, userID types.ID) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM accepted_requests
		WHERE request_id = $1 AND user_id = $2`,
		string(requestID), string(userID),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SetCreatorAccepted confirms a responder on behalf of the owner.
func (s *Store) SetCreatorAccepted(ctx context.Context, requestID, userID types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE accepted_requests
		SET creator_status = 'accepted'
		WHERE request_id = $1 AND user_id = $2`,
		string(requestID), string(userID),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) Get(ctx context.Context, requestID, userID types.ID) (*AcceptedRequest, error) {
	row := s.db.QueryRow(ctx, `
		SELECT request_id, user_id, status, creator_status, created_at
		FROM accepted_requests
		WHERE request_id = $1 AND user_id = $2`,
		string(requestID), string(userID),
	)
	var ar AcceptedRequest
	err := row.Scan(&ar.RequestID, &ar.UserID, &ar.Status, &ar.CreatorStatus, &ar.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ar, nil
}

// ListByOwner returns responder rows for every request owned by ownerID,
// joined with the responder's public profile. Declined responders on closed
// requests are filtered here as well as by the close cascade, so a stale row
// never reaches a client.
func (s *Store) ListByOwner(ctx context.Context, ownerID types.ID) (map[types.ID][]Responder, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ar.request_id, u.id, u.name, u.surname, u.profile_image,
		       ar.status, ar.creator_status
		FROM accepted_requests ar
		JOIN users u ON ar.user_id = u.id
		JOIN requests r ON ar.request_id = r.id
		WHERE r.user_id = $1
		  AND NOT (r.request_status = 'closed' AND ar.creator_status = 'declined')
		ORDER BY ar.created_at`, string(ownerID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[types.ID][]Responder)
	for rows.Next() {
		var r Responder
		if err := rows.Scan(
			&r.RequestID, &r.UserID, &r.Name, &r.Surname, &r.ProfileImage,
			&r.Status, &r.CreatorStatus,
		); err != nil {
			return nil, err
		}
		out[r.RequestID] = append(out[r.RequestID], r)
	}
	return out, rows.Err()
}
