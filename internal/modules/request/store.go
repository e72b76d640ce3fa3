// README: Request store backed by PostgreSQL; multi-statement cascades run in one transaction.
package request

import (
	"context"
	"errors"

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

const requestColumns = `id, user_id, start_location, end_location, meeting_time, request_type, request_status, created_at`

func (s *Store) Create(ctx context.Context, r *Request) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO requests (
			id, user_id, start_location, end_location,
			meeting_time, request_type, request_status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(r.ID),
		string(r.OwnerID),
		r.StartLocation,
		r.EndLocation,
		r.MeetingTime,
		r.Type,
		string(r.Status),
		r.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Request, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+requestColumns+`
		FROM requests
		WHERE id = $1`, string(id),
	)
	return scanRequest(row)
}

// GetOwned returns the request only when it belongs to ownerID. An absent row
// and an owner mismatch are indistinguishable to the caller.
func (s *Store) GetOwned(ctx context.Context, id, ownerID types.ID) (*Request, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+requestColumns+`
		FROM requests
		WHERE id = $1 AND user_id = $2`, string(id), string(ownerID),
	)
	return scanRequest(row)
}

// Update rewrites the mutable fields for the owner's request. Returns false
// when no matching row exists.
func (s *Store) Update(ctx context.Context, r *Request) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE requests
		SET start_location = $1, end_location = $2, meeting_time = $3,
		    request_type = $4, request_status = $5
		WHERE id = $6 AND user_id = $7`,
		r.StartLocation, r.EndLocation, r.MeetingTime,
		r.Type, string(r.Status),
		string(r.ID), string(r.OwnerID),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// CloseWithCascade closes the request and flips every pending responder to
// declined, atomically. Accepted responders are left untouched.
func (s *Store) CloseWithCascade(ctx context.Context, r *Request) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE requests
		SET start_location = $1, end_location = $2, meeting_time = $3,
		    request_type = $4, request_status = 'closed'
		WHERE id = $5 AND user_id = $6`,
		r.StartLocation, r.EndLocation, r.MeetingTime, r.Type,
		string(r.ID), string(r.OwnerID),
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, `
		UPDATE accepted_requests
		SET creator_status = 'declined'
		WHERE request_id = $1 AND creator_status = 'pending'`,
		string(r.ID),
	); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// CancelOpen cancels the owner's request only while it is still open.
func (s *Store) CancelOpen(ctx context.Context, id, ownerID types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE requests
		SET request_status = 'canceled'
		WHERE id = $1 AND user_id = $2 AND request_status = 'open'`,
		string(id), string(ownerID),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Reopen rewrites the request fields and sets it back to open, only from the
// closed state. The fields and the status change land in one statement.
func (s *Store) Reopen(ctx context.Context, r *Request) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE requests
		SET start_location = $1, end_location = $2, meeting_time = $3,
		    request_type = $4, request_status = 'open'
		WHERE id = $5 AND user_id = $6 AND request_status = 'closed'`,
		r.StartLocation, r.EndLocation, r.MeetingTime, r.Type,
		string(r.ID), string(r.OwnerID),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes the owner's request and its responder rows atomically.
func (s *Store) Delete(ctx context.Context, id, ownerID types.ID) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		DELETE FROM accepted_requests
		WHERE request_id = $1`, string(id),
	); err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM requests
		WHERE id = $1 AND user_id = $2`, string(id), string(ownerID),
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// ListOpenExcluding returns open requests from other users joined with the
// owner's public profile, most recent meeting time first.
func (s *Store) ListOpenExcluding(ctx context.Context, viewerID types.ID) ([]OpenRequest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT r.id, r.user_id, r.start_location, r.end_location,
		       r.meeting_time, r.request_type, r.request_status, r.created_at,
		       u.name, u.surname, u.profile_image
		FROM requests r
		JOIN users u ON r.user_id = u.id
		WHERE r.request_status = 'open' AND r.user_id <> $1
		ORDER BY r.meeting_time DESC`, string(viewerID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OpenRequest, 0)
	for rows.Next() {
		var o OpenRequest
		if err := rows.Scan(
			&o.ID, &o.OwnerID, &o.StartLocation, &o.EndLocation,
			&o.MeetingTime, &o.Type, &o.Status, &o.CreatedAt,
			&o.Owner.Name, &o.Owner.Surname, &o.Owner.ProfileImage,
		); err != nil {
			return nil, err
		}
		o.Owner.ID = o.OwnerID
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListOwn returns every request owned by ownerID regardless of status,
// newest first.
func (s *Store) ListOwn(ctx context.Context, ownerID types.ID) ([]Request, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+requestColumns+`
		FROM requests
		WHERE user_id = $1
		ORDER BY created_at DESC`, string(ownerID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Request, 0)
	for rows.Next() {
		var r Request
		if err := rows.Scan(
			&r.ID, &r.OwnerID, &r.StartLocation, &r.EndLocation,
			&r.MeetingTime, &r.Type, &r.Status, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRequest(row pgx.Row) (*Request, error) {
	var r Request
	err := row.Scan(
		&r.ID, &r.OwnerID, &r.StartLocation, &r.EndLocation,
		&r.MeetingTime, &r.Type, &r.Status, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
