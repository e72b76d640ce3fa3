// README: Profile store: users, likes (idempotent upsert), and comments.
package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"guardian/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) CreateUser(ctx context.Context, u *User) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, name, surname, email, password_hash, bio, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(u.ID), u.Name, u.Surname, u.Email, u.PasswordHash, u.Bio, u.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}

func (s *Store) GetUser(ctx context.Context, id types.ID) (*User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, surname, email, password_hash, bio, profile_image, created_at
		FROM users WHERE id = $1`, string(id),
	)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, surname, email, password_hash, bio, profile_image, created_at
		FROM users WHERE email = $1`, email,
	)
	return scanUser(row)
}

// UpdateProfile rewrites the mutable profile fields. The image is only
// touched when new bytes are supplied; email is immutable here.
func (s *Store) UpdateProfile(ctx context.Context, id types.ID, name, surname, bio string, image []byte) (bool, error) {
	var tag pgconn.CommandTag
	var err error
	if image != nil {
		tag, err = s.db.Exec(ctx, `
			UPDATE users SET name = $1, surname = $2, bio = $3, profile_image = $4
			WHERE id = $5`,
			name, surname, bio, image, string(id),
		)
	} else {
		tag, err = s.db.Exec(ctx, `
			UPDATE users SET name = $1, surname = $2, bio = $3
			WHERE id = $4`,
			name, surname, bio, string(id),
		)
	}
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Like records that likedBy likes userID's profile. Re-liking refreshes the
// timestamp instead of adding a row.
func (s *Store) Like(ctx context.Context, userID, likedBy types.ID) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO likes (user_id, liked_by)
		VALUES ($1, $2)
		ON CONFLICT (user_id, liked_by) DO UPDATE SET created_at = now()`,
		string(userID), string(likedBy),
	)
	return err
}

func (s *Store) LikeCount(ctx context.Context, userID types.ID) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM likes WHERE user_id = $1`, string(userID),
	).Scan(&n)
	return n, err
}

func (s *Store) AddComment(ctx context.Context, c *Comment) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO comments (id, user_id, commented_by, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		string(c.ID), string(c.UserID), string(c.AuthorID), c.Text, c.CreatedAt,
	)
	return err
}

func (s *Store) ListComments(ctx context.Context, userID types.ID) ([]Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.user_id, c.commented_by, u.name, u.surname, c.comment, c.created_at
		FROM comments c
		JOIN users u ON c.commented_by = u.id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC`, string(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Comment, 0)
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.AuthorID, &c.Author, &c.Surname, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Surname, &u.Email, &u.PasswordHash, &u.Bio, &u.ProfileImage, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
