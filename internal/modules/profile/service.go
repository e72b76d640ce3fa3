// README: Profile service: profile reads/updates and the social features.
package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"guardian/internal/types"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrBadRequest = errors.New("missing or malformed profile fields")
	ErrEmailTaken = errors.New("email already registered")
)

type Service struct {
	store *Store
	now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id types.ID) (Public, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return Public{}, err
	}
	return u.Public(), nil
}

type UpdateCommand struct {
	UserID  types.ID
	Name    string
	Surname string
	Bio     string
	Image   []byte
}

func (s *Service) Update(ctx context.Context, cmd UpdateCommand) error {
	if strings.TrimSpace(cmd.Name) == "" || strings.TrimSpace(cmd.Surname) == "" {
		return ErrBadRequest
	}
	ok, err := s.store.UpdateProfile(ctx, cmd.UserID, cmd.Name, cmd.Surname, cmd.Bio, cmd.Image)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Like is an idempotent upsert; at most one like per (likedBy, userID) pair.
func (s *Service) Like(ctx context.Context, userID, likedBy types.ID) error {
	return s.store.Like(ctx, userID, likedBy)
}

func (s *Service) LikeCount(ctx context.Context, userID types.ID) (int, error) {
	return s.store.LikeCount(ctx, userID)
}

func (s *Service) Comment(ctx context.Context, userID, authorID types.ID, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrBadRequest
	}
	return s.store.AddComment(ctx, &Comment{
		ID:        types.NewID(),
		UserID:    userID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: s.now(),
	})
}

func (s *Service) Comments(ctx context.Context, userID types.ID) ([]Comment, error) {
	return s.store.ListComments(ctx, userID)
}
