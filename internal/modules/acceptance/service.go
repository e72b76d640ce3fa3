// README: Acceptance workflow; accept/decline offers and the owner's confirmation step.
package acceptance

import (
	"context"
	"errors"
	"time"

	"guardian/internal/modules/request"
	"guardian/internal/types"
)

var (
	ErrNotFound      = errors.New("request or responder not found")
	ErrConflict      = errors.New("request is not open for acceptance")
	ErrOwnRequest    = errors.New("cannot respond to own request")
	ErrInvalidAction = errors.New("action must be accept or decline")
)

type Service struct {
	store *Store
	now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

type AcceptCommand struct {
	RequestID types.ID
	UserID    types.ID
}

type DeclineCommand struct {
	RequestID types.ID
	UserID    types.ID
}

type RespondCommand struct {
	RequestID types.ID
	OwnerID   types.ID
	UserID    types.ID
	Action    string
}

// Accept records a responder's offer on an open request. Idempotent for the
// same responder; a request that is closed, canceled, or past its meeting
// time rejects the offer and gains no row.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) error {
	st, err := s.store.RequestState(ctx, cmd.RequestID)
	if err != nil {
		return err
	}
	if st.OwnerID == cmd.UserID {
		return ErrOwnRequest
	}
	effective := request.EffectiveStatus(request.Status(st.Status), st.MeetingTime, s.now())
	if effective != request.StatusOpen {
		return ErrConflict
	}
	return s.store.Upsert(ctx, cmd.RequestID, cmd.UserID)
}

// Decline withdraws the responder's own offer entirely. Declining an offer
// that does not exist is a no-op.
func (s *Service) Decline(ctx context.Context, cmd DeclineCommand) error {
	_, err := s.store.Delete(ctx, cmd.RequestID, cmd.UserID)
	return err
}

// Respond is the owner's verdict on a pending responder: accept confirms the
// responder, decline removes the row. Declining an absent responder is a
// no-op; a caller who does not own the request sees ErrNotFound.
func (s *Service) Respond(ctx context.Context, cmd RespondCommand) error {
	if cmd.Action != ActionAccept && cmd.Action != ActionDecline {
		return ErrInvalidAction
	}

	st, err := s.store.RequestState(ctx, cmd.RequestID)
	if err != nil {
		return err
	}
	if st.OwnerID != cmd.OwnerID {
		return ErrNotFound
	}

	if cmd.Action == ActionDecline {
		_, err := s.store.Delete(ctx, cmd.RequestID, cmd.UserID)
		return err
	}

	ok, err := s.store.SetCreatorAccepted(ctx, cmd.RequestID, cmd.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ListByOwner returns the responders for every request the owner holds,
// keyed by request id, already filtered of declined rows on closed requests.
func (s *Service) ListByOwner(ctx context.Context, ownerID types.ID) (map[types.ID][]Responder, error) {
	return s.store.ListByOwner(ctx, ownerID)
}
