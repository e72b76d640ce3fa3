// README: Request lifecycle service; owns status transitions and the close/delete cascades.
package request

import (
	"context"
	"errors"
	"strings"
	"time"

	"guardian/internal/types"
)

var (
	ErrBadRequest   = errors.New("missing or malformed request fields")
	ErrNotFound     = errors.New("request not found")
	ErrInvalidState = errors.New("invalid status transition")
	ErrConflict     = errors.New("request state conflict")
)

type Service struct {
	store *Store
	now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

type CreateCommand struct {
	OwnerID       types.ID
	StartLocation string
	EndLocation   string
	MeetingTime   time.Time
	Type          string
}

type UpdateCommand struct {
	RequestID     types.ID
	OwnerID       types.ID
	StartLocation string
	EndLocation   string
	MeetingTime   time.Time
	Type          string
	Status        Status
}

type CancelCommand struct {
	RequestID types.ID
	OwnerID   types.ID
}

type ReopenCommand struct {
	RequestID     types.ID
	OwnerID       types.ID
	StartLocation string
	EndLocation   string
	MeetingTime   time.Time
	Type          string
}

type DeleteCommand struct {
	RequestID types.ID
	OwnerID   types.ID
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, error) {
	if err := validateFields(cmd.OwnerID, cmd.StartLocation, cmd.EndLocation, cmd.MeetingTime, cmd.Type); err != nil {
		return "", err
	}

	r := &Request{
		ID:            types.NewID(),
		OwnerID:       cmd.OwnerID,
		StartLocation: strings.TrimSpace(cmd.StartLocation),
		EndLocation:   strings.TrimSpace(cmd.EndLocation),
		MeetingTime:   cmd.MeetingTime,
		Type:          cmd.Type,
		Status:        StatusOpen,
		CreatedAt:     s.now(),
	}
	if err := s.store.Create(ctx, r); err != nil {
		return "", err
	}
	return r.ID, nil
}

// Update rewrites a request's fields and recomputes its status. A future
// meeting time forces the request back to open whatever status was sent;
// an explicit close triggers the decline cascade for pending responders.
func (s *Service) Update(ctx context.Context, cmd UpdateCommand) error {
	if err := validateFields(cmd.OwnerID, cmd.StartLocation, cmd.EndLocation, cmd.MeetingTime, cmd.Type); err != nil {
		return err
	}
	if !ValidStatus(cmd.Status) {
		return ErrBadRequest
	}

	current, err := s.store.GetOwned(ctx, cmd.RequestID, cmd.OwnerID)
	if err != nil {
		return err
	}

	next := cmd.Status
	if cmd.MeetingTime.After(s.now()) {
		next = StatusOpen
	}
	if !CanTransition(current.Status, next) {
		return ErrInvalidState
	}

	updated := &Request{
		ID:            cmd.RequestID,
		OwnerID:       cmd.OwnerID,
		StartLocation: strings.TrimSpace(cmd.StartLocation),
		EndLocation:   strings.TrimSpace(cmd.EndLocation),
		MeetingTime:   cmd.MeetingTime,
		Type:          cmd.Type,
		Status:        next,
	}

	var ok bool
	if next == StatusClosed {
		ok, err = s.store.CloseWithCascade(ctx, updated)
	} else {
		ok, err = s.store.Update(ctx, updated)
	}
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Cancel moves an open request to canceled. Responder rows are left intact
// for a potential reopen.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	ok, err := s.store.CancelOpen(ctx, cmd.RequestID, cmd.OwnerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Reopen moves a closed request back to open. The caller must supply a fresh
// future meeting time; the fields are rewritten in the same statement.
func (s *Service) Reopen(ctx context.Context, cmd ReopenCommand) error {
	if err := validateFields(cmd.OwnerID, cmd.StartLocation, cmd.EndLocation, cmd.MeetingTime, cmd.Type); err != nil {
		return err
	}
	if !cmd.MeetingTime.After(s.now()) {
		return ErrBadRequest
	}

	ok, err := s.store.Reopen(ctx, &Request{
		ID:            cmd.RequestID,
		OwnerID:       cmd.OwnerID,
		StartLocation: strings.TrimSpace(cmd.StartLocation),
		EndLocation:   strings.TrimSpace(cmd.EndLocation),
		MeetingTime:   cmd.MeetingTime,
		Type:          cmd.Type,
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Delete removes the request together with its responder rows. Likes and
// comments are profile-scoped and unaffected.
func (s *Service) Delete(ctx context.Context, cmd DeleteCommand) error {
	ok, err := s.store.Delete(ctx, cmd.RequestID, cmd.OwnerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Request, error) {
	return s.store.Get(ctx, id)
}

// ListOpenExcluding returns open requests from other users. A request whose
// meeting time has already passed is surfaced with the derived closed status
// rather than rewritten in place.
func (s *Service) ListOpenExcluding(ctx context.Context, viewerID types.ID) ([]OpenRequest, error) {
	list, err := s.store.ListOpenExcluding(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range list {
		list[i].Status = EffectiveStatus(list[i].Status, list[i].MeetingTime, now)
	}
	return list, nil
}

// ListOwn returns all of the owner's requests, newest first, with lazy
// expiry applied.
func (s *Service) ListOwn(ctx context.Context, ownerID types.ID) ([]Request, error) {
	list, err := s.store.ListOwn(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range list {
		list[i].Status = EffectiveStatus(list[i].Status, list[i].MeetingTime, now)
	}
	return list, nil
}

func validateFields(ownerID types.ID, start, end string, meetingTime time.Time, reqType string) error {
	if ownerID == "" || strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return ErrBadRequest
	}
	if meetingTime.IsZero() {
		return ErrBadRequest
	}
	if !ValidType(reqType) {
		return ErrBadRequest
	}
	return nil
}
