// README: Travel request aggregate and status definitions.
package request

import (
	"time"

	"guardian/internal/types"
)

type Status string

const (
	StatusOpen     Status = "open"
	StatusAccepted Status = "accepted"
	StatusClosed   Status = "closed"
	StatusCanceled Status = "canceled"
)

// ValidStatus reports whether s is one of the four persistable statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusOpen, StatusAccepted, StatusClosed, StatusCanceled:
		return true
	}
	return false
}

// Request types are free choices on creation; anything outside this set is
// rejected at the validation boundary.
const (
	TypeWalk  = "Walk"
	TypeTrip  = "Trip"
	TypeOther = "Other"
)

func ValidType(t string) bool {
	return t == TypeWalk || t == TypeTrip || t == TypeOther
}

type Request struct {
	ID            types.ID
	OwnerID       types.ID
	StartLocation string
	EndLocation   string
	MeetingTime   time.Time
	Type          string
	Status        Status
	CreatedAt     time.Time
}

// OwnerProfile carries the public profile fields joined onto open-request
// listings.
type OwnerProfile struct {
	ID           types.ID
	Name         string
	Surname      string
	ProfileImage []byte
}

// OpenRequest is a browsable request with its owner's public profile.
type OpenRequest struct {
	Request
	Owner OwnerProfile
}

// AllowedTransitions represents the request status flow as code. A status may
// always be rewritten to itself; only changes consult this table.
var AllowedTransitions = map[Status][]Status{
	StatusOpen:     {StatusAccepted, StatusClosed, StatusCanceled},
	StatusAccepted: {StatusOpen, StatusClosed},
	StatusClosed:   {StatusOpen},
	StatusCanceled: {StatusOpen},
}

func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// EffectiveStatus derives the status readers must treat a request as having.
// An open request whose meeting time has elapsed is closed for all readers,
// without an eager write.
func EffectiveStatus(s Status, meetingTime, now time.Time) Status {
	if s == StatusOpen && meetingTime.Before(now) {
		return StatusClosed
	}
	return s
}
