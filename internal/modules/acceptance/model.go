// README: Responder join entity linking users to requests they offered to fulfill.
package acceptance

import (
	"time"

	"guardian/internal/types"
)

// ResponderStatus is the responder's own standing on a request.
type ResponderStatus string

// CreatorStatus is the owner's verdict on a responder.
type CreatorStatus string

const (
	ResponderPending  ResponderStatus = "pending"
	ResponderAccepted ResponderStatus = "accepted"

	CreatorPending  CreatorStatus = "pending"
	CreatorAccepted CreatorStatus = "accepted"
	CreatorDeclined CreatorStatus = "declined"
)

// AcceptedRequest is one responder's relationship to one request. The pair
// (RequestID, UserID) is unique.
type AcceptedRequest struct {
	RequestID     types.ID
	UserID        types.ID
	Status        ResponderStatus
	CreatorStatus CreatorStatus
	CreatedAt     time.Time
}

// Responder is a join row enriched with the responder's public profile for
// owner-facing listings.
type Responder struct {
	RequestID     types.ID
	UserID        types.ID
	Name          string
	Surname       string
	ProfileImage  []byte
	Status        ResponderStatus
	CreatorStatus CreatorStatus
}

// Owner responses to a pending responder.
const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
)
