// README: User profile aggregate plus profile-scoped likes and comments.
package profile

import (
	"time"

	"guardian/internal/types"
)

type User struct {
	ID           types.ID
	Name         string
	Surname      string
	Email        string
	PasswordHash string
	Bio          string
	ProfileImage []byte
	CreatedAt    time.Time
}

// Public strips the credential fields for client-facing views.
type Public struct {
	ID           types.ID
	Name         string
	Surname      string
	Email        string
	Bio          string
	ProfileImage []byte
}

func (u *User) Public() Public {
	return Public{
		ID:           u.ID,
		Name:         u.Name,
		Surname:      u.Surname,
		Email:        u.Email,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
	}
}

// Comment is an append-only note on a user's profile, listed newest first.
type Comment struct {
	ID        types.ID
	UserID    types.ID
	AuthorID  types.ID
	Author    string
	Surname   string
	Text      string
	CreatedAt time.Time
}
