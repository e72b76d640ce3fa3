// README: Registration and login; bcrypt hashing and token issuance for the auth collaborator.
package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"guardian/internal/infra"
	"guardian/internal/modules/profile"
	"guardian/internal/types"
)

var (
	ErrBadRequest         = errors.New("missing or malformed registration fields")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service struct {
	users  *profile.Store
	issuer infra.TokenIssuer
	now    func() time.Time
}

func NewService(users *profile.Store, issuer infra.TokenIssuer) *Service {
	return &Service{users: users, issuer: issuer, now: time.Now}
}

type RegisterCommand struct {
	Name     string
	Surname  string
	Email    string
	Password string
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (types.ID, error) {
	if strings.TrimSpace(cmd.Name) == "" || strings.TrimSpace(cmd.Surname) == "" || cmd.Password == "" {
		return "", ErrBadRequest
	}
	if _, err := mail.ParseAddress(cmd.Email); err != nil {
		return "", ErrBadRequest
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	u := &profile.User{
		ID:           types.NewID(),
		Name:         cmd.Name,
		Surname:      cmd.Surname,
		Email:        strings.ToLower(cmd.Email),
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return "", err
	}
	return u.ID, nil
}

// Login verifies the credentials and returns a signed bearer token plus the
// user id. A missing user and a wrong password are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (string, types.ID, error) {
	u, err := s.users.GetUserByEmail(ctx, strings.ToLower(email))
	if errors.Is(err, profile.ErrNotFound) {
		return "", "", ErrInvalidCredentials
	}
	if err != nil {
		return "", "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", "", ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(u.ID)
	if err != nil {
		return "", "", err
	}
	return token, u.ID, nil
}
