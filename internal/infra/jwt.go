// README: JWT issuing and verification; supplies the authenticated principal for all core operations.
package infra

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"guardian/internal/types"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Principal is the authenticated identity attached to a request. Downstream
// services trust it and never re-validate credentials.
type Principal struct {
	UserID types.ID
}

// TokenVerifier verifies a raw bearer token string and returns the principal.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// TokenIssuer signs a token for a user. Implemented alongside the verifier so
// login and middleware share one secret and claim layout.
type TokenIssuer interface {
	Issue(userID types.ID) (string, error)
}

type claims struct {
	jwt.RegisteredClaims
}

// JWTManager is the production TokenVerifier/TokenIssuer backed by HS256.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl}
}

func (m *JWTManager) Issue(userID types.ID) (string, error) {
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "guardian",
			Subject:   string(userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

func (m *JWTManager) Verify(_ context.Context, token string) (*Principal, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer("guardian"))
	if err != nil {
		return nil, ErrInvalidToken
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Principal{UserID: types.ID(c.Subject)}, nil
}
