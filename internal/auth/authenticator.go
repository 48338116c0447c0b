package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Priyanshux26/Gym-management-system/internal/domain"
)

// ErrInvalidCredentials is returned when a username or password does not match.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Authenticator verifies staff credentials and manages session tokens.
type Authenticator struct {
	users   domain.UserRepository
	config  Config
	revoked RevocationList
	clock   func() time.Time
}

// NewAuthenticator constructs an Authenticator.
func NewAuthenticator(users domain.UserRepository, cfg Config, revoked RevocationList) *Authenticator {
	if revoked == nil {
		revoked = NewMemoryRevocationList()
	}
	return &Authenticator{users: users, config: cfg, revoked: revoked, clock: time.Now}
}

// Login checks credentials and issues a session token.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, *Claims, error) {
	user, err := a.users.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}
	return Issue(*user, a.config, a.clock())
}

// Logout revokes the token described by claims until it would have expired.
func (a *Authenticator) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil {
		return ErrMissingToken
	}
	return a.revoked.Revoke(ctx, claims.TokenID, claims.ExpiresAt)
}
