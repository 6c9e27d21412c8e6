package domain

import (
	"errors"
	"time"
)

// Claims is the verified content of an access token.
type Claims struct {
	// user id of the subject
	Subject string
	Roles   []Role

	Superuser bool

	ExpiresAt time.Time
}

// HasAnyRole reports whether the claims carry at least one of the given
// roles. Superusers pass every check.
func (c *Claims) HasAnyRole(roles ...Role) bool {
	if c.Superuser {
		return true
	}
	for _, want := range roles {
		for _, have := range c.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// TokenPair is what a successful login or refresh returns.
// RefreshToken is the plaintext; only its hash is ever stored.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RefreshToken is a stored (hashed) refresh token row.
type RefreshToken struct {
	Id        string
	UserId    string
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool

	CreatedAt time.Time
}

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrTokenNotFound      = errors.New("refresh token is not known")
	ErrTokenExpired       = errors.New("token is expired")
	ErrTokenRevoked       = errors.New("token is revoked")
	ErrTokenInvalid       = errors.New("token is invalid")
)
