package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/atol-canopy/canopy/pkg/domain"
)

// Issuer signs and verifies access tokens with a HMAC-SHA256 key.
type Issuer struct {
	key []byte
	ttl time.Duration
}

// NewIssuer creates an Issuer.
//
// # Args
//
// - key: HMAC key used for both signing and verifying
//
// - ttl: Time to live of issued access tokens
func NewIssuer(key []byte, ttl time.Duration) *Issuer {
	return &Issuer{key: key, ttl: ttl}
}

type accessClaims struct {
	Roles     []string `json:"roles,omitempty"`
	Superuser bool     `json:"superuser,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs an access token for the user.
func (iss *Issuer) Issue(u domain.User) (string, error) {
	now := time.Now().Truncate(time.Second)

	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.String())
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Roles:     roles,
		Superuser: u.Superuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(iss.ttl)),
		},
	})
	return tok.SignedString(iss.key)
}

// Verify parses and verifies an access token string.
//
// # Returns
//
// - *domain.Claims: verified claims
//
// - error: domain.ErrTokenExpired when the token is valid but expired,
// domain.ErrTokenInvalid otherwise (malformed, bad signature, wrong alg, ...)
func (iss *Issuer) Verify(token string) (*domain.Claims, error) {
	parsed := new(accessClaims)
	_, err := jwt.ParseWithClaims(
		token, parsed,
		func(t *jwt.Token) (interface{}, error) { return iss.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Join(domain.ErrTokenExpired, err)
		}
		return nil, errors.Join(domain.ErrTokenInvalid, err)
	}

	roles := make([]domain.Role, 0, len(parsed.Roles))
	for _, s := range parsed.Roles {
		r, err := domain.ParseRole(s)
		if err != nil {
			return nil, errors.Join(domain.ErrTokenInvalid, err)
		}
		roles = append(roles, r)
	}

	c := &domain.Claims{
		Subject:   parsed.Subject,
		Roles:     roles,
		Superuser: parsed.Superuser,
	}
	if parsed.ExpiresAt != nil {
		c.ExpiresAt = parsed.ExpiresAt.Time
	}
	return c, nil
}

// NewRefreshToken draws a fresh 256-bit opaque refresh token.
//
// # Returns
//
// - string: the plaintext handed to the client, never stored
//
// - string: its hash, the only form persisted
func NewRefreshToken() (string, string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	plaintext := hex.EncodeToString(buf)
	return plaintext, Hash(plaintext), nil
}

// Hash maps a plaintext refresh token to its stored form.
func Hash(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
