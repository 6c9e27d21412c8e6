package session

import (
	"context"
	"errors"
	"time"

	"github.com/atol-canopy/canopy/pkg/domain"
	domerr "github.com/atol-canopy/canopy/pkg/domain/errors"
	kdb "github.com/atol-canopy/canopy/pkg/domain/session/db"
	"github.com/atol-canopy/canopy/pkg/domain/session/password"
	"github.com/atol-canopy/canopy/pkg/domain/session/token"
)

type Interface interface {
	Database() kdb.SessionInterface

	// Authenticate checks a username/password pair and, when it is good,
	// issues a fresh access/refresh token pair.
	//
	// # Returns
	//
	// - domain.TokenPair
	//
	// - error: domain.ErrInvalidCredentials when the user is unknown or the
	// password does not match, domain.ErrAccountDisabled for inactive accounts.
	Authenticate(ctx context.Context, username string, plainPassword string) (domain.TokenPair, error)

	// Refresh rotates the presented refresh token and issues a new pair.
	// The presented token is single-use; presenting it again revokes every
	// token of its owner.
	//
	// # Returns
	//
	// - domain.TokenPair
	//
	// - error: domain.ErrTokenNotFound, domain.ErrTokenExpired,
	// domain.ErrTokenRevoked (also when the reuse was detected and the
	// family has been revoked), domain.ErrAccountDisabled.
	Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error)

	// Revoke marks every refresh token of the user revoked.
	Revoke(ctx context.Context, userId string) error

	// ValidateAccess verifies an access token string offline.
	ValidateAccess(accessToken string) (*domain.Claims, error)
}

// bcrypt hash of an unguessable throwaway value.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type impl struct {
	db         kdb.SessionInterface
	issuer     *token.Issuer
	hasher     password.Hasher
	refreshTTL time.Duration
}

// New creates a session service.
//
// # Args
//
// - db: user and refresh token store
//
// - issuer: access token signer/verifier
//
// - hasher: password hash verifier
//
// - refreshTTL: lifetime of newly stored refresh tokens
func New(db kdb.SessionInterface, issuer *token.Issuer, hasher password.Hasher, refreshTTL time.Duration) Interface {
	return &impl{db: db, issuer: issuer, hasher: hasher, refreshTTL: refreshTTL}
}

func (s *impl) Database() kdb.SessionInterface {
	return s.db
}

func (s *impl) Authenticate(ctx context.Context, username string, plainPassword string) (domain.TokenPair, error) {
	u, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domerr.ErrMissing) {
			// burn a comparison anyway so unknown and known usernames
			// take about the same time
			s.hasher.Verify(plainPassword, dummyHash)
			return domain.TokenPair{}, domain.ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}

	if !s.hasher.Verify(plainPassword, u.HashedPassword) {
		return domain.TokenPair{}, domain.ErrInvalidCredentials
	}
	if !u.Active {
		return domain.TokenPair{}, domain.ErrAccountDisabled
	}

	return s.issuePair(ctx, u)
}

func (s *impl) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	plaintext, newHash, err := token.NewRefreshToken()
	if err != nil {
		return domain.TokenPair{}, err
	}

	u, err := s.db.Rotate(
		ctx, token.Hash(refreshToken), newHash,
		time.Now().Add(s.refreshTTL),
	)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if !u.Active {
		return domain.TokenPair{}, domain.ErrAccountDisabled
	}

	access, err := s.issuer.Issue(u)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: plaintext}, nil
}

func (s *impl) Revoke(ctx context.Context, userId string) error {
	return s.db.RevokeAll(ctx, userId)
}

func (s *impl) ValidateAccess(accessToken string) (*domain.Claims, error) {
	return s.issuer.Verify(accessToken)
}

func (s *impl) issuePair(ctx context.Context, u domain.User) (domain.TokenPair, error) {
	access, err := s.issuer.Issue(u)
	if err != nil {
		return domain.TokenPair{}, err
	}

	plaintext, hash, err := token.NewRefreshToken()
	if err != nil {
		return domain.TokenPair{}, err
	}
	if _, err := s.db.NewToken(ctx, u.Id, hash, time.Now().Add(s.refreshTTL)); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{AccessToken: access, RefreshToken: plaintext}, nil
}
