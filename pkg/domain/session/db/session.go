package db

import (
	"context"
	"time"

	"github.com/atol-canopy/canopy/pkg/domain"
)

type SessionInterface interface {
	// Retrieve a user by id.
	//
	// Returns dberrors Missing (unwrapping to ErrMissing) when no such user exists.
	GetUser(ctx context.Context, userId string) (domain.User, error)

	// Retrieve a user by unique username.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// List users, ordered by username.
	ListUsers(ctx context.Context, offset int, limit int) ([]domain.User, error)

	// Create a new user.
	//
	// Returns Conflict (unwrapping to ErrConflict) when username or email
	// is already taken.
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)

	// Update mutable fields of a user. Zero-valued fields of the argument
	// are written as-is; callers pass a fully populated user.
	UpdateUser(ctx context.Context, user domain.User) (domain.User, error)

	// Delete a user. Its refresh tokens are removed by foreign key cascade.
	DeleteUser(ctx context.Context, userId string) error

	// Store a new refresh token hash for the user.
	NewToken(ctx context.Context, userId string, tokenHash string, expiresAt time.Time) (domain.RefreshToken, error)

	// Rotate validates the presented token hash and replaces it with a
	// new one, atomically:
	//
	// - unknown hash                      -> ErrTokenNotFound
	// - revoked row (= reuse after rotation) -> every token of that user is
	//   revoked (replay containment) and ErrTokenRevoked is returned
	// - expired row                       -> ErrTokenExpired
	//
	// Otherwise the presented row is marked revoked, the replacement hash is
	// stored, and the owning user is returned. Two concurrent rotations of
	// the same token serialize on the token row; the loser observes the
	// revoked row and gets ErrTokenRevoked.
	Rotate(ctx context.Context, presentedHash string, newHash string, newExpiry time.Time) (domain.User, error)

	// Mark all refresh tokens of the user revoked. Idempotent.
	RevokeAll(ctx context.Context, userId string) error
}
