package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	pgerrcode "github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"

	kpool "github.com/atol-canopy/canopy/pkg/conn/db/postgres/pool"
	"github.com/atol-canopy/canopy/pkg/domain"
	kpgerr "github.com/atol-canopy/canopy/pkg/domain/errors/dberrors/postgres"
	"github.com/atol-canopy/canopy/pkg/utils/slices"
)

type sessionPG struct { // implements kdb.SessionInterface

	// connection pool for PostgreSQL
	pool kpool.Pool
}

func New(pool kpool.Pool) *sessionPG {
	return &sessionPG{pool: pool}
}

const userColumns = `
	"id", "username", "email", "hashed_password", "full_name",
	"roles", "is_active", "is_superuser", "created_at", "updated_at"
`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	var roles []string
	if err := row.Scan(
		&u.Id, &u.Username, &u.Email, &u.HashedPassword, &u.FullName,
		&roles, &u.Active, &u.Superuser, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return domain.User{}, err
	}

	u.Roles = make([]domain.Role, 0, len(roles))
	for _, s := range roles {
		r, err := domain.ParseRole(s)
		if err != nil {
			return domain.User{}, err
		}
		u.Roles = append(u.Roles, r)
	}
	return u, nil
}

func (s *sessionPG) GetUser(ctx context.Context, userId string) (domain.User, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.User{}, err
	}
	defer conn.Release()

	return getUser(ctx, conn, userId)
}

func getUser(ctx context.Context, conn kpool.Queryer, userId string) (domain.User, error) {
	u, err := scanUser(conn.QueryRow(
		ctx,
		`select `+userColumns+` from "users" where "id" = $1`,
		userId,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, kpgerr.Missing{
				Table: "users", Identity: fmt.Sprintf("id='%s'", userId),
			}
		}
		return domain.User{}, err
	}
	return u, nil
}

func (s *sessionPG) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.User{}, err
	}
	defer conn.Release()

	u, err := scanUser(conn.QueryRow(
		ctx,
		`select `+userColumns+` from "users" where "username" = $1`,
		username,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, kpgerr.Missing{
				Table: "users", Identity: fmt.Sprintf("username='%s'", username),
			}
		}
		return domain.User{}, err
	}
	return u, nil
}

func (s *sessionPG) ListUsers(ctx context.Context, offset int, limit int) ([]domain.User, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		select `+userColumns+` from "users"
		order by "username"
		offset $1 limit nullif($2, 0)
		`,
		offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *sessionPG) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.User{}, err
	}
	defer conn.Release()

	created, err := scanUser(conn.QueryRow(
		ctx,
		`
		insert into "users" (
			"username", "email", "hashed_password", "full_name",
			"roles", "is_active", "is_superuser"
		)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning `+userColumns,
		user.Username, user.Email, user.HashedPassword, user.FullName,
		slices.Map(user.Roles, domain.Role.String), user.Active, user.Superuser,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.User{}, kpgerr.Conflict{
				Table: "users",
				Identity: fmt.Sprintf(
					"username='%s' (constraint: %s)",
					user.Username, pgErr.ConstraintName,
				),
			}
		}
		return domain.User{}, err
	}
	return created, nil
}

func (s *sessionPG) UpdateUser(ctx context.Context, user domain.User) (domain.User, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.User{}, err
	}
	defer conn.Release()

	updated, err := scanUser(conn.QueryRow(
		ctx,
		`
		update "users"
		set
			"email" = $2, "hashed_password" = $3, "full_name" = $4,
			"roles" = $5, "is_active" = $6, "is_superuser" = $7,
			"updated_at" = now()
		where "id" = $1
		returning `+userColumns,
		user.Id, user.Email, user.HashedPassword, user.FullName,
		slices.Map(user.Roles, domain.Role.String), user.Active, user.Superuser,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, kpgerr.Missing{
				Table: "users", Identity: fmt.Sprintf("id='%s'", user.Id),
			}
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.User{}, kpgerr.Conflict{
				Table: "users",
				Identity: fmt.Sprintf(
					"id='%s' (constraint: %s)", user.Id, pgErr.ConstraintName,
				),
			}
		}
		return domain.User{}, err
	}
	return updated, nil
}

func (s *sessionPG) DeleteUser(ctx context.Context, userId string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `delete from "users" where "id" = $1`, userId)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return kpgerr.Missing{
			Table: "users", Identity: fmt.Sprintf("id='%s'", userId),
		}
	}
	return nil
}

func (s *sessionPG) NewToken(ctx context.Context, userId string, tokenHash string, expiresAt time.Time) (domain.RefreshToken, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.RefreshToken{}, err
	}
	defer conn.Release()

	t := domain.RefreshToken{UserId: userId, TokenHash: tokenHash}
	if err := conn.QueryRow(
		ctx,
		`
		insert into "refresh_token" ("user_id", "token_hash", "expires_at")
		values ($1, $2, $3)
		returning "id", "expires_at", "revoked", "created_at"
		`,
		userId, tokenHash, expiresAt,
	).Scan(&t.Id, &t.ExpiresAt, &t.Revoked, &t.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return domain.RefreshToken{}, kpgerr.Missing{
				Table: "users", Identity: fmt.Sprintf("id='%s'", userId),
			}
		}
		return domain.RefreshToken{}, err
	}
	return t, nil
}

func (s *sessionPG) Rotate(ctx context.Context, presentedHash string, newHash string, newExpiry time.Time) (domain.User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.User{}, err
	}
	defer tx.Rollback(ctx)

	var tokenId, userId string
	var expiresAt time.Time
	var revoked bool
	if err := tx.QueryRow(
		ctx,
		`
		select "id", "user_id", "expires_at", "revoked"
		from "refresh_token"
		where "token_hash" = $1
		for update
		`,
		presentedHash,
	).Scan(&tokenId, &userId, &expiresAt, &revoked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrTokenNotFound
		}
		return domain.User{}, err
	}

	if revoked {
		// A rotated-away token came back. Someone holds a stolen copy,
		// either the presenter or whoever rotated it first. Burn the
		// whole family so neither side can continue.
		if _, err := tx.Exec(
			ctx,
			`update "refresh_token" set "revoked" = true where "user_id" = $1 and not "revoked"`,
			userId,
		); err != nil {
			return domain.User{}, err
		}
		if err := tx.Commit(ctx); err != nil {
			return domain.User{}, err
		}
		return domain.User{}, domain.ErrTokenRevoked
	}

	if expiresAt.Before(time.Now()) {
		return domain.User{}, domain.ErrTokenExpired
	}

	if _, err := tx.Exec(
		ctx, `update "refresh_token" set "revoked" = true where "id" = $1`, tokenId,
	); err != nil {
		return domain.User{}, err
	}
	if _, err := tx.Exec(
		ctx,
		`insert into "refresh_token" ("user_id", "token_hash", "expires_at") values ($1, $2, $3)`,
		userId, newHash, newExpiry,
	); err != nil {
		return domain.User{}, err
	}

	u, err := getUser(ctx, tx, userId)
	if err != nil {
		return domain.User{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *sessionPG) RevokeAll(ctx context.Context, userId string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(
		ctx,
		`update "refresh_token" set "revoked" = true where "user_id" = $1 and not "revoked"`,
		userId,
	); err != nil {
		return err
	}
	return nil
}
