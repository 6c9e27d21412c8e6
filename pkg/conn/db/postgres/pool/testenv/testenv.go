// Package testenv provides database fixtures for tests running against
// a real PostgreSQL instance.
//
// Tests using this package are skipped unless CANOPY_TEST_DATABASE is
// set to the connection URL of a database already migrated by
// schema_upgrader.
package testenv

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"

	kpool "github.com/atol-canopy/canopy/pkg/conn/db/postgres/pool"
)

// PoolBroaker is a interface to get a pool.
type PoolBroaker interface {
	// GetPool returns a pool.
	//
	// Tables are cleaned up before returning and after t.
	GetPool(ctx context.Context, t *testing.T) kpool.Pool
}

type pg struct {
	pool *pgxpool.Pool
}

func (p *pg) GetPool(ctx context.Context, t *testing.T) kpool.Pool {
	t.Cleanup(func() {
		t.Helper()
		ClearTables(ctx, p.pool, t)
	})

	ClearTables(ctx, p.pool, t)
	return kpool.Wrap(p.pool)
}

// NewPoolBroaker returns a PoolBroaker backed by the database named in
// CANOPY_TEST_DATABASE, or skips t when the variable is not set.
func NewPoolBroaker(ctx context.Context, t *testing.T) PoolBroaker {
	t.Helper()

	url := os.Getenv("CANOPY_TEST_DATABASE")
	if url == "" {
		t.Skip("CANOPY_TEST_DATABASE is not set")
	}

	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	return &pg{pool: pool}
}

func ClearTables(ctx context.Context, p *pgxpool.Pool, t *testing.T) {
	t.Helper()

	conn, err := p.Acquire(ctx)
	if err != nil {
		t.Errorf("fail to clean-up tables.: %v", err)
		return
	}
	defer conn.Release()

	for _, command := range []string{
		`truncate "entity" restart identity cascade`,
		`truncate "users" restart identity cascade`,
		// by cascade, all rows in dependent tables should be deleted.
	} {
		if _, err := conn.Exec(ctx, command); err != nil {
			t.Errorf("fail to clean-up tables.: %v", err)
		}
	}
}
