package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	kpool "github.com/atol-canopy/canopy/pkg/conn/db/postgres/pool"
	dbInterface "github.com/atol-canopy/canopy/pkg/domain/canopy/db"
	kentity "github.com/atol-canopy/canopy/pkg/domain/entity/db"
	kpgentity "github.com/atol-canopy/canopy/pkg/domain/entity/db/postgres"
	khistory "github.com/atol-canopy/canopy/pkg/domain/history/db"
	kpghistory "github.com/atol-canopy/canopy/pkg/domain/history/db/postgres"
	klinkage "github.com/atol-canopy/canopy/pkg/domain/linkage/db"
	kpglinkage "github.com/atol-canopy/canopy/pkg/domain/linkage/db/postgres"
	kschema "github.com/atol-canopy/canopy/pkg/domain/schema/db"
	kpgschema "github.com/atol-canopy/canopy/pkg/domain/schema/db/postgres"
	ksession "github.com/atol-canopy/canopy/pkg/domain/session/db"
	kpgsession "github.com/atol-canopy/canopy/pkg/domain/session/db/postgres"
	kstaging "github.com/atol-canopy/canopy/pkg/domain/staging/db"
	kpgstaging "github.com/atol-canopy/canopy/pkg/domain/staging/db/postgres"
	xe "github.com/atol-canopy/canopy/pkg/errors"
)

type canopyDBPostgres struct {
	pool    *pgxpool.Pool
	session ksession.SessionInterface
	entity  kentity.EntityInterface
	staging kstaging.StagingInterface
	history khistory.HistoryInterface
	linkage klinkage.LinkageInterface
	schema  kschema.SchemaInterface
}

type Config struct {
	SchemaRepository string
}

type Option func(*Config) *Config

func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

func New(
	ctx context.Context,
	url string,
	options ...Option,
) (dbInterface.CanopyDatabase, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	c := Config{}
	for _, option := range options {
		c = *option(&c)
	}

	p := kpool.Wrap(pool)
	var schema kschema.SchemaInterface = kpgschema.Null()
	if c.SchemaRepository != "" {
		schema = kpgschema.New(p, c.SchemaRepository)
	}

	return &canopyDBPostgres{
		pool:    pool,
		session: kpgsession.New(p),
		entity:  kpgentity.New(p),
		staging: kpgstaging.New(p),
		history: kpghistory.New(p),
		linkage: kpglinkage.New(p),
		schema:  schema,
	}, nil
}

func (c *canopyDBPostgres) Session() ksession.SessionInterface {
	return c.session
}

func (c *canopyDBPostgres) Entity() kentity.EntityInterface {
	return c.entity
}

func (c *canopyDBPostgres) Staging() kstaging.StagingInterface {
	return c.staging
}

func (c *canopyDBPostgres) History() khistory.HistoryInterface {
	return c.history
}

func (c *canopyDBPostgres) Linkage() klinkage.LinkageInterface {
	return c.linkage
}

func (c *canopyDBPostgres) Schema() kschema.SchemaInterface {
	return c.schema
}

func (c *canopyDBPostgres) Close() error {
	c.pool.Close()
	return nil
}
