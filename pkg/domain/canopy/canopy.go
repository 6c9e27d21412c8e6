package canopy

import (
	"context"

	bconf "github.com/atol-canopy/canopy/pkg/configs/backend"
	"github.com/atol-canopy/canopy/pkg/domain/canopy/db/postgres"
	"github.com/atol-canopy/canopy/pkg/domain/entity"
	"github.com/atol-canopy/canopy/pkg/domain/history"
	"github.com/atol-canopy/canopy/pkg/domain/linkage"
	"github.com/atol-canopy/canopy/pkg/domain/reconcile"
	"github.com/atol-canopy/canopy/pkg/domain/schema"
	"github.com/atol-canopy/canopy/pkg/domain/session"
	"github.com/atol-canopy/canopy/pkg/domain/session/password"
	"github.com/atol-canopy/canopy/pkg/domain/session/token"
	"github.com/atol-canopy/canopy/pkg/domain/staging"
)

type Canopy interface {
	Config() *bconf.BackendConfig

	// PasswordHasher is the hasher used for stored user passwords.
	PasswordHasher() password.Hasher

	Session() session.Interface
	Entity() entity.Interface
	Staging() staging.Interface
	History() history.Interface
	Linkage() linkage.Interface
	Reconcile() reconcile.Interface

	Schema() schema.Interface
}

type canopy struct {
	config *bconf.BackendConfig
	hasher password.Hasher

	session   session.Interface
	entity    entity.Interface
	staging   staging.Interface
	history   history.Interface
	linkage   linkage.Interface
	reconcile reconcile.Interface

	schema schema.Interface
}

func Default(
	ctx context.Context,
	config *bconf.BackendConfig,
	options ...Option,
) (Canopy, error) {
	return New(ctx, config, options...)
}

func New(
	ctx context.Context,
	config *bconf.BackendConfig,
	options ...Option,
) (Canopy, error) {
	opt := &_options{}
	for _, o := range options {
		o(opt)
	}

	pg, err := postgres.New(ctx, config.Database(), opt.pg...)
	if err != nil {
		return nil, err
	}

	issuer := token.NewIssuer(
		config.Session().SignKey(),
		config.Session().AccessTokenLifetime(),
	)
	hasher := password.Bcrypt()
	resolver := linkage.New(pg.Linkage())

	return &canopy{
		config: config,
		hasher: hasher,

		session: session.New(
			pg.Session(), issuer, hasher,
			config.Session().RefreshTokenLifetime(),
		),
		entity:  entity.New(pg.Entity()),
		staging: staging.New(pg.Staging()),
		history: history.New(pg.History()),
		linkage: resolver,
		reconcile: reconcile.New(
			pg.Entity(), pg.Staging(), pg.History(), resolver,
		),

		schema: schema.New(pg.Schema()),
	}, nil
}

type Option func(*_options)

type _options struct {
	pg []postgres.Option
}

func WithSchemaRepository(repository string) Option {
	return func(o *_options) {
		o.pg = append(o.pg, postgres.WithSchemaRepository(repository))
	}
}

func (c *canopy) Config() *bconf.BackendConfig {
	return c.config
}

func (c *canopy) PasswordHasher() password.Hasher {
	return c.hasher
}

func (c *canopy) Session() session.Interface {
	return c.session
}

func (c *canopy) Entity() entity.Interface {
	return c.entity
}

func (c *canopy) Staging() staging.Interface {
	return c.staging
}

func (c *canopy) History() history.Interface {
	return c.history
}

func (c *canopy) Linkage() linkage.Interface {
	return c.linkage
}

func (c *canopy) Reconcile() reconcile.Interface {
	return c.reconcile
}

func (c *canopy) Schema() schema.Interface {
	return c.schema
}
