package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	pgerrcode "github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"

	kpool "github.com/atol-canopy/canopy/pkg/conn/db/postgres/pool"
	"github.com/atol-canopy/canopy/pkg/domain"
	kpgerr "github.com/atol-canopy/canopy/pkg/domain/errors/dberrors/postgres"
)

type linkagePG struct { // implements kdb.LinkageInterface

	// connection pool for PostgreSQL
	pool kpool.Pool
}

func New(pool kpool.Pool) *linkagePG {
	return &linkagePG{pool: pool}
}

func (l *linkagePG) IdByNaturalKey(ctx context.Context, kind domain.EntityKind, naturalKey string) (string, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Release()

	var id string
	if err := conn.QueryRow(
		ctx,
		`select "id" from "entity" where "kind" = $1 and "natural_key" = $2`,
		kind.String(), naturalKey,
	).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", kpgerr.Missing{
				Table:    "entity",
				Identity: fmt.Sprintf("kind='%s', natural_key='%s'", kind, naturalKey),
			}
		}
		return "", err
	}
	return id, nil
}

func (l *linkagePG) AddRelation(ctx context.Context, sourceId string, targetId string, relation domain.RelationType) (domain.Relation, error) {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return domain.Relation{}, err
	}
	defer tx.Rollback(ctx)

	if relation.SampleGraph() {
		// lock both endpoints, in id order, before checking reachability.
		// Two transactions inserting opposite-direction edges then queue
		// on the same row locks; the later one runs its check after the
		// earlier edge is committed and visible.
		first, second := sourceId, targetId
		if second < first {
			first, second = second, first
		}
		for _, id := range []string{first, second} {
			if _, err := tx.Exec(
				ctx, `select "id" from "entity" where "id" = $1::uuid for update`, id,
			); err != nil {
				return domain.Relation{}, err
			}
		}

		// reject an edge closing a cycle: adding source -> target is
		// cyclic iff source is already reachable from target over the
		// sample derivation graph.
		var cyclic bool
		if err := tx.QueryRow(
			ctx,
			`
			with recursive "reachable" ("id") as (
				select $2::uuid
				union
				select "r"."target_id"
				from "entity_relation" as "r"
				inner join "reachable" on "reachable"."id" = "r"."source_id"
				where "r"."relation" in ('derived_from', 'subsample_of', 'parent_of', 'child_of')
			)
			select exists (select 1 from "reachable" where "id" = $1::uuid)
			`,
			sourceId, targetId,
		).Scan(&cyclic); err != nil {
			return domain.Relation{}, err
		}
		if cyclic {
			return domain.Relation{}, fmt.Errorf(
				"%w: %s -> %s (%s)", domain.ErrCyclicRelation, sourceId, targetId, relation,
			)
		}
	}

	var r domain.Relation
	var rel string
	if err := tx.QueryRow(
		ctx,
		`
		insert into "entity_relation" ("id", "source_id", "target_id", "relation")
		values ($1, $2, $3, $4)
		returning "id", "source_id", "target_id", "relation", "created_at"
		`,
		uuid.NewString(), sourceId, targetId, string(relation),
	).Scan(&r.Id, &r.SourceId, &r.TargetId, &rel, &r.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return domain.Relation{}, kpgerr.Conflict{
					Table: "entity_relation",
					Identity: fmt.Sprintf(
						"source_id='%s', target_id='%s', relation='%s'",
						sourceId, targetId, relation,
					),
				}
			case pgerrcode.ForeignKeyViolation:
				return domain.Relation{}, kpgerr.Missing{
					Table:    "entity",
					Identity: fmt.Sprintf("constraint: %s", pgErr.ConstraintName),
				}
			}
		}
		return domain.Relation{}, err
	}
	r.Type = domain.RelationType(rel)

	if err := tx.Commit(ctx); err != nil {
		return domain.Relation{}, err
	}
	return r, nil
}

func (l *linkagePG) DeleteRelation(ctx context.Context, relationId string) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	cmd, err := conn.Exec(
		ctx, `delete from "entity_relation" where "id" = $1`, relationId,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return kpgerr.Missing{
			Table: "entity_relation", Identity: fmt.Sprintf("id='%s'", relationId),
		}
	}
	return nil
}

func (l *linkagePG) Relations(ctx context.Context, entityId string) ([]domain.Relation, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		select "id", "source_id", "target_id", "relation", "created_at"
		from "entity_relation"
		where "source_id" = $1 or "target_id" = $1
		order by "created_at", "id"
		`,
		entityId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	relations := []domain.Relation{}
	for rows.Next() {
		var r domain.Relation
		var rel string
		if err := rows.Scan(&r.Id, &r.SourceId, &r.TargetId, &rel, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Type = domain.RelationType(rel)
		relations = append(relations, r)
	}
	return relations, nil
}
