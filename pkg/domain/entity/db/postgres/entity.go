package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	pgerrcode "github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"

	kpool "github.com/atol-canopy/canopy/pkg/conn/db/postgres/pool"
	"github.com/atol-canopy/canopy/pkg/domain"
	kpgerr "github.com/atol-canopy/canopy/pkg/domain/errors/dberrors/postgres"
)

type entityPG struct { // implements kdb.EntityInterface

	// connection pool for PostgreSQL
	pool kpool.Pool
}

func New(pool kpool.Pool) *entityPG {
	return &entityPG{pool: pool}
}

// link role -> column of the "entity" table
var linkColumns = map[domain.LinkRole]string{
	domain.LinkOrganism:   "organism_id",
	domain.LinkSample:     "sample_id",
	domain.LinkExperiment: "experiment_id",
}

const entityColumns = `
	"id", "kind", "natural_key", "accession", "source_json",
	"internal_notes", "internal_priority",
	"organism_id", "sample_id", "experiment_id",
	"synced_at", "last_checked_at", "created_at", "updated_at"
`

func scanEntity(row pgx.Row) (domain.MainRecord, error) {
	var r domain.MainRecord
	var kind string
	var accession, notes, priority *string
	var source []byte
	var organismId, sampleId, experimentId *string

	if err := row.Scan(
		&r.Id, &kind, &r.NaturalKey, &accession, &source,
		&notes, &priority,
		&organismId, &sampleId, &experimentId,
		&r.SyncedAt, &r.LastCheckedAt, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return domain.MainRecord{}, err
	}

	r.Kind = domain.EntityKind(kind)
	if accession != nil {
		r.Accession = *accession
	}
	if notes != nil {
		r.Notes = *notes
	}
	if priority != nil {
		r.Priority = *priority
	}
	if source != nil {
		if err := json.Unmarshal(source, &r.Source); err != nil {
			return domain.MainRecord{}, err
		}
	}

	r.Links = map[domain.LinkRole]string{}
	for role, id := range map[domain.LinkRole]*string{
		domain.LinkOrganism:   organismId,
		domain.LinkSample:     sampleId,
		domain.LinkExperiment: experimentId,
	} {
		if id != nil {
			r.Links[role] = *id
		}
	}
	return r, nil
}

func nullableJSON(p domain.Payload) (*[]byte, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (e *entityPG) Upsert(ctx context.Context, kind domain.EntityKind, naturalKey string, fields domain.RecordFields, draft *domain.DraftSeed) (domain.MainRecord, bool, error) {
	spec, ok := domain.Spec(kind)
	if !ok {
		return domain.MainRecord{}, false, fmt.Errorf("%w: %s", domain.ErrUnknownKind, kind)
	}
	if err := domain.CheckRequiredFields(kind, fields.Source); err != nil {
		return domain.MainRecord{}, false, err
	}

	source, err := nullableJSON(fields.Source)
	if err != nil {
		return domain.MainRecord{}, false, err
	}

	links := map[string]*string{
		"organism_id": nil, "sample_id": nil, "experiment_id": nil,
	}
	for role, id := range fields.Links {
		col, ok := linkColumns[role]
		if !ok {
			return domain.MainRecord{}, false, fmt.Errorf("unknown link role: %s", role)
		}
		id := id
		links[col] = &id
	}

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return domain.MainRecord{}, false, err
	}
	defer tx.Rollback(ctx)

	var insertedId string
	if err := tx.QueryRow(
		ctx,
		`
		insert into "entity" (
			"id", "kind", "natural_key", "accession", "source_json",
			"internal_notes", "internal_priority",
			"organism_id", "sample_id", "experiment_id"
		)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		on conflict ("kind", "natural_key") do nothing
		returning "id"
		`,
		uuid.NewString(), kind.String(), naturalKey,
		nullable(fields.Accession), source,
		nullable(fields.Notes), nullable(fields.Priority),
		links["organism_id"], links["sample_id"], links["experiment_id"],
	).Scan(&insertedId); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// the natural key is taken; return the existing record unchanged
			existing, err := scanEntity(tx.QueryRow(
				ctx,
				`select `+entityColumns+` from "entity" where "kind" = $1 and "natural_key" = $2`,
				kind.String(), naturalKey,
			))
			if err != nil {
				return domain.MainRecord{}, false, err
			}
			return existing, false, tx.Commit(ctx)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return domain.MainRecord{}, false, linkViolation(kind, pgErr)
		}
		return domain.MainRecord{}, false, err
	}

	if draft != nil && spec.Lifecycle {
		submission, err := nullableJSON(draft.Submission)
		if err != nil {
			return domain.MainRecord{}, false, err
		}
		internal, err := nullableJSON(draft.Internal)
		if err != nil {
			return domain.MainRecord{}, false, err
		}
		if _, err := tx.Exec(
			ctx,
			`
			insert into "entity_submitted" ("id", "entity_id", "status", "submission_json", "internal_json")
			values ($1, $2, $3, $4, $5)
			`,
			uuid.NewString(), insertedId, domain.StatusDraft.String(), submission, internal,
		); err != nil {
			return domain.MainRecord{}, false, err
		}
	}

	created, err := scanEntity(tx.QueryRow(
		ctx,
		`select `+entityColumns+` from "entity" where "id" = $1`,
		insertedId,
	))
	if err != nil {
		return domain.MainRecord{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.MainRecord{}, false, err
	}
	return created, true, nil
}

// linkViolation maps a foreign key violation on a link column back to
// the link role which failed.
func linkViolation(kind domain.EntityKind, pgErr *pgconn.PgError) error {
	for role, col := range linkColumns {
		if strings.Contains(pgErr.ConstraintName, col) {
			return domain.NewErrMissingLink(kind, role, "(vanished)")
		}
	}
	return kpgerr.Missing{
		Table:    "entity",
		Identity: fmt.Sprintf("constraint: %s", pgErr.ConstraintName),
	}
}

func (e *entityPG) Get(ctx context.Context, kind domain.EntityKind, id string) (domain.MainRecord, error) {
	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return domain.MainRecord{}, err
	}
	defer conn.Release()

	r, err := scanEntity(conn.QueryRow(
		ctx,
		`select `+entityColumns+` from "entity" where "kind" = $1 and "id" = $2`,
		kind.String(), id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MainRecord{}, kpgerr.Missing{
				Table: "entity", Identity: fmt.Sprintf("kind='%s', id='%s'", kind, id),
			}
		}
		return domain.MainRecord{}, err
	}
	return r, nil
}

func (e *entityPG) Update(ctx context.Context, r domain.MainRecord) (domain.MainRecord, error) {
	source, err := nullableJSON(r.Source)
	if err != nil {
		return domain.MainRecord{}, err
	}

	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return domain.MainRecord{}, err
	}
	defer conn.Release()

	updated, err := scanEntity(conn.QueryRow(
		ctx,
		`
		update "entity"
		set
			"accession" = $3,
			"source_json" = $4,
			"internal_notes" = $5,
			"internal_priority" = $6,
			"updated_at" = now()
		where "kind" = $1 and "id" = $2
		returning `+entityColumns,
		r.Kind.String(), r.Id,
		nullable(r.Accession), source, nullable(r.Notes), nullable(r.Priority),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MainRecord{}, kpgerr.Missing{
				Table: "entity", Identity: fmt.Sprintf("kind='%s', id='%s'", r.Kind, r.Id),
			}
		}
		return domain.MainRecord{}, err
	}
	return updated, nil
}

func (e *entityPG) Find(ctx context.Context, filter domain.RecordFilter) ([]domain.MainRecord, error) {
	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		select `+entityColumns+` from "entity"
		where
			($1::varchar is null or "kind" = $1::varchar)
			and ($2::varchar is null or "natural_key" = $2::varchar)
			and (
				$3::uuid is null
				or "organism_id" = $3::uuid
				or "sample_id" = $3::uuid
				or "experiment_id" = $3::uuid
			)
			and (
				$4::varchar is null
				or (
					select "status" from "entity_submitted"
					where "entity_id" = "entity"."id"
					order by "created_at" desc, "id" desc
					limit 1
				) = $4::varchar
			)
		order by "created_at", "id"
		offset $5 limit nullif($6, 0)
		`,
		nullable(filter.Kind.String()), nullable(filter.NaturalKey),
		nullable(filter.LinkedTo), nullable(filter.SubmissionStatus.String()),
		filter.Offset, filter.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.MainRecord{}
	for rows.Next() {
		r, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// requiredChildren enumerates (child kind, link column) pairs whose rows
// must die with their parent.
func requiredChildren() [][2]string {
	pairs := [][2]string{}
	for _, k := range domain.Kinds() {
		spec, _ := domain.Spec(k)
		for _, l := range spec.Links {
			if l.Required {
				pairs = append(pairs, [2]string{k.String(), linkColumns[l.Role]})
			}
		}
	}
	return pairs
}

func (e *entityPG) Delete(ctx context.Context, kind domain.EntityKind, id string) error {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var found string
	if err := tx.QueryRow(
		ctx,
		`select "id" from "entity" where "kind" = $1 and "id" = $2 for update`,
		kind.String(), id,
	).Scan(&found); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return kpgerr.Missing{
				Table: "entity", Identity: fmt.Sprintf("kind='%s', id='%s'", kind, id),
			}
		}
		return err
	}

	// walk the ownership graph: rows requiring a deleted parent are
	// deleted too, transitively. Optional references of survivors are
	// detached by the "on delete set null" rule of the link columns.
	doomed := map[string]struct{}{id: {}}
	frontier := []string{id}
	children := requiredChildren()
	for len(frontier) != 0 {
		next := []string{}
		for _, pair := range children {
			rows, err := tx.Query(
				ctx,
				`select "id" from "entity" where "kind" = $1 and "`+pair[1]+`" = any($2::uuid[])`,
				pair[0], frontier,
			)
			if err != nil {
				return err
			}
			for rows.Next() {
				var childId string
				if err := rows.Scan(&childId); err != nil {
					rows.Close()
					return err
				}
				if _, ok := doomed[childId]; ok {
					continue
				}
				doomed[childId] = struct{}{}
				next = append(next, childId)
			}
			rows.Close()
		}
		frontier = next
	}

	ids := make([]string, 0, len(doomed))
	for d := range doomed {
		ids = append(ids, d)
	}
	// submitted/fetched/relation rows follow via "on delete cascade"
	if _, err := tx.Exec(
		ctx, `delete from "entity" where "id" = any($1::uuid[])`, ids,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
