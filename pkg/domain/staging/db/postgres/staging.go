package postgres

import (
	"context"
	"encoding/json"
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

type stagingPG struct { // implements kdb.StagingInterface

	// connection pool for PostgreSQL
	pool kpool.Pool
}

func New(pool kpool.Pool) *stagingPG {
	return &stagingPG{pool: pool}
}

// partial unique index enforcing at most one pending draft per entity
const pendingIndex = "entity_submitted_pending_idx"

const submittedColumns = `
	"id", "entity_id", "status", "submission_json", "internal_json",
	"submitted_at", "created_at", "updated_at"
`

func scanSubmitted(row pgx.Row) (domain.SubmittedRecord, error) {
	var r domain.SubmittedRecord
	var status string
	var submission, internal []byte

	if err := row.Scan(
		&r.Id, &r.EntityId, &status, &submission, &internal,
		&r.SubmittedAt, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return domain.SubmittedRecord{}, err
	}

	r.Status = domain.SubmissionStatus(status)
	if submission != nil {
		if err := json.Unmarshal(submission, &r.Submission); err != nil {
			return domain.SubmittedRecord{}, err
		}
	}
	if internal != nil {
		if err := json.Unmarshal(internal, &r.Internal); err != nil {
			return domain.SubmittedRecord{}, err
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

func (s *stagingPG) CreateDraft(ctx context.Context, entityId string, seed domain.DraftSeed) (domain.SubmittedRecord, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.SubmittedRecord{}, err
	}
	defer conn.Release()

	submission, err := nullableJSON(seed.Submission)
	if err != nil {
		return domain.SubmittedRecord{}, err
	}
	internal, err := nullableJSON(seed.Internal)
	if err != nil {
		return domain.SubmittedRecord{}, err
	}

	r, err := scanSubmitted(conn.QueryRow(
		ctx,
		`
		insert into "entity_submitted" ("id", "entity_id", "status", "submission_json", "internal_json")
		values ($1, $2, $3, $4, $5)
		returning `+submittedColumns,
		uuid.NewString(), entityId, domain.StatusDraft.String(), submission, internal,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				if pgErr.ConstraintName == pendingIndex {
					return domain.SubmittedRecord{}, fmt.Errorf(
						"%w: entity_id='%s'", domain.ErrPendingDraft, entityId,
					)
				}
			case pgerrcode.ForeignKeyViolation:
				return domain.SubmittedRecord{}, kpgerr.Missing{
					Table: "entity", Identity: fmt.Sprintf("id='%s'", entityId),
				}
			}
		}
		return domain.SubmittedRecord{}, err
	}
	return r, nil
}

func (s *stagingPG) Get(ctx context.Context, submittedId string) (domain.SubmittedRecord, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.SubmittedRecord{}, err
	}
	defer conn.Release()

	r, err := scanSubmitted(conn.QueryRow(
		ctx,
		`select `+submittedColumns+` from "entity_submitted" where "id" = $1`,
		submittedId,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SubmittedRecord{}, kpgerr.Missing{
				Table: "entity_submitted", Identity: fmt.Sprintf("id='%s'", submittedId),
			}
		}
		return domain.SubmittedRecord{}, err
	}
	return r, nil
}

func (s *stagingPG) Transition(ctx context.Context, submittedId string, to domain.SubmissionStatus) (domain.SubmittedRecord, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.SubmittedRecord{}, err
	}
	defer tx.Rollback(ctx)

	var current string
	if err := tx.QueryRow(
		ctx,
		`select "status" from "entity_submitted" where "id" = $1 for update`,
		submittedId,
	).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SubmittedRecord{}, kpgerr.Missing{
				Table: "entity_submitted", Identity: fmt.Sprintf("id='%s'", submittedId),
			}
		}
		return domain.SubmittedRecord{}, err
	}

	from := domain.SubmissionStatus(current)
	if !from.CanTransit(to) {
		return domain.SubmittedRecord{}, domain.NewErrInvalidTransition(from, to)
	}

	r, err := scanSubmitted(tx.QueryRow(
		ctx,
		`
		update "entity_submitted"
		set
			"status" = $2,
			"submitted_at" = case when $2 = 'submitted' then now() else "submitted_at" end,
			"updated_at" = now()
		where "id" = $1
		returning `+submittedColumns,
		submittedId, to.String(),
	))
	if err != nil {
		return domain.SubmittedRecord{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.SubmittedRecord{}, err
	}
	return r, nil
}

func (s *stagingPG) ActiveDraft(ctx context.Context, entityId string) (domain.SubmittedRecord, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.SubmittedRecord{}, err
	}
	defer conn.Release()

	r, err := scanSubmitted(conn.QueryRow(
		ctx,
		`
		select `+submittedColumns+` from "entity_submitted"
		where "entity_id" = $1 and "status" in ('draft', 'ready')
		order by "created_at" desc, "id" desc
		limit 1
		`,
		entityId,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SubmittedRecord{}, kpgerr.Missing{
				Table:    "entity_submitted",
				Identity: fmt.Sprintf("entity_id='%s' (pending)", entityId),
			}
		}
		return domain.SubmittedRecord{}, err
	}
	return r, nil
}

func (s *stagingPG) List(ctx context.Context, kind domain.EntityKind, status domain.SubmissionStatus) ([]domain.SubmittedRecord, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var kindFilter, statusFilter *string
	if kind != "" {
		k := kind.String()
		kindFilter = &k
	}
	if status != "" {
		st := status.String()
		statusFilter = &st
	}

	rows, err := conn.Query(
		ctx,
		`
		select `+submittedColumns+` from "entity_submitted"
		where
			($1::varchar is null or "entity_id" in (
				select "id" from "entity" where "kind" = $1::varchar
			))
			and ($2::varchar is null or "status" = $2::varchar)
		order by "created_at" desc, "id" desc
		`,
		kindFilter, statusFilter,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.SubmittedRecord{}
	for rows.Next() {
		r, err := scanSubmitted(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}
