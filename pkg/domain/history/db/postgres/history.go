package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	pgerrcode "github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"

	kpool "github.com/atol-canopy/canopy/pkg/conn/db/postgres/pool"
	"github.com/atol-canopy/canopy/pkg/domain"
	kpgerr "github.com/atol-canopy/canopy/pkg/domain/errors/dberrors/postgres"
)

type historyPG struct { // implements kdb.HistoryInterface

	// connection pool for PostgreSQL
	pool kpool.Pool
}

func New(pool kpool.Pool) *historyPG {
	return &historyPG{pool: pool}
}

const fetchedColumns = `"id", "entity_id", "raw_json", "fetched_at", "created_at"`

func scanFetched(row pgx.Row) (domain.FetchedRecord, error) {
	var r domain.FetchedRecord
	var raw []byte
	if err := row.Scan(&r.Id, &r.EntityId, &raw, &r.FetchedAt, &r.CreatedAt); err != nil {
		return domain.FetchedRecord{}, err
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &r.Raw); err != nil {
			return domain.FetchedRecord{}, err
		}
	}
	return r, nil
}

func (h *historyPG) RecordFetch(ctx context.Context, entityId string, raw domain.Payload, fetchedAt time.Time, synced bool) (domain.FetchedRecord, error) {
	if fetchedAt.IsZero() {
		return domain.FetchedRecord{}, fmt.Errorf(
			"%w: entity_id='%s'", domain.ErrMissingTimestamp, entityId,
		)
	}

	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return domain.FetchedRecord{}, err
	}

	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return domain.FetchedRecord{}, err
	}
	defer tx.Rollback(ctx)

	r, err := scanFetched(tx.QueryRow(
		ctx,
		`
		insert into "entity_fetched" ("id", "entity_id", "raw_json", "fetched_at")
		values ($1, $2, $3, $4)
		returning `+fetchedColumns,
		uuid.NewString(), entityId, rawJSON, fetchedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return domain.FetchedRecord{}, kpgerr.Missing{
				Table: "entity", Identity: fmt.Sprintf("id='%s'", entityId),
			}
		}
		return domain.FetchedRecord{}, err
	}

	if _, err := tx.Exec(
		ctx,
		`
		update "entity"
		set
			"last_checked_at" = $2,
			"synced_at" = case when $3 then $2 else "synced_at" end,
			"updated_at" = now()
		where "id" = $1
		`,
		entityId, fetchedAt, synced,
	); err != nil {
		return domain.FetchedRecord{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.FetchedRecord{}, err
	}
	return r, nil
}

func (h *historyPG) History(ctx context.Context, entityId string, offset int, limit int) ([]domain.FetchedRecord, error) {
	conn, err := h.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		select `+fetchedColumns+` from "entity_fetched"
		where "entity_id" = $1
		order by "fetched_at", "id"
		offset $2 limit nullif($3, 0)
		`,
		entityId, offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.FetchedRecord{}
	for rows.Next() {
		r, err := scanFetched(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}
