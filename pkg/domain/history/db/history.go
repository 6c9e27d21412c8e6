package db

import (
	"context"
	"time"

	"github.com/atol-canopy/canopy/pkg/domain"
)

type HistoryInterface interface {
	// RecordFetch appends a fetched record for the main record.
	//
	// Always inserts a new row. In the same transaction the main
	// record's last_checked_at is advanced, and synced_at too when the
	// fetch was a successful full sync.
	//
	// # Returns
	//
	// - domain.FetchedRecord
	//
	// - error: domain.ErrMissingTimestamp when fetchedAt is the zero
	// time, Missing when the main record does not exist.
	RecordFetch(ctx context.Context, entityId string, raw domain.Payload, fetchedAt time.Time, synced bool) (domain.FetchedRecord, error)

	// History lists fetched records of the main record, ordered by
	// fetched_at ascending. Paged with offset/limit; limit 0 means all.
	History(ctx context.Context, entityId string, offset int, limit int) ([]domain.FetchedRecord, error)
}
