package db

import (
	"context"

	"github.com/atol-canopy/canopy/pkg/domain"
)

type EntityInterface interface {
	// Upsert creates a main record unless one with the same (kind,
	// natural key) exists already.
	//
	// # Args
	//
	// - kind, naturalKey: identity of the record
	//
	// - fields: writable fields. fields.Links carries main-record ids of
	// already-resolved parents.
	//
	// - draft: when non-nil and the record is newly created for a
	// lifecycle kind, a submitted record in status draft is inserted in
	// the same transaction.
	//
	// # Returns
	//
	// - domain.MainRecord: the created record, or the existing one
	// unchanged (skip-if-exists, never a silent merge)
	//
	// - bool: true when a new record was created
	//
	// - error: domain.ErrUnknownKind, domain.ErrMissingField when a
	// mandatory field of the kind is absent, domain.ErrMissingLink when
	// a linked parent vanished between resolution and insert.
	Upsert(ctx context.Context, kind domain.EntityKind, naturalKey string, fields domain.RecordFields, draft *domain.DraftSeed) (domain.MainRecord, bool, error)

	// Get retrieves a main record by storage id.
	Get(ctx context.Context, kind domain.EntityKind, id string) (domain.MainRecord, error)

	// Update rewrites the writable fields (accession, source, notes,
	// priority) of the main record r, keyed by r.Kind and r.Id. The
	// natural key and link columns are left untouched.
	//
	// # Returns
	//
	// - domain.MainRecord: the record after the update
	//
	// - error: Missing when no such record exists.
	Update(ctx context.Context, r domain.MainRecord) (domain.MainRecord, error)

	// Find lists main records matching the filter, ordered by creation
	// time then id.
	Find(ctx context.Context, filter domain.RecordFilter) ([]domain.MainRecord, error)

	// Delete removes a main record, its submitted/fetched/relation rows,
	// and every dependent child along the required-link ownership graph
	// (an experiment dies with its sample; a sample survives its
	// organism). Optional links of survivors are detached.
	Delete(ctx context.Context, kind domain.EntityKind, id string) error
}
