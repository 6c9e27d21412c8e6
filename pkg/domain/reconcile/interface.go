package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/atol-canopy/canopy/pkg/domain"
	kdbentity "github.com/atol-canopy/canopy/pkg/domain/entity/db"
	domerr "github.com/atol-canopy/canopy/pkg/domain/errors"
	kdbhistory "github.com/atol-canopy/canopy/pkg/domain/history/db"
	"github.com/atol-canopy/canopy/pkg/domain/linkage"
	kdbstaging "github.com/atol-canopy/canopy/pkg/domain/staging/db"
)

// IngestResult reports what one Ingest call did.
type IngestResult struct {
	Record domain.MainRecord

	// true when a new main record was created; false when the natural
	// key was taken and the existing record was left unchanged
	Created bool

	// parents attached to the record, by role
	Linked map[domain.LinkRole]string
}

// BulkResult is the summary of a bulk import batch.
type BulkResult struct {
	Created int
	Skipped int
}

// Interface is the single entry point sequencing the entity store, the
// staging ledger, the history ledger and the linkage resolver for one
// logical operation.
type Interface interface {
	// Ingest resolves references, upserts the main record, and, when the
	// record is newly created and draft is non-nil, stages a draft. The
	// upsert and the draft are one transaction.
	Ingest(ctx context.Context, kind domain.EntityKind, naturalKey string, raw domain.Payload, draft *domain.DraftSeed) (IngestResult, error)

	// BulkIngest ingests a batch keyed by natural key. Each entity is
	// atomic on its own; the batch never aborts. An entity which exists
	// already, or fails, adds to the skip count.
	BulkIngest(ctx context.Context, kind domain.EntityKind, entities map[string]domain.Payload) (BulkResult, error)

	// PrepareSubmission stages a draft for the main record.
	PrepareSubmission(ctx context.Context, entityId string, seed domain.DraftSeed) (domain.SubmittedRecord, error)

	// Synchronize appends a fetched record and refreshes the main
	// record's sync bookkeeping.
	Synchronize(ctx context.Context, entityId string, raw domain.Payload, fetchedAt time.Time, synced bool) (domain.FetchedRecord, error)

	// SubmissionPayload returns the active draft's submission payload
	// for the external renderer. domain.ErrNoSubmissionPayload when
	// there is no pending draft or its payload is absent.
	SubmissionPayload(ctx context.Context, entityId string) (domain.Payload, error)
}

type impl struct {
	entity   kdbentity.EntityInterface
	staging  kdbstaging.StagingInterface
	history  kdbhistory.HistoryInterface
	resolver linkage.Interface
}

func New(
	entity kdbentity.EntityInterface,
	staging kdbstaging.StagingInterface,
	history kdbhistory.HistoryInterface,
	resolver linkage.Interface,
) Interface {
	return &impl{
		entity:   entity,
		staging:  staging,
		history:  history,
		resolver: resolver,
	}
}

func (c *impl) Ingest(ctx context.Context, kind domain.EntityKind, naturalKey string, raw domain.Payload, draft *domain.DraftSeed) (IngestResult, error) {
	if err := domain.CheckRequiredFields(kind, raw); err != nil {
		return IngestResult{}, err
	}

	links, err := c.resolver.Resolve(ctx, kind, raw)
	if err != nil {
		return IngestResult{}, err
	}

	fields := domain.RecordFields{
		Source: raw,
		Links:  links,
	}
	if accession, ok := raw["accession"].(string); ok {
		fields.Accession = accession
	}

	record, created, err := c.entity.Upsert(ctx, kind, naturalKey, fields, draft)
	if err != nil {
		return IngestResult{}, err
	}

	return IngestResult{Record: record, Created: created, Linked: record.Links}, nil
}

func (c *impl) BulkIngest(ctx context.Context, kind domain.EntityKind, entities map[string]domain.Payload) (BulkResult, error) {
	result := BulkResult{}
	for naturalKey, raw := range entities {
		one, err := c.Ingest(ctx, kind, naturalKey, raw, nil)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			// per-entity failure skips the entity, never the batch
			result.Skipped += 1
			continue
		}
		if one.Created {
			result.Created += 1
		} else {
			result.Skipped += 1
		}
	}
	return result, nil
}

func (c *impl) PrepareSubmission(ctx context.Context, entityId string, seed domain.DraftSeed) (domain.SubmittedRecord, error) {
	return c.staging.CreateDraft(ctx, entityId, seed)
}

func (c *impl) Synchronize(ctx context.Context, entityId string, raw domain.Payload, fetchedAt time.Time, synced bool) (domain.FetchedRecord, error) {
	return c.history.RecordFetch(ctx, entityId, raw, fetchedAt, synced)
}

func (c *impl) SubmissionPayload(ctx context.Context, entityId string) (domain.Payload, error) {
	active, err := c.staging.ActiveDraft(ctx, entityId)
	if err != nil {
		if errors.Is(err, domerr.ErrMissing) {
			return nil, domain.ErrNoSubmissionPayload
		}
		return nil, err
	}
	if active.Submission == nil {
		return nil, domain.ErrNoSubmissionPayload
	}
	return active.Submission, nil
}
