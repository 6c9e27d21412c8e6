package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/atol-canopy/canopy/pkg/domain"
	dbmock "github.com/atol-canopy/canopy/pkg/domain/internal/db/mock"
	"github.com/atol-canopy/canopy/pkg/domain/reconcile"
)

type Reconcile struct {
	Impl struct {
		Ingest            func(context.Context, domain.EntityKind, string, domain.Payload, *domain.DraftSeed) (reconcile.IngestResult, error)
		BulkIngest        func(context.Context, domain.EntityKind, map[string]domain.Payload) (reconcile.BulkResult, error)
		PrepareSubmission func(context.Context, string, domain.DraftSeed) (domain.SubmittedRecord, error)
		Synchronize       func(context.Context, string, domain.Payload, time.Time, bool) (domain.FetchedRecord, error)
		SubmissionPayload func(context.Context, string) (domain.Payload, error)
	}
	Calls struct {
		Ingest dbmock.CallLog[struct {
			Kind       domain.EntityKind
			NaturalKey string
			Raw        domain.Payload
			Draft      *domain.DraftSeed
		}]
		BulkIngest dbmock.CallLog[struct {
			Kind     domain.EntityKind
			Entities map[string]domain.Payload
		}]
		PrepareSubmission dbmock.CallLog[struct {
			EntityId string
			Seed     domain.DraftSeed
		}]
		Synchronize dbmock.CallLog[struct {
			EntityId  string
			Raw       domain.Payload
			FetchedAt time.Time
			Synced    bool
		}]
		SubmissionPayload dbmock.CallLog[struct{ EntityId string }]
	}
}

func New() *Reconcile {
	return &Reconcile{}
}

var _ reconcile.Interface = &Reconcile{}

func (m *Reconcile) Ingest(ctx context.Context, kind domain.EntityKind, naturalKey string, raw domain.Payload, draft *domain.DraftSeed) (reconcile.IngestResult, error) {
	m.Calls.Ingest = append(m.Calls.Ingest, struct {
		Kind       domain.EntityKind
		NaturalKey string
		Raw        domain.Payload
		Draft      *domain.DraftSeed
	}{Kind: kind, NaturalKey: naturalKey, Raw: raw, Draft: draft})
	if m.Impl.Ingest != nil {
		return m.Impl.Ingest(ctx, kind, naturalKey, raw, draft)
	}
	panic(errors.New("it should not be called"))
}

func (m *Reconcile) BulkIngest(ctx context.Context, kind domain.EntityKind, entities map[string]domain.Payload) (reconcile.BulkResult, error) {
	m.Calls.BulkIngest = append(m.Calls.BulkIngest, struct {
		Kind     domain.EntityKind
		Entities map[string]domain.Payload
	}{Kind: kind, Entities: entities})
	if m.Impl.BulkIngest != nil {
		return m.Impl.BulkIngest(ctx, kind, entities)
	}
	panic(errors.New("it should not be called"))
}

func (m *Reconcile) PrepareSubmission(ctx context.Context, entityId string, seed domain.DraftSeed) (domain.SubmittedRecord, error) {
	m.Calls.PrepareSubmission = append(m.Calls.PrepareSubmission, struct {
		EntityId string
		Seed     domain.DraftSeed
	}{EntityId: entityId, Seed: seed})
	if m.Impl.PrepareSubmission != nil {
		return m.Impl.PrepareSubmission(ctx, entityId, seed)
	}
	panic(errors.New("it should not be called"))
}

func (m *Reconcile) Synchronize(ctx context.Context, entityId string, raw domain.Payload, fetchedAt time.Time, synced bool) (domain.FetchedRecord, error) {
	m.Calls.Synchronize = append(m.Calls.Synchronize, struct {
		EntityId  string
		Raw       domain.Payload
		FetchedAt time.Time
		Synced    bool
	}{EntityId: entityId, Raw: raw, FetchedAt: fetchedAt, Synced: synced})
	if m.Impl.Synchronize != nil {
		return m.Impl.Synchronize(ctx, entityId, raw, fetchedAt, synced)
	}
	panic(errors.New("it should not be called"))
}

func (m *Reconcile) SubmissionPayload(ctx context.Context, entityId string) (domain.Payload, error) {
	m.Calls.SubmissionPayload = append(m.Calls.SubmissionPayload, struct{ EntityId string }{EntityId: entityId})
	if m.Impl.SubmissionPayload != nil {
		return m.Impl.SubmissionPayload(ctx, entityId)
	}
	panic(errors.New("it should not be called"))
}
