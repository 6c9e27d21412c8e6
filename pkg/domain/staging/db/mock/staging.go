package mocks

import (
	"context"
	"errors"

	"github.com/atol-canopy/canopy/pkg/domain"
	dbmock "github.com/atol-canopy/canopy/pkg/domain/internal/db/mock"
	kdbstaging "github.com/atol-canopy/canopy/pkg/domain/staging/db"
)

type StagingInterface struct {
	Impl struct {
		CreateDraft func(context.Context, string, domain.DraftSeed) (domain.SubmittedRecord, error)
		Get         func(context.Context, string) (domain.SubmittedRecord, error)
		Transition  func(context.Context, string, domain.SubmissionStatus) (domain.SubmittedRecord, error)
		ActiveDraft func(context.Context, string) (domain.SubmittedRecord, error)
		List        func(context.Context, domain.EntityKind, domain.SubmissionStatus) ([]domain.SubmittedRecord, error)
	}
	Calls struct {
		CreateDraft dbmock.CallLog[struct {
			EntityId string
			Seed     domain.DraftSeed
		}]
		Get        dbmock.CallLog[struct{ SubmittedId string }]
		Transition dbmock.CallLog[struct {
			SubmittedId string
			To          domain.SubmissionStatus
		}]
		ActiveDraft dbmock.CallLog[struct{ EntityId string }]
		List        dbmock.CallLog[struct {
			Kind   domain.EntityKind
			Status domain.SubmissionStatus
		}]
	}
}

func NewStagingInterface() *StagingInterface {
	return &StagingInterface{}
}

var _ kdbstaging.StagingInterface = &StagingInterface{}

func (si *StagingInterface) CreateDraft(ctx context.Context, entityId string, seed domain.DraftSeed) (domain.SubmittedRecord, error) {
	si.Calls.CreateDraft = append(si.Calls.CreateDraft, struct {
		EntityId string
		Seed     domain.DraftSeed
	}{EntityId: entityId, Seed: seed})
	if si.Impl.CreateDraft != nil {
		return si.Impl.CreateDraft(ctx, entityId, seed)
	}
	panic(errors.New("it should not be called"))
}

func (si *StagingInterface) Get(ctx context.Context, submittedId string) (domain.SubmittedRecord, error) {
	si.Calls.Get = append(si.Calls.Get, struct{ SubmittedId string }{SubmittedId: submittedId})
	if si.Impl.Get != nil {
		return si.Impl.Get(ctx, submittedId)
	}
	panic(errors.New("it should not be called"))
}

func (si *StagingInterface) Transition(ctx context.Context, submittedId string, to domain.SubmissionStatus) (domain.SubmittedRecord, error) {
	si.Calls.Transition = append(si.Calls.Transition, struct {
		SubmittedId string
		To          domain.SubmissionStatus
	}{SubmittedId: submittedId, To: to})
	if si.Impl.Transition != nil {
		return si.Impl.Transition(ctx, submittedId, to)
	}
	panic(errors.New("it should not be called"))
}

func (si *StagingInterface) ActiveDraft(ctx context.Context, entityId string) (domain.SubmittedRecord, error) {
	si.Calls.ActiveDraft = append(si.Calls.ActiveDraft, struct{ EntityId string }{EntityId: entityId})
	if si.Impl.ActiveDraft != nil {
		return si.Impl.ActiveDraft(ctx, entityId)
	}
	panic(errors.New("it should not be called"))
}

func (si *StagingInterface) List(ctx context.Context, kind domain.EntityKind, status domain.SubmissionStatus) ([]domain.SubmittedRecord, error) {
	si.Calls.List = append(si.Calls.List, struct {
		Kind   domain.EntityKind
		Status domain.SubmissionStatus
	}{Kind: kind, Status: status})
	if si.Impl.List != nil {
		return si.Impl.List(ctx, kind, status)
	}
	panic(errors.New("it should not be called"))
}
