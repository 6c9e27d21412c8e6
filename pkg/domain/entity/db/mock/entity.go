package mocks

import (
	"context"
	"errors"

	"github.com/atol-canopy/canopy/pkg/domain"
	kdbentity "github.com/atol-canopy/canopy/pkg/domain/entity/db"
	dbmock "github.com/atol-canopy/canopy/pkg/domain/internal/db/mock"
)

type EntityInterface struct {
	Impl struct {
		Upsert func(context.Context, domain.EntityKind, string, domain.RecordFields, *domain.DraftSeed) (domain.MainRecord, bool, error)
		Get    func(context.Context, domain.EntityKind, string) (domain.MainRecord, error)
		Update func(context.Context, domain.MainRecord) (domain.MainRecord, error)
		Find   func(context.Context, domain.RecordFilter) ([]domain.MainRecord, error)
		Delete func(context.Context, domain.EntityKind, string) error
	}
	Calls struct {
		Upsert dbmock.CallLog[struct {
			Kind       domain.EntityKind
			NaturalKey string
			Fields     domain.RecordFields
			Draft      *domain.DraftSeed
		}]
		Get dbmock.CallLog[struct {
			Kind domain.EntityKind
			Id   string
		}]
		Update dbmock.CallLog[domain.MainRecord]
		Find   dbmock.CallLog[domain.RecordFilter]
		Delete dbmock.CallLog[struct {
			Kind domain.EntityKind
			Id   string
		}]
	}
}

func NewEntityInterface() *EntityInterface {
	return &EntityInterface{}
}

var _ kdbentity.EntityInterface = &EntityInterface{}

func (ei *EntityInterface) Upsert(ctx context.Context, kind domain.EntityKind, naturalKey string, fields domain.RecordFields, draft *domain.DraftSeed) (domain.MainRecord, bool, error) {
	ei.Calls.Upsert = append(ei.Calls.Upsert, struct {
		Kind       domain.EntityKind
		NaturalKey string
		Fields     domain.RecordFields
		Draft      *domain.DraftSeed
	}{
		Kind: kind, NaturalKey: naturalKey, Fields: fields, Draft: draft,
	})
	if ei.Impl.Upsert != nil {
		return ei.Impl.Upsert(ctx, kind, naturalKey, fields, draft)
	}
	panic(errors.New("it should not be called"))
}

func (ei *EntityInterface) Get(ctx context.Context, kind domain.EntityKind, id string) (domain.MainRecord, error) {
	ei.Calls.Get = append(ei.Calls.Get, struct {
		Kind domain.EntityKind
		Id   string
	}{Kind: kind, Id: id})
	if ei.Impl.Get != nil {
		return ei.Impl.Get(ctx, kind, id)
	}
	panic(errors.New("it should not be called"))
}

func (ei *EntityInterface) Update(ctx context.Context, r domain.MainRecord) (domain.MainRecord, error) {
	ei.Calls.Update = append(ei.Calls.Update, r)
	if ei.Impl.Update != nil {
		return ei.Impl.Update(ctx, r)
	}
	panic(errors.New("it should not be called"))
}

func (ei *EntityInterface) Find(ctx context.Context, filter domain.RecordFilter) ([]domain.MainRecord, error) {
	ei.Calls.Find = append(ei.Calls.Find, filter)
	if ei.Impl.Find != nil {
		return ei.Impl.Find(ctx, filter)
	}
	panic(errors.New("it should not be called"))
}

func (ei *EntityInterface) Delete(ctx context.Context, kind domain.EntityKind, id string) error {
	ei.Calls.Delete = append(ei.Calls.Delete, struct {
		Kind domain.EntityKind
		Id   string
	}{Kind: kind, Id: id})
	if ei.Impl.Delete != nil {
		return ei.Impl.Delete(ctx, kind, id)
	}
	panic(errors.New("it should not be called"))
}
