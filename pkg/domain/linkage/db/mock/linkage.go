package mocks

import (
	"context"
	"errors"

	"github.com/atol-canopy/canopy/pkg/domain"
	dbmock "github.com/atol-canopy/canopy/pkg/domain/internal/db/mock"
	kdblinkage "github.com/atol-canopy/canopy/pkg/domain/linkage/db"
)

type LinkageInterface struct {
	Impl struct {
		IdByNaturalKey func(context.Context, domain.EntityKind, string) (string, error)
		AddRelation    func(context.Context, string, string, domain.RelationType) (domain.Relation, error)
		DeleteRelation func(context.Context, string) error
		Relations      func(context.Context, string) ([]domain.Relation, error)
	}
	Calls struct {
		IdByNaturalKey dbmock.CallLog[struct {
			Kind       domain.EntityKind
			NaturalKey string
		}]
		AddRelation dbmock.CallLog[struct {
			SourceId string
			TargetId string
			Relation domain.RelationType
		}]
		DeleteRelation dbmock.CallLog[struct{ RelationId string }]
		Relations      dbmock.CallLog[struct{ EntityId string }]
	}
}

func NewLinkageInterface() *LinkageInterface {
	return &LinkageInterface{}
}

var _ kdblinkage.LinkageInterface = &LinkageInterface{}

func (li *LinkageInterface) IdByNaturalKey(ctx context.Context, kind domain.EntityKind, naturalKey string) (string, error) {
	li.Calls.IdByNaturalKey = append(li.Calls.IdByNaturalKey, struct {
		Kind       domain.EntityKind
		NaturalKey string
	}{Kind: kind, NaturalKey: naturalKey})
	if li.Impl.IdByNaturalKey != nil {
		return li.Impl.IdByNaturalKey(ctx, kind, naturalKey)
	}
	panic(errors.New("it should not be called"))
}

func (li *LinkageInterface) AddRelation(ctx context.Context, sourceId string, targetId string, relation domain.RelationType) (domain.Relation, error) {
	li.Calls.AddRelation = append(li.Calls.AddRelation, struct {
		SourceId string
		TargetId string
		Relation domain.RelationType
	}{SourceId: sourceId, TargetId: targetId, Relation: relation})
	if li.Impl.AddRelation != nil {
		return li.Impl.AddRelation(ctx, sourceId, targetId, relation)
	}
	panic(errors.New("it should not be called"))
}

func (li *LinkageInterface) DeleteRelation(ctx context.Context, relationId string) error {
	li.Calls.DeleteRelation = append(li.Calls.DeleteRelation, struct{ RelationId string }{RelationId: relationId})
	if li.Impl.DeleteRelation != nil {
		return li.Impl.DeleteRelation(ctx, relationId)
	}
	panic(errors.New("it should not be called"))
}

func (li *LinkageInterface) Relations(ctx context.Context, entityId string) ([]domain.Relation, error) {
	li.Calls.Relations = append(li.Calls.Relations, struct{ EntityId string }{EntityId: entityId})
	if li.Impl.Relations != nil {
		return li.Impl.Relations(ctx, entityId)
	}
	panic(errors.New("it should not be called"))
}
