package db

import (
	"context"

	"github.com/atol-canopy/canopy/pkg/domain"
)

type LinkageInterface interface {
	// IdByNaturalKey resolves a (kind, natural key) pair to the
	// main-record id. Missing when no such record exists.
	IdByNaturalKey(ctx context.Context, kind domain.EntityKind, naturalKey string) (string, error)

	// AddRelation inserts a typed directed edge between two main records.
	//
	// # Returns
	//
	// - domain.Relation
	//
	// - error: Conflict when the (source, target, type) edge exists
	// already, Missing when either endpoint does not exist,
	// domain.ErrCyclicRelation when the edge would close a cycle in the
	// sample derivation graph.
	AddRelation(ctx context.Context, sourceId string, targetId string, relation domain.RelationType) (domain.Relation, error)

	// DeleteRelation removes an edge by id.
	//
	// # Returns
	//
	// - error: Missing when no such edge exists.
	DeleteRelation(ctx context.Context, relationId string) error

	// Relations lists edges touching the main record, in either
	// direction, ordered by creation time.
	Relations(ctx context.Context, entityId string) ([]domain.Relation, error)
}
