package domain

import (
	"errors"
	"time"
)

// RelationType is the type tag of a directed edge between two main records.
type RelationType string

const (
	// sample-to-sample derivation graph
	DerivedFrom RelationType = "derived_from"
	SubsampleOf RelationType = "subsample_of"
	ParentOf    RelationType = "parent_of"
	ChildOf     RelationType = "child_of"

	// join relations
	HasExperiment     RelationType = "has_experiment"     // bioproject -> experiment
	DescribesAssembly RelationType = "describes_assembly" // genome note -> assembly
)

// SampleGraph reports whether t belongs to the sample derivation graph.
// Edges of these types must not close a cycle.
func (t RelationType) SampleGraph() bool {
	switch t {
	case DerivedFrom, SubsampleOf, ParentOf, ChildOf:
		return true
	}
	return false
}

// Relation is a typed directed edge between two main records.
// (source, target, type) is unique.
type Relation struct {
	Id       string
	SourceId string
	TargetId string
	Type     RelationType

	CreatedAt time.Time
}

func (r *Relation) Equal(o *Relation) bool {
	if (r == nil) || (o == nil) {
		return (r == nil) && (o == nil)
	}
	return r.SourceId == o.SourceId &&
		r.TargetId == o.TargetId &&
		r.Type == o.Type
}

var ErrCyclicRelation = errors.New("relation would close a cycle")
