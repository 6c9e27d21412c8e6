package db

import (
	"context"

	"github.com/atol-canopy/canopy/pkg/domain"
)

type StagingInterface interface {
	// CreateDraft stages a new submitted record in status draft.
	//
	// # Returns
	//
	// - domain.SubmittedRecord
	//
	// - error: domain.ErrPendingDraft when a non-terminal submitted
	// record already exists for the main record (enforced by the store's
	// uniqueness constraint, not application locking), Missing when the
	// main record does not exist.
	CreateDraft(ctx context.Context, entityId string, seed domain.DraftSeed) (domain.SubmittedRecord, error)

	// Get retrieves a submitted record by id.
	Get(ctx context.Context, submittedId string) (domain.SubmittedRecord, error)

	// Transition moves a submitted record to the given status.
	//
	// The current status is read under lock and checked against the
	// state machine. Moving to submitted stamps submitted_at in the same
	// transaction.
	//
	// # Returns
	//
	// - domain.SubmittedRecord: the record after the move
	//
	// - error: domain.ErrInvalidTransition when the state machine
	// forbids the move, Missing when no such record exists.
	Transition(ctx context.Context, submittedId string, to domain.SubmissionStatus) (domain.SubmittedRecord, error)

	// ActiveDraft returns the most recent non-terminal submitted record
	// of the main record. Missing when there is none.
	ActiveDraft(ctx context.Context, entityId string) (domain.SubmittedRecord, error)

	// List submitted records of a kind filtered by status, most recent
	// first. Zero-valued arguments are not filtered on.
	List(ctx context.Context, kind domain.EntityKind, status domain.SubmissionStatus) ([]domain.SubmittedRecord, error)
}
