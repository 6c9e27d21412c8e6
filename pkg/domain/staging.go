package domain

import (
	"errors"
	"fmt"
	"time"
)

// SubmissionStatus is the lifecycle state of a submitted record.
type SubmissionStatus string

const (
	StatusDraft     SubmissionStatus = "draft"
	StatusReady     SubmissionStatus = "ready"
	StatusSubmitted SubmissionStatus = "submitted"
	StatusRejected  SubmissionStatus = "rejected"
)

func (s SubmissionStatus) String() string {
	return string(s)
}

// Terminal reports whether no further transition may leave s.
// A new submitted record must be created to retry after a terminal state.
func (s SubmissionStatus) Terminal() bool {
	return s == StatusSubmitted || s == StatusRejected
}

// CanTransit reports whether the staging state machine allows s -> to.
//
//	draft -> ready -> submitted
//	draft -> rejected, ready -> rejected
func (s SubmissionStatus) CanTransit(to SubmissionStatus) bool {
	switch s {
	case StatusDraft:
		return to == StatusReady || to == StatusRejected
	case StatusReady:
		return to == StatusSubmitted || to == StatusRejected
	}
	return false
}

// SubmittedRecord is a draft staged for external registry submission.
type SubmittedRecord struct {
	Id       string
	EntityId string
	Status   SubmissionStatus

	// payload intended for the external registry
	Submission Payload

	// internal-only fields, excluded from submission
	Internal Payload

	SubmittedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *SubmittedRecord) Equal(o *SubmittedRecord) bool {
	if (s == nil) || (o == nil) {
		return (s == nil) && (o == nil)
	}
	return s.Id == o.Id &&
		s.EntityId == o.EntityId &&
		s.Status == o.Status
}

// DraftSeed carries the payload pair of a draft to be created together
// with another write, in the same transaction.
type DraftSeed struct {
	Submission Payload
	Internal   Payload
}

var (
	ErrInvalidTransition   = errors.New("cannot change submission status")
	ErrPendingDraft        = errors.New("a pending draft already exists")
	ErrNoSubmissionPayload = errors.New("no submission payload")
)

func NewErrInvalidTransition(from, to SubmissionStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
