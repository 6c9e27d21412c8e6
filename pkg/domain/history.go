package domain

import (
	"errors"
	"time"
)

// FetchedRecord is an immutable snapshot of what the external registry
// returned for an entity at a point in time. Rows are never updated nor
// deleted once written.
type FetchedRecord struct {
	Id       string
	EntityId string
	Raw      Payload

	FetchedAt time.Time
	CreatedAt time.Time
}

func (f *FetchedRecord) Equal(o *FetchedRecord) bool {
	if (f == nil) || (o == nil) {
		return (f == nil) && (o == nil)
	}
	return f.Id == o.Id &&
		f.EntityId == o.EntityId &&
		f.FetchedAt.Equal(o.FetchedAt)
}

var ErrMissingTimestamp = errors.New("fetched_at timestamp is required")
