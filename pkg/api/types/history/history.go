package history

import (
	"github.com/atol-canopy/canopy/pkg/domain"
	"github.com/atol-canopy/canopy/pkg/utils/rfctime"
)

// Snapshot is one fetched-record row.
type Snapshot struct {
	Id       string `json:"id"`
	EntityId string `json:"entityId"`

	Raw domain.Payload `json:"raw"`

	FetchedAt rfctime.RFC3339 `json:"fetchedAt"`
	CreatedAt rfctime.RFC3339 `json:"createdAt"`
}

func (s *Snapshot) Equal(o *Snapshot) bool {
	if (s == nil) || (o == nil) {
		return (s == nil) && (o == nil)
	}
	return s.Id == o.Id &&
		s.EntityId == o.EntityId &&
		s.FetchedAt.Time().Equal(o.FetchedAt.Time())
}

func ComposeSnapshot(r domain.FetchedRecord) Snapshot {
	return Snapshot{
		Id:       r.Id,
		EntityId: r.EntityId,
		Raw:      r.Raw,

		FetchedAt: rfctime.RFC3339(r.FetchedAt),
		CreatedAt: rfctime.RFC3339(r.CreatedAt),
	}
}

// RecordRequest stores one registry snapshot for an entity.
type RecordRequest struct {
	Raw       domain.Payload  `json:"raw"`
	FetchedAt rfctime.RFC3339 `json:"fetchedAt"`

	// when true, the snapshot is known to match the local record and
	// the entity's synced_at is advanced as well
	Synced bool `json:"synced,omitempty"`
}
