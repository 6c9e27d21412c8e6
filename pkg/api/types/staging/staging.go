package staging

import (
	"github.com/atol-canopy/canopy/pkg/domain"
	"github.com/atol-canopy/canopy/pkg/utils/rfctime"
)

// Detail is the full representation of a submitted record.
type Detail struct {
	Id       string `json:"id"`
	EntityId string `json:"entityId"`
	Status   string `json:"status"`

	Submission domain.Payload `json:"submission,omitempty"`
	Internal   domain.Payload `json:"internal,omitempty"`

	SubmittedAt *rfctime.RFC3339 `json:"submittedAt,omitempty"`
	CreatedAt   rfctime.RFC3339  `json:"createdAt"`
	UpdatedAt   rfctime.RFC3339  `json:"updatedAt"`
}

func (d *Detail) Equal(o *Detail) bool {
	if (d == nil) || (o == nil) {
		return (d == nil) && (o == nil)
	}
	return d.Id == o.Id &&
		d.EntityId == o.EntityId &&
		d.Status == o.Status
}

func ComposeDetail(r domain.SubmittedRecord) Detail {
	var submittedAt *rfctime.RFC3339
	if r.SubmittedAt != nil {
		s := rfctime.RFC3339(*r.SubmittedAt)
		submittedAt = &s
	}

	return Detail{
		Id:       r.Id,
		EntityId: r.EntityId,
		Status:   r.Status.String(),

		Submission: r.Submission,
		Internal:   r.Internal,

		SubmittedAt: submittedAt,
		CreatedAt:   rfctime.RFC3339(r.CreatedAt),
		UpdatedAt:   rfctime.RFC3339(r.UpdatedAt),
	}
}

// CreateDraftRequest stages a new draft for an entity.
type CreateDraftRequest struct {
	Submission domain.Payload `json:"submission,omitempty"`
	Internal   domain.Payload `json:"internal,omitempty"`
}

// TransitionRequest moves a submitted record to a new status.
type TransitionRequest struct {
	Status string `json:"status"`
}
