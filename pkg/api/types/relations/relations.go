package relations

import (
	"github.com/atol-canopy/canopy/pkg/domain"
	"github.com/atol-canopy/canopy/pkg/utils/rfctime"
)

type Detail struct {
	Id       string `json:"id"`
	SourceId string `json:"sourceId"`
	TargetId string `json:"targetId"`
	Relation string `json:"relation"`

	CreatedAt rfctime.RFC3339 `json:"createdAt"`
}

func (d *Detail) Equal(o *Detail) bool {
	if (d == nil) || (o == nil) {
		return (d == nil) && (o == nil)
	}
	return d.SourceId == o.SourceId &&
		d.TargetId == o.TargetId &&
		d.Relation == o.Relation
}

func ComposeDetail(r domain.Relation) Detail {
	return Detail{
		Id:       r.Id,
		SourceId: r.SourceId,
		TargetId: r.TargetId,
		Relation: string(r.Type),

		CreatedAt: rfctime.RFC3339(r.CreatedAt),
	}
}

type AddRequest struct {
	SourceId string `json:"sourceId"`
	TargetId string `json:"targetId"`
	Relation string `json:"relation"`
}
