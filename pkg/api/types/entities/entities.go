package entities

import (
	"github.com/atol-canopy/canopy/pkg/domain"
	"github.com/atol-canopy/canopy/pkg/utils/rfctime"
)

// Detail is the full representation of a main record.
type Detail struct {
	Id         string `json:"id"`
	Kind       string `json:"kind"`
	NaturalKey string `json:"naturalKey"`
	Accession  string `json:"accession,omitempty"`

	Source   domain.Payload `json:"source,omitempty"`
	Notes    string         `json:"notes,omitempty"`
	Priority string         `json:"priority,omitempty"`

	// link role -> id of the linked record
	Links map[string]string `json:"links,omitempty"`

	SyncedAt      *rfctime.RFC3339 `json:"syncedAt,omitempty"`
	LastCheckedAt *rfctime.RFC3339 `json:"lastCheckedAt,omitempty"`
	CreatedAt     rfctime.RFC3339  `json:"createdAt"`
	UpdatedAt     rfctime.RFC3339  `json:"updatedAt"`
}

func (d *Detail) Equal(o *Detail) bool {
	if (d == nil) || (o == nil) {
		return (d == nil) && (o == nil)
	}
	if len(d.Links) != len(o.Links) {
		return false
	}
	for role, id := range d.Links {
		if o.Links[role] != id {
			return false
		}
	}
	return d.Id == o.Id &&
		d.Kind == o.Kind &&
		d.NaturalKey == o.NaturalKey &&
		d.Accession == o.Accession
}

func ComposeDetail(r domain.MainRecord) Detail {
	links := map[string]string{}
	for role, id := range r.Links {
		links[string(role)] = id
	}
	if len(links) == 0 {
		links = nil
	}

	return Detail{
		Id:         r.Id,
		Kind:       r.Kind.String(),
		NaturalKey: r.NaturalKey,
		Accession:  r.Accession,
		Source:     r.Source,
		Notes:      r.Notes,
		Priority:   r.Priority,
		Links:      links,

		SyncedAt:      composeTimestamp(r.SyncedAt),
		LastCheckedAt: composeTimestamp(r.LastCheckedAt),
		CreatedAt:     rfctime.RFC3339(r.CreatedAt),
		UpdatedAt:     rfctime.RFC3339(r.UpdatedAt),
	}
}

// UpdateRequest patches the writable fields of a main record.
// Nil fields are left unchanged.
type UpdateRequest struct {
	Accession *string         `json:"accession,omitempty"`
	Source    *domain.Payload `json:"source,omitempty"`
	Notes     *string         `json:"notes,omitempty"`
	Priority  *string         `json:"priority,omitempty"`
}

// IngestResult reports what a single ingest did.
type IngestResult struct {
	Record  Detail `json:"record"`
	Created bool   `json:"created"`
}

// BulkRequest is a batch of raw provider payloads of one kind.
type BulkRequest struct {
	Records []domain.Payload `json:"records"`
}

type BulkResult struct {
	Created int    `json:"created_count"`
	Skipped int    `json:"skipped_count"`
	Message string `json:"message"`
}
