package domain

import (
	"errors"
	"fmt"
	"time"
)

// EntityKind tags which kind of biological entity a lifecycle record describes.
type EntityKind string

const (
	Organism      EntityKind = "organism"
	Sample        EntityKind = "sample"
	Experiment    EntityKind = "experiment"
	Assembly      EntityKind = "assembly"
	Bioproject    EntityKind = "bioproject"
	Read          EntityKind = "read"
	GenomeNote    EntityKind = "genome_note"
	BpaInitiative EntityKind = "bpa_initiative"
)

func (k EntityKind) String() string {
	return string(k)
}

// Payload is an opaque provider-specific JSON object.
//
// The core never inspects nested content; it is carried as-is between
// the API, the store and the external registry.
type Payload map[string]any

// LinkRole names a link slot of a main record (= which parent it points at).
type LinkRole string

const (
	LinkOrganism   LinkRole = "organism"
	LinkSample     LinkRole = "sample"
	LinkExperiment LinkRole = "experiment"
)

// LinkSpec declares one link slot of an entity kind.
type LinkSpec struct {
	Role LinkRole

	// kind of the record the link must point at
	Target EntityKind

	// raw-field name carrying the parent's natural key on ingestion
	Field string

	// when true, a record of this kind cannot exist without the link,
	// and is deleted together with its parent.
	Required bool
}

// KindSpec declares the shape of an entity kind: its natural key,
// mandatory top-level fields, link slots, and whether it carries
// submitted/fetched ledger records.
type KindSpec struct {
	Kind EntityKind

	// raw-field name of the natural key, for documentation & bulk import
	NaturalKeyField string

	// top-level raw fields which must be present on create
	RequiredFields []string

	Links []LinkSpec

	// true when the kind is tracked through the staging & history ledgers
	Lifecycle bool
}

// Link returns the link spec for the given role.
func (s KindSpec) Link(role LinkRole) (LinkSpec, bool) {
	for _, l := range s.Links {
		if l.Role == role {
			return l, true
		}
	}
	return LinkSpec{}, false
}

var kindSpecs = map[EntityKind]KindSpec{
	Organism: {
		Kind:            Organism,
		NaturalKeyField: "organism_grouping_key",
		RequiredFields:  []string{"tax_id", "scientific_name"},
		Lifecycle:       true,
	},
	Sample: {
		Kind:            Sample,
		NaturalKeyField: "bpa_sample_id",
		Links: []LinkSpec{
			{Role: LinkOrganism, Target: Organism, Field: "organism_grouping_key"},
		},
		Lifecycle: true,
	},
	Experiment: {
		Kind:            Experiment,
		NaturalKeyField: "bpa_package_id",
		Links: []LinkSpec{
			{Role: LinkSample, Target: Sample, Field: "bpa_sample_id", Required: true},
		},
		Lifecycle: true,
	},
	Assembly: {
		Kind:            Assembly,
		NaturalKeyField: "assembly_id_serial",
		Links: []LinkSpec{
			{Role: LinkOrganism, Target: Organism, Field: "organism_grouping_key", Required: true},
			{Role: LinkSample, Target: Sample, Field: "bpa_sample_id", Required: true},
			{Role: LinkExperiment, Target: Experiment, Field: "bpa_package_id"},
		},
		Lifecycle: true,
	},
	Bioproject: {
		Kind:            Bioproject,
		NaturalKeyField: "bioproject_accession",
		RequiredFields:  []string{"study_name"},
		Lifecycle:       true,
	},
	Read: {
		Kind:            Read,
		NaturalKeyField: "read_id_serial",
		RequiredFields:  []string{"dataset_name"},
		Links: []LinkSpec{
			{Role: LinkExperiment, Target: Experiment, Field: "bpa_package_id", Required: true},
		},
	},
	GenomeNote: {
		Kind:            GenomeNote,
		NaturalKeyField: "genome_note_id",
		Links: []LinkSpec{
			{Role: LinkOrganism, Target: Organism, Field: "organism_grouping_key", Required: true},
		},
		Lifecycle: true,
	},
	BpaInitiative: {
		Kind:            BpaInitiative,
		NaturalKeyField: "bpa_initiative_id_serial",
		RequiredFields:  []string{"name"},
	},
}

// Spec returns the KindSpec of k. The second value is false for kinds
// this service does not track.
func Spec(k EntityKind) (KindSpec, bool) {
	s, ok := kindSpecs[k]
	return s, ok
}

// Kinds lists all tracked entity kinds. Order is unspecified.
func Kinds() []EntityKind {
	ks := make([]EntityKind, 0, len(kindSpecs))
	for k := range kindSpecs {
		ks = append(ks, k)
	}
	return ks
}

// MainRecord is the current-state row of an entity. It is the only
// record other entities reference by foreign key.
type MainRecord struct {
	Id         string
	Kind       EntityKind
	NaturalKey string

	// registry accession, once assigned
	Accession string

	Source   Payload
	Notes    string
	Priority string

	// role -> main-record id of the parent
	Links map[LinkRole]string

	SyncedAt      *time.Time
	LastCheckedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *MainRecord) Equal(o *MainRecord) bool {
	if (r == nil) || (o == nil) {
		return (r == nil) && (o == nil)
	}
	if len(r.Links) != len(o.Links) {
		return false
	}
	for role, id := range r.Links {
		if o.Links[role] != id {
			return false
		}
	}
	return r.Id == o.Id &&
		r.Kind == o.Kind &&
		r.NaturalKey == o.NaturalKey &&
		r.Accession == o.Accession
}

// CheckRequiredFields verifies that p carries every mandatory top-level
// field of the kind. Values are not inspected beyond presence.
func CheckRequiredFields(kind EntityKind, p Payload) error {
	s, ok := Spec(kind)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	for _, f := range s.RequiredFields {
		if v, ok := p[f]; !ok || v == nil || v == "" {
			return NewErrMissingField(kind, f)
		}
	}
	return nil
}

// RecordFields is the writable portion of a main record.
type RecordFields struct {
	Accession string
	Source    Payload
	Notes     string
	Priority  string
	Links     map[LinkRole]string
}

// RecordFilter selects main records in Find.
//
// Zero values mean "not filtered". LinkedTo matches records holding a
// link (any role) to the given main-record id. SubmissionStatus matches
// records whose latest submitted record has the given status.
type RecordFilter struct {
	Kind             EntityKind
	NaturalKey       string
	LinkedTo         string
	SubmissionStatus SubmissionStatus

	Offset int
	Limit  int
}

var (
	ErrUnknownKind  = errors.New("unknown entity kind")
	ErrMissingField = errors.New("missing required field")
	ErrMissingLink  = errors.New("missing required link")
)

func NewErrMissingField(kind EntityKind, field string) error {
	return fmt.Errorf("%w: %s.%s", ErrMissingField, kind, field)
}

func NewErrMissingLink(kind EntityKind, role LinkRole, naturalKey string) error {
	return fmt.Errorf("%w: %s.%s = %q", ErrMissingLink, kind, role, naturalKey)
}
