package tests_test

import (
	"context"
	"errors"
	"testing"

	"github.com/atol-canopy/canopy/pkg/conn/db/postgres/pool/testenv"
	"github.com/atol-canopy/canopy/pkg/domain"
	kpgentity "github.com/atol-canopy/canopy/pkg/domain/entity/db/postgres"
	domerr "github.com/atol-canopy/canopy/pkg/domain/errors"
	"github.com/atol-canopy/canopy/pkg/utils/try"
)

func seed(
	t *testing.T, ctx context.Context, testee interface {
		Upsert(context.Context, domain.EntityKind, string, domain.RecordFields, *domain.DraftSeed) (domain.MainRecord, bool, error)
	},
	kind domain.EntityKind, naturalKey string, fields domain.RecordFields,
) domain.MainRecord {
	t.Helper()
	r, created, err := testee.Upsert(ctx, kind, naturalKey, fields, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatalf("fixture exists already: %s %s", kind, naturalKey)
	}
	return r
}

func TestEntity_Delete(t *testing.T) {
	poolBroaker := testenv.NewPoolBroaker(context.Background(), t)

	t.Run("deleting a sample takes its experiments but spares the organism", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		testee := kpgentity.New(pgpool)

		organism := seed(t, ctx, testee, domain.Organism, "9606|", domain.RecordFields{
			Source: domain.Payload{"tax_id": "9606", "scientific_name": "Homo sapiens"},
		})
		sample := seed(t, ctx, testee, domain.Sample, "102.100.100/1", domain.RecordFields{
			Source: domain.Payload{"bpa_sample_id": "102.100.100/1"},
			Links:  map[domain.LinkRole]string{domain.LinkOrganism: organism.Id},
		})
		experiment := seed(t, ctx, testee, domain.Experiment, "pkg-1", domain.RecordFields{
			Source: domain.Payload{"bpa_package_id": "pkg-1"},
			Links:  map[domain.LinkRole]string{domain.LinkSample: sample.Id},
		})

		if err := testee.Delete(ctx, domain.Sample, sample.Id); err != nil {
			t.Fatal(err)
		}

		if _, err := testee.Get(ctx, domain.Experiment, experiment.Id); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("the experiment should die with its sample: %v", err)
		}
		if _, err := testee.Get(ctx, domain.Organism, organism.Id); err != nil {
			t.Errorf("the organism should survive: %v", err)
		}
	})

	t.Run("deleting an organism detaches optional links and takes required dependents", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		testee := kpgentity.New(pgpool)

		organism := seed(t, ctx, testee, domain.Organism, "9606|", domain.RecordFields{
			Source: domain.Payload{"tax_id": "9606", "scientific_name": "Homo sapiens"},
		})
		sample := seed(t, ctx, testee, domain.Sample, "102.100.100/1", domain.RecordFields{
			Source: domain.Payload{"bpa_sample_id": "102.100.100/1"},
			Links:  map[domain.LinkRole]string{domain.LinkOrganism: organism.Id},
		})
		note := seed(t, ctx, testee, domain.GenomeNote, "note-1", domain.RecordFields{
			Source: domain.Payload{"genome_note_id": "note-1"},
			Links:  map[domain.LinkRole]string{domain.LinkOrganism: organism.Id},
		})

		if err := testee.Delete(ctx, domain.Organism, organism.Id); err != nil {
			t.Fatal(err)
		}

		got := try.To(testee.Get(ctx, domain.Sample, sample.Id)).OrFatal(t)
		if _, linked := got.Links[domain.LinkOrganism]; linked {
			t.Errorf("the organism link should be detached: %+v", got.Links)
		}
		if _, err := testee.Get(ctx, domain.GenomeNote, note.Id); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("the genome note should die with its organism: %v", err)
		}
	})

	t.Run("submitted rows follow the record", func(t *testing.T) {
		ctx := context.Background()
		pgpool := poolBroaker.GetPool(ctx, t)
		testee := kpgentity.New(pgpool)

		organism, _, err := testee.Upsert(
			ctx, domain.Organism, "9606|",
			domain.RecordFields{
				Source: domain.Payload{"tax_id": "9606", "scientific_name": "Homo sapiens"},
			},
			&domain.DraftSeed{Submission: domain.Payload{"tax_id": "9606"}},
		)
		if err != nil {
			t.Fatal(err)
		}

		if err := testee.Delete(ctx, domain.Organism, organism.Id); err != nil {
			t.Fatal(err)
		}

		conn := try.To(pgpool.Acquire(ctx)).OrFatal(t)
		defer conn.Release()
		var remaining int
		if err := conn.QueryRow(
			ctx,
			`select count(*) from "entity_submitted" where "entity_id" = $1`,
			organism.Id,
		).Scan(&remaining); err != nil {
			t.Fatal(err)
		}
		if remaining != 0 {
			t.Errorf("submitted rows should be deleted with the record: %d left", remaining)
		}
	})
}
