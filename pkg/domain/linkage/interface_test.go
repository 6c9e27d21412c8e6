package linkage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/atol-canopy/canopy/pkg/domain"
	kpgerr "github.com/atol-canopy/canopy/pkg/domain/errors/dberrors/postgres"
	"github.com/atol-canopy/canopy/pkg/domain/linkage"
	dbmocks "github.com/atol-canopy/canopy/pkg/domain/linkage/db/mock"
	"github.com/atol-canopy/canopy/pkg/utils/cmp"
)

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("it resolves references by natural key", func(t *testing.T) {
		known := map[string]string{
			"org-1":    "id-organism-1",
			"sample-1": "id-sample-1",
		}

		mdb := dbmocks.NewLinkageInterface()
		mdb.Impl.IdByNaturalKey = func(_ context.Context, kind domain.EntityKind, naturalKey string) (string, error) {
			if id, ok := known[naturalKey]; ok {
				return id, nil
			}
			return "", kpgerr.Missing{Table: "entity", Identity: naturalKey}
		}

		testee := linkage.New(mdb)

		links, err := testee.Resolve(ctx, domain.Assembly, domain.Payload{
			"organism_grouping_key": "org-1",
			"bpa_sample_id":         "sample-1",
		})
		if err != nil {
			t.Fatal(err)
		}

		want := map[domain.LinkRole]string{
			domain.LinkOrganism: "id-organism-1",
			domain.LinkSample:   "id-sample-1",
		}
		if !cmp.MapEq(links, want) {
			t.Errorf("links: got %v, want %v", links, want)
		}
	})

	t.Run("a dangling optional reference degrades to unlinked", func(t *testing.T) {
		mdb := dbmocks.NewLinkageInterface()
		mdb.Impl.IdByNaturalKey = func(_ context.Context, kind domain.EntityKind, naturalKey string) (string, error) {
			return "", kpgerr.Missing{Table: "entity", Identity: naturalKey}
		}

		testee := linkage.New(mdb)

		links, err := testee.Resolve(ctx, domain.Sample, domain.Payload{
			"organism_grouping_key": "nonexistent",
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(links) != 0 {
			t.Errorf("links should be empty, got %v", links)
		}
	})

	t.Run("an absent optional reference is not looked up", func(t *testing.T) {
		mdb := dbmocks.NewLinkageInterface()

		testee := linkage.New(mdb)

		links, err := testee.Resolve(ctx, domain.Sample, domain.Payload{})
		if err != nil {
			t.Fatal(err)
		}
		if len(links) != 0 {
			t.Errorf("links should be empty, got %v", links)
		}
		if mdb.Calls.IdByNaturalKey.Times() != 0 {
			t.Error("no lookup should happen for an absent field")
		}
	})

	t.Run("a dangling required reference fails the record", func(t *testing.T) {
		mdb := dbmocks.NewLinkageInterface()
		mdb.Impl.IdByNaturalKey = func(_ context.Context, kind domain.EntityKind, naturalKey string) (string, error) {
			return "", kpgerr.Missing{Table: "entity", Identity: naturalKey}
		}

		testee := linkage.New(mdb)

		_, err := testee.Resolve(ctx, domain.Experiment, domain.Payload{
			"bpa_sample_id": "nonexistent",
		})
		if !errors.Is(err, domain.ErrMissingLink) {
			t.Errorf("want ErrMissingLink, got %v", err)
		}
	})

	t.Run("an absent required reference fails the record", func(t *testing.T) {
		mdb := dbmocks.NewLinkageInterface()

		testee := linkage.New(mdb)

		_, err := testee.Resolve(ctx, domain.Experiment, domain.Payload{})
		if !errors.Is(err, domain.ErrMissingLink) {
			t.Errorf("want ErrMissingLink, got %v", err)
		}
	})

	t.Run("it rejects unknown kinds", func(t *testing.T) {
		testee := linkage.New(dbmocks.NewLinkageInterface())

		if _, err := testee.Resolve(ctx, domain.EntityKind("plasmid"), domain.Payload{}); !errors.Is(err, domain.ErrUnknownKind) {
			t.Errorf("want ErrUnknownKind, got %v", err)
		}
	})
}
