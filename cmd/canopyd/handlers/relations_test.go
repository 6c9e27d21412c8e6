package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/atol-canopy/canopy/cmd/canopyd/handlers"
	httptestutil "github.com/atol-canopy/canopy/internal/testutils/http"
	apirel "github.com/atol-canopy/canopy/pkg/api/types/relations"
	"github.com/atol-canopy/canopy/pkg/domain"
	kpgerr "github.com/atol-canopy/canopy/pkg/domain/errors/dberrors/postgres"
	mocklinkage "github.com/atol-canopy/canopy/pkg/domain/linkage/db/mock"
)

func TestAddRelation(t *testing.T) {
	t.Run("a new edge is stored", func(t *testing.T) {
		dbLinkage := mocklinkage.NewLinkageInterface()
		dbLinkage.Impl.AddRelation = func(_ context.Context, sourceId string, targetId string, relation domain.RelationType) (domain.Relation, error) {
			if sourceId != "sample-1" || targetId != "sample-2" || relation != domain.DerivedFrom {
				t.Errorf("unexpected edge: %s -[%s]-> %s", sourceId, relation, targetId)
			}
			return domain.Relation{
				Id: "relation-1", SourceId: sourceId, TargetId: targetId, Type: relation,
			}, nil
		}

		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/api/relations/",
			strings.NewReader(`{"sourceId": "sample-1", "targetId": "sample-2", "relation": "derived_from"}`),
			httptestutil.ContentType("application/json"),
		)

		if err := handlers.AddRelationHandler(dbLinkage)(c); err != nil {
			t.Fatalf("handler failed: %v", err)
		}
		if resp.Code != http.StatusCreated {
			t.Errorf("status code: got %d, want %d", resp.Code, http.StatusCreated)
		}

		payload := apirel.Detail{}
		if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if payload.Id != "relation-1" || payload.Relation != "derived_from" {
			t.Errorf("unexpected response: %+v", payload)
		}
	})

	t.Run("an edge closing a cycle gets 409", func(t *testing.T) {
		dbLinkage := mocklinkage.NewLinkageInterface()
		dbLinkage.Impl.AddRelation = func(_ context.Context, _ string, _ string, _ domain.RelationType) (domain.Relation, error) {
			return domain.Relation{}, domain.ErrCyclicRelation
		}

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/relations/",
			strings.NewReader(`{"sourceId": "sample-2", "targetId": "sample-1", "relation": "derived_from"}`),
			httptestutil.ContentType("application/json"),
		)

		err := handlers.AddRelationHandler(dbLinkage)(c)
		if status := httpStatusOf(t, err); status != http.StatusConflict {
			t.Errorf("status code: got %d, want %d", status, http.StatusConflict)
		}
	})

	t.Run("a duplicate edge gets 409", func(t *testing.T) {
		dbLinkage := mocklinkage.NewLinkageInterface()
		dbLinkage.Impl.AddRelation = func(_ context.Context, _ string, _ string, _ domain.RelationType) (domain.Relation, error) {
			return domain.Relation{}, kpgerr.Conflict{
				Table: "entity_relation", Identity: "source_id='sample-1'",
			}
		}

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/relations/",
			strings.NewReader(`{"sourceId": "sample-1", "targetId": "sample-2", "relation": "derived_from"}`),
			httptestutil.ContentType("application/json"),
		)

		err := handlers.AddRelationHandler(dbLinkage)(c)
		if status := httpStatusOf(t, err); status != http.StatusConflict {
			t.Errorf("status code: got %d, want %d", status, http.StatusConflict)
		}
	})

	t.Run("a vanished endpoint gets 400", func(t *testing.T) {
		dbLinkage := mocklinkage.NewLinkageInterface()
		dbLinkage.Impl.AddRelation = func(_ context.Context, _ string, _ string, _ domain.RelationType) (domain.Relation, error) {
			return domain.Relation{}, kpgerr.Missing{Table: "entity", Identity: "id='no-such'"}
		}

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/relations/",
			strings.NewReader(`{"sourceId": "no-such", "targetId": "sample-2", "relation": "derived_from"}`),
			httptestutil.ContentType("application/json"),
		)

		err := handlers.AddRelationHandler(dbLinkage)(c)
		if status := httpStatusOf(t, err); status != http.StatusBadRequest {
			t.Errorf("status code: got %d, want %d", status, http.StatusBadRequest)
		}
	})

	t.Run("missing fields get 400 without touching the store", func(t *testing.T) {
		dbLinkage := mocklinkage.NewLinkageInterface()

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/relations/",
			strings.NewReader(`{"sourceId": "sample-1"}`),
			httptestutil.ContentType("application/json"),
		)

		err := handlers.AddRelationHandler(dbLinkage)(c)
		if status := httpStatusOf(t, err); status != http.StatusBadRequest {
			t.Errorf("status code: got %d, want %d", status, http.StatusBadRequest)
		}
		if dbLinkage.Calls.AddRelation.Times() != 0 {
			t.Error("AddRelation should not be called")
		}
	})
}

func TestDeleteRelation(t *testing.T) {
	t.Run("a known edge is removed", func(t *testing.T) {
		dbLinkage := mocklinkage.NewLinkageInterface()
		dbLinkage.Impl.DeleteRelation = func(_ context.Context, relationId string) error {
			if relationId != "relation-1" {
				t.Errorf("unexpected relation id: %s", relationId)
			}
			return nil
		}

		e := echo.New()
		c, resp := httptestutil.Delete(e, "/api/relations/relation-1/")
		c.SetParamNames("relationId")
		c.SetParamValues("relation-1")

		if err := handlers.DeleteRelationHandler(dbLinkage, "relationId")(c); err != nil {
			t.Fatalf("handler failed: %v", err)
		}
		if resp.Code != http.StatusNoContent {
			t.Errorf("status code: got %d, want %d", resp.Code, http.StatusNoContent)
		}
	})

	t.Run("a missing edge gets 404", func(t *testing.T) {
		dbLinkage := mocklinkage.NewLinkageInterface()
		dbLinkage.Impl.DeleteRelation = func(_ context.Context, _ string) error {
			return kpgerr.Missing{Table: "entity_relation", Identity: "id='no-such'"}
		}

		e := echo.New()
		c, _ := httptestutil.Delete(e, "/api/relations/no-such/")
		c.SetParamNames("relationId")
		c.SetParamValues("no-such")

		err := handlers.DeleteRelationHandler(dbLinkage, "relationId")(c)
		if status := httpStatusOf(t, err); status != http.StatusNotFound {
			t.Errorf("status code: got %d, want %d", status, http.StatusNotFound)
		}
	})
}

func TestListRelations(t *testing.T) {
	t.Run("edges touching the entity are listed", func(t *testing.T) {
		dbLinkage := mocklinkage.NewLinkageInterface()
		dbLinkage.Impl.Relations = func(_ context.Context, entityId string) ([]domain.Relation, error) {
			if entityId != "sample-1" {
				t.Errorf("unexpected entity id: %s", entityId)
			}
			return []domain.Relation{
				{Id: "r1", SourceId: "sample-1", TargetId: "sample-2", Type: domain.DerivedFrom},
				{Id: "r2", SourceId: "sample-3", TargetId: "sample-1", Type: domain.SubsampleOf},
			}, nil
		}

		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/entities/sample/sample-1/relations/")
		c.SetParamNames("kind", "entityId")
		c.SetParamValues("sample", "sample-1")

		if err := handlers.ListRelationsHandler(dbLinkage, "entityId")(c); err != nil {
			t.Fatalf("handler failed: %v", err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("status code: got %d, want %d", resp.Code, http.StatusOK)
		}

		payload := []apirel.Detail{}
		if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if len(payload) != 2 {
			t.Errorf("unexpected response: %+v", payload)
		}
	})
}
