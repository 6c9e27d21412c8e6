package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apient "github.com/atol-canopy/canopy/pkg/api/types/entities"
	apierr "github.com/atol-canopy/canopy/pkg/api/types/errors"
	"github.com/atol-canopy/canopy/pkg/domain"
	kdb "github.com/atol-canopy/canopy/pkg/domain/entity/db"
	domerr "github.com/atol-canopy/canopy/pkg/domain/errors"
	"github.com/atol-canopy/canopy/pkg/domain/reconcile"
	"github.com/atol-canopy/canopy/pkg/utils/slices"
)

// paramToKind reads and validates the :kind path parameter.
func paramToKind(c echo.Context) (domain.EntityKind, error) {
	kind := domain.EntityKind(c.Param("kind"))
	if _, ok := domain.Spec(kind); !ok {
		return "", apierr.BadRequest("unknown entity kind: "+string(kind), domain.ErrUnknownKind)
	}
	return kind, nil
}

func FindEntityHandler(dbEntity kdb.EntityInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		kind, err := paramToKind(c)
		if err != nil {
			return err
		}

		offset, err := queryParamToInt(c, "offset", 0)
		if err != nil {
			return apierr.BadRequest("offset should be a non-negative integer", err)
		}
		limit, err := queryParamToInt(c, "limit", 0)
		if err != nil {
			return apierr.BadRequest("limit should be a non-negative integer", err)
		}

		filter := domain.RecordFilter{
			Kind:             kind,
			NaturalKey:       c.QueryParam("naturalKey"),
			LinkedTo:         c.QueryParam("linkedTo"),
			SubmissionStatus: domain.SubmissionStatus(c.QueryParam("submissionStatus")),
			Offset:           offset,
			Limit:            limit,
		}

		records, err := dbEntity.Find(ctx, filter)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, slices.Map(records, apient.ComposeDetail))
	}
}

func GetEntityHandler(dbEntity kdb.EntityInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		kind, err := paramToKind(c)
		if err != nil {
			return err
		}

		r, err := dbEntity.Get(ctx, kind, c.Param(paramKey))
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apient.ComposeDetail(r))
	}
}

func UpdateEntityHandler(dbEntity kdb.EntityInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		kind, err := paramToKind(c)
		if err != nil {
			return err
		}

		req := apient.UpdateRequest{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			return apierr.BadRequest("malformed patch", err)
		}

		r, err := dbEntity.Get(ctx, kind, c.Param(paramKey))
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		if req.Accession != nil {
			r.Accession = *req.Accession
		}
		if req.Source != nil {
			r.Source = *req.Source
		}
		if req.Notes != nil {
			r.Notes = *req.Notes
		}
		if req.Priority != nil {
			r.Priority = *req.Priority
		}

		updated, err := dbEntity.Update(ctx, r)
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apient.ComposeDetail(updated))
	}
}

func DeleteEntityHandler(dbEntity kdb.EntityInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		kind, err := paramToKind(c)
		if err != nil {
			return err
		}

		if err := dbEntity.Delete(ctx, kind, c.Param(paramKey)); err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// IngestRequest is the body of a single-record ingest.
type IngestRequest struct {
	Record domain.Payload `json:"record"`

	// when present, a submission draft is staged together with the
	// record, in the same transaction
	Draft *struct {
		Submission domain.Payload `json:"submission,omitempty"`
		Internal   domain.Payload `json:"internal,omitempty"`
	} `json:"draft,omitempty"`
}

func IngestEntityHandler(svc reconcile.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		kind, err := paramToKind(c)
		if err != nil {
			return err
		}
		spec, _ := domain.Spec(kind)

		req := IngestRequest{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			return apierr.BadRequest("malformed record", err)
		}

		naturalKey, _ := req.Record[spec.NaturalKeyField].(string)
		if naturalKey == "" {
			return apierr.BadRequest(
				"record should carry its natural key in field "+spec.NaturalKeyField, nil,
			)
		}

		var draft *domain.DraftSeed
		if req.Draft != nil {
			draft = &domain.DraftSeed{
				Submission: req.Draft.Submission,
				Internal:   req.Draft.Internal,
			}
		}

		result, err := svc.Ingest(ctx, kind, naturalKey, req.Record, draft)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrMissingField):
				return apierr.BadRequest("record lacks a mandatory field", err)
			case errors.Is(err, domain.ErrMissingLink):
				return apierr.BadRequest("a required linked record does not exist", err)
			}
			return apierr.InternalServerError(err)
		}

		status := http.StatusOK
		if result.Created {
			status = http.StatusCreated
		}
		return c.JSON(status, apient.IngestResult{
			Record:  apient.ComposeDetail(result.Record),
			Created: result.Created,
		})
	}
}

func BulkIngestHandler(svc reconcile.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		kind, err := paramToKind(c)
		if err != nil {
			return err
		}
		spec, _ := domain.Spec(kind)

		req := apient.BulkRequest{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			return apierr.BadRequest("malformed batch", err)
		}

		batch := map[string]domain.Payload{}
		duplicates := 0
		for _, record := range req.Records {
			naturalKey, _ := record[spec.NaturalKeyField].(string)
			if naturalKey == "" {
				return apierr.BadRequest(
					"every record should carry its natural key in field "+spec.NaturalKeyField, nil,
				)
			}
			if _, taken := batch[naturalKey]; taken {
				// first occurrence wins; later duplicates are skip-existing
				duplicates += 1
				continue
			}
			batch[naturalKey] = record
		}

		result, err := svc.BulkIngest(ctx, kind, batch)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		skipped := result.Skipped + duplicates
		return c.JSON(http.StatusOK, apient.BulkResult{
			Created: result.Created,
			Skipped: skipped,
			Message: fmt.Sprintf(
				"%d records processed: %d created, %d skipped",
				len(req.Records), result.Created, skipped,
			),
		})
	}
}
