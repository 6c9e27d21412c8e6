package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/atol-canopy/canopy/pkg/api/types/errors"
	apirel "github.com/atol-canopy/canopy/pkg/api/types/relations"
	"github.com/atol-canopy/canopy/pkg/domain"
	domerr "github.com/atol-canopy/canopy/pkg/domain/errors"
	kdb "github.com/atol-canopy/canopy/pkg/domain/linkage/db"
	"github.com/atol-canopy/canopy/pkg/utils/slices"
)

func AddRelationHandler(dbLinkage kdb.LinkageInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		req := apirel.AddRequest{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			return apierr.BadRequest("malformed relation", err)
		}
		if req.SourceId == "" || req.TargetId == "" || req.Relation == "" {
			return apierr.BadRequest("sourceId, targetId and relation are required", nil)
		}

		created, err := dbLinkage.AddRelation(
			ctx, req.SourceId, req.TargetId, domain.RelationType(req.Relation),
		)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrCyclicRelation):
				return apierr.Conflict(
					"the relation would close a cycle in the sample graph",
					apierr.WithError(err),
				)
			case errors.Is(err, domerr.ErrConflict):
				return apierr.Conflict("the relation exists already", apierr.WithError(err))
			case errors.Is(err, domerr.ErrMissing):
				return apierr.BadRequest("source or target does not exist", err)
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusCreated, apirel.ComposeDetail(created))
	}
}

func DeleteRelationHandler(dbLinkage kdb.LinkageInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if err := dbLinkage.DeleteRelation(ctx, c.Param(paramKey)); err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func ListRelationsHandler(dbLinkage kdb.LinkageInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		relations, err := dbLinkage.Relations(ctx, c.Param(paramKey))
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, slices.Map(relations, apirel.ComposeDetail))
	}
}
