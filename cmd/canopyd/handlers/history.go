package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/atol-canopy/canopy/pkg/api/types/errors"
	apihistory "github.com/atol-canopy/canopy/pkg/api/types/history"
	"github.com/atol-canopy/canopy/pkg/domain"
	domerr "github.com/atol-canopy/canopy/pkg/domain/errors"
	kdb "github.com/atol-canopy/canopy/pkg/domain/history/db"
	"github.com/atol-canopy/canopy/pkg/domain/reconcile"
	"github.com/atol-canopy/canopy/pkg/utils/slices"
)

func RecordFetchHandler(svc reconcile.Interface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		entityId := c.Param(paramKey)

		req := apihistory.RecordRequest{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			return apierr.BadRequest("malformed snapshot", err)
		}

		stored, err := svc.Synchronize(
			ctx, entityId, req.Raw, req.FetchedAt.Time(), req.Synced,
		)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrMissingTimestamp):
				return apierr.BadRequest("fetchedAt is required", err)
			case errors.Is(err, domerr.ErrMissing):
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusCreated, apihistory.ComposeSnapshot(stored))
	}
}

func HistoryHandler(dbHistory kdb.HistoryInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		offset, err := queryParamToInt(c, "offset", 0)
		if err != nil {
			return apierr.BadRequest("offset should be a non-negative integer", err)
		}
		limit, err := queryParamToInt(c, "limit", 0)
		if err != nil {
			return apierr.BadRequest("limit should be a non-negative integer", err)
		}

		records, err := dbHistory.History(ctx, c.Param(paramKey), offset, limit)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, slices.Map(records, apihistory.ComposeSnapshot))
	}
}
