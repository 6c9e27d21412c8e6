package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/atol-canopy/canopy/pkg/api/types/errors"
	apistaging "github.com/atol-canopy/canopy/pkg/api/types/staging"
	"github.com/atol-canopy/canopy/pkg/domain"
	domerr "github.com/atol-canopy/canopy/pkg/domain/errors"
	"github.com/atol-canopy/canopy/pkg/domain/reconcile"
	kdb "github.com/atol-canopy/canopy/pkg/domain/staging/db"
	"github.com/atol-canopy/canopy/pkg/utils/slices"
)

func CreateDraftHandler(svc reconcile.Interface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		entityId := c.Param(paramKey)

		req := apistaging.CreateDraftRequest{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			return apierr.BadRequest("malformed draft", err)
		}

		created, err := svc.PrepareSubmission(ctx, entityId, domain.DraftSeed{
			Submission: req.Submission,
			Internal:   req.Internal,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrPendingDraft):
				return apierr.Conflict(
					"a pending draft already exists for this entity",
					apierr.WithError(err),
				)
			case errors.Is(err, domerr.ErrMissing):
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusCreated, apistaging.ComposeDetail(created))
	}
}

func GetSubmittedHandler(dbStaging kdb.StagingInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		r, err := dbStaging.Get(ctx, c.Param(paramKey))
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apistaging.ComposeDetail(r))
	}
}

func TransitionHandler(dbStaging kdb.StagingInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		req := apistaging.TransitionRequest{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			return apierr.BadRequest("malformed transition", err)
		}

		to := domain.SubmissionStatus(req.Status)
		switch to {
		case domain.StatusDraft, domain.StatusReady,
			domain.StatusSubmitted, domain.StatusRejected:
		default:
			return apierr.BadRequest("unknown status: "+req.Status, nil)
		}

		moved, err := dbStaging.Transition(ctx, c.Param(paramKey), to)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidTransition):
				return apierr.Conflict(
					"the submission cannot change to that status",
					apierr.WithError(err),
				)
			case errors.Is(err, domerr.ErrMissing):
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apistaging.ComposeDetail(moved))
	}
}

func ActiveDraftHandler(dbStaging kdb.StagingInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		r, err := dbStaging.ActiveDraft(ctx, c.Param(paramKey))
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apistaging.ComposeDetail(r))
	}
}

func ListSubmittedHandler(dbStaging kdb.StagingInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		kind := domain.EntityKind(c.QueryParam("kind"))
		if kind != "" {
			if _, ok := domain.Spec(kind); !ok {
				return apierr.BadRequest("unknown entity kind: "+string(kind), domain.ErrUnknownKind)
			}
		}

		status := domain.SubmissionStatus(c.QueryParam("status"))
		switch status {
		case "", domain.StatusDraft, domain.StatusReady,
			domain.StatusSubmitted, domain.StatusRejected:
		default:
			return apierr.BadRequest("unknown status: "+status.String(), nil)
		}

		records, err := dbStaging.List(ctx, kind, status)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, slices.Map(records, apistaging.ComposeDetail))
	}
}

func SubmissionPayloadHandler(svc reconcile.Interface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		payload, err := svc.SubmissionPayload(ctx, c.Param(paramKey))
		if err != nil {
			if errors.Is(err, domain.ErrNoSubmissionPayload) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, payload)
	}
}
