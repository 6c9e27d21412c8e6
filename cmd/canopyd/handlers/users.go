package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apiauth "github.com/atol-canopy/canopy/pkg/api/types/auth"
	apierr "github.com/atol-canopy/canopy/pkg/api/types/errors"
	"github.com/atol-canopy/canopy/pkg/domain"
	domerr "github.com/atol-canopy/canopy/pkg/domain/errors"
	kdb "github.com/atol-canopy/canopy/pkg/domain/session/db"
	"github.com/atol-canopy/canopy/pkg/domain/session/password"
	"github.com/atol-canopy/canopy/pkg/utils/slices"
)

func ListUsersHandler(dbUser kdb.SessionInterface) echo.HandlerFunc {
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

		users, err := dbUser.ListUsers(ctx, offset, limit)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, slices.Map(users, apiauth.ComposeUserDetail))
	}
}

func GetUserHandler(dbUser kdb.SessionInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		u, err := dbUser.GetUser(ctx, c.Param(paramKey))
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiauth.ComposeUserDetail(u))
	}
}

func CreateUserHandler(dbUser kdb.SessionInterface, hasher password.Hasher) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		req := apiauth.CreateUserRequest{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			return apierr.BadRequest("malformed user", err)
		}
		if req.Username == "" || req.Email == "" || req.Password == "" {
			return apierr.BadRequest("username, email and password are required", nil)
		}

		roles, err := slices.MapUntilError(req.Roles, domain.ParseRole)
		if err != nil {
			return apierr.BadRequest("unknown role", err)
		}

		hashed, err := hasher.Hash(req.Password)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		created, err := dbUser.CreateUser(ctx, domain.User{
			Username:       req.Username,
			Email:          req.Email,
			HashedPassword: hashed,
			FullName:       req.FullName,
			Roles:          roles,
			Active:         true,
			Superuser:      req.Superuser,
		})
		if err != nil {
			if errors.Is(err, domerr.ErrConflict) {
				return apierr.Conflict("username or email is taken", apierr.WithError(err))
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusCreated, apiauth.ComposeUserDetail(created))
	}
}

func UpdateUserHandler(dbUser kdb.SessionInterface, hasher password.Hasher, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		userId := c.Param(paramKey)

		req := apiauth.UpdateUserRequest{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			return apierr.BadRequest("malformed user patch", err)
		}

		u, err := dbUser.GetUser(ctx, userId)
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.FullName != nil {
			u.FullName = *req.FullName
		}
		if req.Active != nil {
			u.Active = *req.Active
		}
		if req.Roles != nil {
			roles, err := slices.MapUntilError(*req.Roles, domain.ParseRole)
			if err != nil {
				return apierr.BadRequest("unknown role", err)
			}
			u.Roles = roles
		}
		if req.Password != nil {
			hashed, err := hasher.Hash(*req.Password)
			if err != nil {
				return apierr.InternalServerError(err)
			}
			u.HashedPassword = hashed
		}

		updated, err := dbUser.UpdateUser(ctx, u)
		if err != nil {
			switch {
			case errors.Is(err, domerr.ErrMissing):
				return apierr.NotFound()
			case errors.Is(err, domerr.ErrConflict):
				return apierr.Conflict("email is taken", apierr.WithError(err))
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiauth.ComposeUserDetail(updated))
	}
}

func DeleteUserHandler(dbUser kdb.SessionInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if err := dbUser.DeleteUser(ctx, c.Param(paramKey)); err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// queryParamToInt reads an optional non-negative integer query parameter.
func queryParamToInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New(name + " should be a non-negative integer")
	}
	return v, nil
}
