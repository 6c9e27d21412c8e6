package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apiauth "github.com/atol-canopy/canopy/pkg/api/types/auth"
	apierr "github.com/atol-canopy/canopy/pkg/api/types/errors"
	"github.com/atol-canopy/canopy/pkg/domain"
	"github.com/atol-canopy/canopy/pkg/domain/session"
)

// context key under which the auth middleware stores verified claims.
const ClaimsKey = "canopy-claims"

func LoginHandler(svc session.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		req := apiauth.LoginRequest{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			return apierr.BadRequest("send username and password as JSON", err)
		}

		pair, err := svc.Authenticate(ctx, req.Username, req.Password)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidCredentials) {
				return apierr.Unauthorized("incorrect username or password", err)
			}
			if errors.Is(err, domain.ErrAccountDisabled) {
				return apierr.Forbidden("account is disabled")
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiauth.ComposeTokenResponse(pair))
	}
}

func RefreshHandler(svc session.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		req := apiauth.RefreshRequest{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			return apierr.BadRequest("send refreshToken as JSON", err)
		}

		pair, err := svc.Refresh(ctx, req.RefreshToken)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTokenRevoked):
				// replay of a rotated-away token. the whole family has
				// just been revoked; make the caller log in again.
				c.Logger().Warnf("refresh token replay detected: %s", err)
				return apierr.Unauthorized("token has been revoked", err)
			case errors.Is(err, domain.ErrTokenNotFound),
				errors.Is(err, domain.ErrTokenExpired):
				return apierr.Unauthorized("refresh token is not usable", err)
			case errors.Is(err, domain.ErrAccountDisabled):
				return apierr.Forbidden("account is disabled")
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiauth.ComposeTokenResponse(pair))
	}
}

func LogoutHandler(svc session.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		claims, ok := c.Get(ClaimsKey).(*domain.Claims)
		if !ok {
			return apierr.Unauthorized("log in first", nil)
		}

		if err := svc.Revoke(ctx, claims.Subject); err != nil {
			return apierr.InternalServerError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// Authenticated verifies the bearer token of each request and stores
// its claims in the request context.
func Authenticated(svc session.Interface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				return apierr.Unauthorized("send a bearer access token", nil)
			}

			claims, err := svc.ValidateAccess(token)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					return apierr.Unauthorized("access token is expired", err)
				}
				return apierr.Unauthorized("access token is invalid", err)
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// HasAnyRole rejects requests whose claims carry none of the given roles.
// Superusers always pass.
func HasAnyRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(ClaimsKey).(*domain.Claims)
			if !ok {
				return apierr.Unauthorized("log in first", nil)
			}
			if !claims.HasAnyRole(roles...) {
				return apierr.Forbidden("insufficient role")
			}
			return next(c)
		}
	}
}
