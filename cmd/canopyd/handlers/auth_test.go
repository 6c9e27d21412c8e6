package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/atol-canopy/canopy/cmd/canopyd/handlers"
	httptestutil "github.com/atol-canopy/canopy/internal/testutils/http"
	apiauth "github.com/atol-canopy/canopy/pkg/api/types/auth"
	"github.com/atol-canopy/canopy/pkg/domain"
	mocksession "github.com/atol-canopy/canopy/pkg/domain/session/mock"
)

func httpStatusOf(t *testing.T, err error) int {
	t.Helper()
	var herr *echo.HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("error is not *echo.HTTPError: %v", err)
	}
	return herr.Code
}

func TestLogin(t *testing.T) {
	t.Run("good credentials get a bearer token pair", func(t *testing.T) {
		svc := mocksession.New()
		svc.Impl.Authenticate = func(_ context.Context, username, password string) (domain.TokenPair, error) {
			if username != "alice" || password != "open sesame" {
				t.Errorf("unexpected credentials: %s / %s", username, password)
			}
			return domain.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
		}

		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/api/auth/login/",
			strings.NewReader(`{"username": "alice", "password": "open sesame"}`),
			httptestutil.ContentType("application/json"),
		)

		testee := handlers.LoginHandler(svc)
		if err := testee(c); err != nil {
			t.Fatalf("handler failed: %v", err)
		}

		if resp.Code != http.StatusOK {
			t.Errorf("status code: got %d, want %d", resp.Code, http.StatusOK)
		}

		payload := apiauth.TokenResponse{}
		if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		expected := apiauth.TokenResponse{
			AccessToken: "access", RefreshToken: "refresh", TokenType: "bearer",
		}
		if payload != expected {
			t.Errorf("response mismatch. (expected, actual) = (%+v, %+v)", expected, payload)
		}
	})

	t.Run("bad credentials get 401", func(t *testing.T) {
		svc := mocksession.New()
		svc.Impl.Authenticate = func(_ context.Context, _, _ string) (domain.TokenPair, error) {
			return domain.TokenPair{}, domain.ErrInvalidCredentials
		}

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/auth/login/",
			strings.NewReader(`{"username": "alice", "password": "wrong"}`),
			httptestutil.ContentType("application/json"),
		)

		err := handlers.LoginHandler(svc)(c)
		if status := httpStatusOf(t, err); status != http.StatusUnauthorized {
			t.Errorf("status code: got %d, want %d", status, http.StatusUnauthorized)
		}
	})

	t.Run("a disabled account gets 403", func(t *testing.T) {
		svc := mocksession.New()
		svc.Impl.Authenticate = func(_ context.Context, _, _ string) (domain.TokenPair, error) {
			return domain.TokenPair{}, domain.ErrAccountDisabled
		}

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/auth/login/",
			strings.NewReader(`{"username": "mallory", "password": "pw"}`),
			httptestutil.ContentType("application/json"),
		)

		err := handlers.LoginHandler(svc)(c)
		if status := httpStatusOf(t, err); status != http.StatusForbidden {
			t.Errorf("status code: got %d, want %d", status, http.StatusForbidden)
		}
	})

	t.Run("a broken body gets 400 without touching the service", func(t *testing.T) {
		svc := mocksession.New()

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/auth/login/",
			strings.NewReader(`{not json`),
			httptestutil.ContentType("application/json"),
		)

		err := handlers.LoginHandler(svc)(c)
		if status := httpStatusOf(t, err); status != http.StatusBadRequest {
			t.Errorf("status code: got %d, want %d", status, http.StatusBadRequest)
		}
		if svc.Calls.Authenticate.Times() != 0 {
			t.Error("Authenticate should not be called")
		}
	})
}

func TestRefresh(t *testing.T) {
	for name, testcase := range map[string]struct {
		err        error
		wantStatus int
	}{
		"an unknown token gets 401":      {domain.ErrTokenNotFound, http.StatusUnauthorized},
		"an expired token gets 401":      {domain.ErrTokenExpired, http.StatusUnauthorized},
		"a replayed token gets 401":      {domain.ErrTokenRevoked, http.StatusUnauthorized},
		"a disabled account gets 403":    {domain.ErrAccountDisabled, http.StatusForbidden},
		"an unexpected failure gets 500": {errors.New("connection lost"), http.StatusInternalServerError},
	} {
		t.Run(name, func(t *testing.T) {
			svc := mocksession.New()
			svc.Impl.Refresh = func(_ context.Context, _ string) (domain.TokenPair, error) {
				return domain.TokenPair{}, testcase.err
			}

			e := echo.New()
			c, _ := httptestutil.Post(
				e, "/api/auth/refresh/",
				strings.NewReader(`{"refreshToken": "some-token"}`),
				httptestutil.ContentType("application/json"),
			)

			err := handlers.RefreshHandler(svc)(c)
			if status := httpStatusOf(t, err); status != testcase.wantStatus {
				t.Errorf("status code: got %d, want %d", status, testcase.wantStatus)
			}
		})
	}

	t.Run("a good token gets a fresh pair", func(t *testing.T) {
		svc := mocksession.New()
		svc.Impl.Refresh = func(_ context.Context, presented string) (domain.TokenPair, error) {
			if presented != "old-refresh" {
				t.Errorf("unexpected token presented: %s", presented)
			}
			return domain.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		}

		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/api/auth/refresh/",
			strings.NewReader(`{"refreshToken": "old-refresh"}`),
			httptestutil.ContentType("application/json"),
		)

		if err := handlers.RefreshHandler(svc)(c); err != nil {
			t.Fatalf("handler failed: %v", err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("status code: got %d, want %d", resp.Code, http.StatusOK)
		}
	})
}

func TestAuthenticated(t *testing.T) {
	t.Run("a valid bearer token reaches the handler with claims set", func(t *testing.T) {
		svc := mocksession.New()
		svc.Impl.ValidateAccess = func(token string) (*domain.Claims, error) {
			if token != "good-token" {
				t.Errorf("unexpected token: %s", token)
			}
			return &domain.Claims{Subject: "user-1", Roles: []domain.Role{domain.RoleViewer}}, nil
		}

		e := echo.New()
		c, resp := httptestutil.Get(
			e, "/api/users/",
			httptestutil.WithHeader("Authorization", "Bearer good-token"),
		)

		invoked := false
		next := func(c echo.Context) error {
			invoked = true
			claims, ok := c.Get(handlers.ClaimsKey).(*domain.Claims)
			if !ok || claims.Subject != "user-1" {
				t.Errorf("claims are not stored in context: %+v", claims)
			}
			return c.NoContent(http.StatusOK)
		}

		if err := handlers.Authenticated(svc)(next)(c); err != nil {
			t.Fatalf("middleware failed: %v", err)
		}
		if !invoked {
			t.Error("next handler was not invoked")
		}
		if resp.Code != http.StatusOK {
			t.Errorf("status code: got %d, want %d", resp.Code, http.StatusOK)
		}
	})

	t.Run("a missing header gets 401 and the handler never runs", func(t *testing.T) {
		svc := mocksession.New()

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/users/")

		next := func(c echo.Context) error {
			t.Error("next handler should not be invoked")
			return nil
		}

		err := handlers.Authenticated(svc)(next)(c)
		if status := httpStatusOf(t, err); status != http.StatusUnauthorized {
			t.Errorf("status code: got %d, want %d", status, http.StatusUnauthorized)
		}
		if svc.Calls.ValidateAccess.Times() != 0 {
			t.Error("ValidateAccess should not be called")
		}
	})

	t.Run("an expired token gets 401", func(t *testing.T) {
		svc := mocksession.New()
		svc.Impl.ValidateAccess = func(string) (*domain.Claims, error) {
			return nil, domain.ErrTokenExpired
		}

		e := echo.New()
		c, _ := httptestutil.Get(
			e, "/api/users/",
			httptestutil.WithHeader("Authorization", "Bearer stale-token"),
		)

		next := func(c echo.Context) error {
			t.Error("next handler should not be invoked")
			return nil
		}

		err := handlers.Authenticated(svc)(next)(c)
		if status := httpStatusOf(t, err); status != http.StatusUnauthorized {
			t.Errorf("status code: got %d, want %d", status, http.StatusUnauthorized)
		}
	})
}

func TestHasAnyRole(t *testing.T) {
	run := func(t *testing.T, claims *domain.Claims, want int) {
		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/users/")
		if claims != nil {
			c.Set(handlers.ClaimsKey, claims)
		}

		next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
		err := handlers.HasAnyRole(domain.RoleAdmin)(next)(c)

		if want == http.StatusOK {
			if err != nil {
				t.Fatalf("middleware failed: %v", err)
			}
			if resp.Code != http.StatusOK {
				t.Errorf("status code: got %d, want %d", resp.Code, http.StatusOK)
			}
			return
		}
		if status := httpStatusOf(t, err); status != want {
			t.Errorf("status code: got %d, want %d", status, want)
		}
	}

	t.Run("the role passes", func(t *testing.T) {
		run(t, &domain.Claims{Subject: "u", Roles: []domain.Role{domain.RoleAdmin}}, http.StatusOK)
	})
	t.Run("a superuser passes without the role", func(t *testing.T) {
		run(t, &domain.Claims{Subject: "u", Superuser: true}, http.StatusOK)
	})
	t.Run("a missing role gets 403", func(t *testing.T) {
		run(t, &domain.Claims{Subject: "u", Roles: []domain.Role{domain.RoleViewer}}, http.StatusForbidden)
	})
	t.Run("no claims gets 401", func(t *testing.T) {
		run(t, nil, http.StatusUnauthorized)
	})
}

func TestLogout(t *testing.T) {
	t.Run("it revokes every token of the caller", func(t *testing.T) {
		svc := mocksession.New()
		svc.Impl.Revoke = func(_ context.Context, userId string) error {
			if userId != "user-1" {
				t.Errorf("unexpected user id: %s", userId)
			}
			return nil
		}

		e := echo.New()
		c, resp := httptestutil.Post(e, "/api/auth/logout/", nil)
		c.Set(handlers.ClaimsKey, &domain.Claims{Subject: "user-1"})

		if err := handlers.LogoutHandler(svc)(c); err != nil {
			t.Fatalf("handler failed: %v", err)
		}
		if resp.Code != http.StatusNoContent {
			t.Errorf("status code: got %d, want %d", resp.Code, http.StatusNoContent)
		}
		if svc.Calls.Revoke.Times() != 1 {
			t.Errorf("Revoke should be called once, called %d times", svc.Calls.Revoke.Times())
		}
	})
}
