package mocks

import (
	"context"
	"errors"

	"github.com/atol-canopy/canopy/pkg/domain"
	dbmock "github.com/atol-canopy/canopy/pkg/domain/internal/db/mock"
	"github.com/atol-canopy/canopy/pkg/domain/session"
	kdb "github.com/atol-canopy/canopy/pkg/domain/session/db"
)

type Session struct {
	DatabaseMock kdb.SessionInterface

	Impl struct {
		Authenticate   func(context.Context, string, string) (domain.TokenPair, error)
		Refresh        func(context.Context, string) (domain.TokenPair, error)
		Revoke         func(context.Context, string) error
		ValidateAccess func(string) (*domain.Claims, error)
	}
	Calls struct {
		Authenticate dbmock.CallLog[struct {
			Username string
			Password string
		}]
		Refresh        dbmock.CallLog[struct{ RefreshToken string }]
		Revoke         dbmock.CallLog[struct{ UserId string }]
		ValidateAccess dbmock.CallLog[struct{ AccessToken string }]
	}
}

func New() *Session {
	return &Session{}
}

var _ session.Interface = &Session{}

func (m *Session) Database() kdb.SessionInterface {
	return m.DatabaseMock
}

func (m *Session) Authenticate(ctx context.Context, username string, plainPassword string) (domain.TokenPair, error) {
	m.Calls.Authenticate = append(m.Calls.Authenticate, struct {
		Username string
		Password string
	}{Username: username, Password: plainPassword})
	if m.Impl.Authenticate != nil {
		return m.Impl.Authenticate(ctx, username, plainPassword)
	}
	panic(errors.New("it should not be called"))
}

func (m *Session) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	m.Calls.Refresh = append(m.Calls.Refresh, struct{ RefreshToken string }{RefreshToken: refreshToken})
	if m.Impl.Refresh != nil {
		return m.Impl.Refresh(ctx, refreshToken)
	}
	panic(errors.New("it should not be called"))
}

func (m *Session) Revoke(ctx context.Context, userId string) error {
	m.Calls.Revoke = append(m.Calls.Revoke, struct{ UserId string }{UserId: userId})
	if m.Impl.Revoke != nil {
		return m.Impl.Revoke(ctx, userId)
	}
	panic(errors.New("it should not be called"))
}

func (m *Session) ValidateAccess(accessToken string) (*domain.Claims, error) {
	m.Calls.ValidateAccess = append(m.Calls.ValidateAccess, struct{ AccessToken string }{AccessToken: accessToken})
	if m.Impl.ValidateAccess != nil {
		return m.Impl.ValidateAccess(accessToken)
	}
	panic(errors.New("it should not be called"))
}
