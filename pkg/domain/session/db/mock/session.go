package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/atol-canopy/canopy/pkg/domain"
	dbmock "github.com/atol-canopy/canopy/pkg/domain/internal/db/mock"
	kdbsession "github.com/atol-canopy/canopy/pkg/domain/session/db"
)

type SessionInterface struct {
	Impl struct {
		GetUser           func(context.Context, string) (domain.User, error)
		GetUserByUsername func(context.Context, string) (domain.User, error)
		ListUsers         func(context.Context, int, int) ([]domain.User, error)
		CreateUser        func(context.Context, domain.User) (domain.User, error)
		UpdateUser        func(context.Context, domain.User) (domain.User, error)
		DeleteUser        func(context.Context, string) error
		NewToken          func(context.Context, string, string, time.Time) (domain.RefreshToken, error)
		Rotate            func(context.Context, string, string, time.Time) (domain.User, error)
		RevokeAll         func(context.Context, string) error
	}
	Calls struct {
		GetUser           dbmock.CallLog[struct{ UserId string }]
		GetUserByUsername dbmock.CallLog[struct{ Username string }]
		ListUsers         dbmock.CallLog[struct{ Offset, Limit int }]
		CreateUser        dbmock.CallLog[domain.User]
		UpdateUser        dbmock.CallLog[domain.User]
		DeleteUser        dbmock.CallLog[struct{ UserId string }]
		NewToken          dbmock.CallLog[struct {
			UserId    string
			TokenHash string
			ExpiresAt time.Time
		}]
		Rotate dbmock.CallLog[struct {
			PresentedHash string
			NewHash       string
			NewExpiry     time.Time
		}]
		RevokeAll dbmock.CallLog[struct{ UserId string }]
	}
}

func NewSessionInterface() *SessionInterface {
	return &SessionInterface{}
}

var _ kdbsession.SessionInterface = &SessionInterface{}

func (si *SessionInterface) GetUser(ctx context.Context, userId string) (domain.User, error) {
	si.Calls.GetUser = append(si.Calls.GetUser, struct{ UserId string }{UserId: userId})
	if si.Impl.GetUser != nil {
		return si.Impl.GetUser(ctx, userId)
	}
	panic(errors.New("it should not be called"))
}

func (si *SessionInterface) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	si.Calls.GetUserByUsername = append(si.Calls.GetUserByUsername, struct{ Username string }{Username: username})
	if si.Impl.GetUserByUsername != nil {
		return si.Impl.GetUserByUsername(ctx, username)
	}
	panic(errors.New("it should not be called"))
}

func (si *SessionInterface) ListUsers(ctx context.Context, offset int, limit int) ([]domain.User, error) {
	si.Calls.ListUsers = append(si.Calls.ListUsers, struct{ Offset, Limit int }{Offset: offset, Limit: limit})
	if si.Impl.ListUsers != nil {
		return si.Impl.ListUsers(ctx, offset, limit)
	}
	panic(errors.New("it should not be called"))
}

func (si *SessionInterface) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	si.Calls.CreateUser = append(si.Calls.CreateUser, user)
	if si.Impl.CreateUser != nil {
		return si.Impl.CreateUser(ctx, user)
	}
	panic(errors.New("it should not be called"))
}

func (si *SessionInterface) UpdateUser(ctx context.Context, user domain.User) (domain.User, error) {
	si.Calls.UpdateUser = append(si.Calls.UpdateUser, user)
	if si.Impl.UpdateUser != nil {
		return si.Impl.UpdateUser(ctx, user)
	}
	panic(errors.New("it should not be called"))
}

func (si *SessionInterface) DeleteUser(ctx context.Context, userId string) error {
	si.Calls.DeleteUser = append(si.Calls.DeleteUser, struct{ UserId string }{UserId: userId})
	if si.Impl.DeleteUser != nil {
		return si.Impl.DeleteUser(ctx, userId)
	}
	panic(errors.New("it should not be called"))
}

func (si *SessionInterface) NewToken(ctx context.Context, userId string, tokenHash string, expiresAt time.Time) (domain.RefreshToken, error) {
	si.Calls.NewToken = append(si.Calls.NewToken, struct {
		UserId    string
		TokenHash string
		ExpiresAt time.Time
	}{
		UserId: userId, TokenHash: tokenHash, ExpiresAt: expiresAt,
	})
	if si.Impl.NewToken != nil {
		return si.Impl.NewToken(ctx, userId, tokenHash, expiresAt)
	}
	panic(errors.New("it should not be called"))
}

func (si *SessionInterface) Rotate(ctx context.Context, presentedHash string, newHash string, newExpiry time.Time) (domain.User, error) {
	si.Calls.Rotate = append(si.Calls.Rotate, struct {
		PresentedHash string
		NewHash       string
		NewExpiry     time.Time
	}{
		PresentedHash: presentedHash, NewHash: newHash, NewExpiry: newExpiry,
	})
	if si.Impl.Rotate != nil {
		return si.Impl.Rotate(ctx, presentedHash, newHash, newExpiry)
	}
	panic(errors.New("it should not be called"))
}

func (si *SessionInterface) RevokeAll(ctx context.Context, userId string) error {
	si.Calls.RevokeAll = append(si.Calls.RevokeAll, struct{ UserId string }{UserId: userId})
	if si.Impl.RevokeAll != nil {
		return si.Impl.RevokeAll(ctx, userId)
	}
	panic(errors.New("it should not be called"))
}
