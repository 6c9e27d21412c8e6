package auth

import (
	"github.com/atol-canopy/canopy/pkg/domain"
	"github.com/atol-canopy/canopy/pkg/utils/rfctime"
	"github.com/atol-canopy/canopy/pkg/utils/slices"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
}

func ComposeTokenResponse(pair domain.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	}
}

type UserDetail struct {
	Id        string          `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FullName  string          `json:"fullName,omitempty"`
	Roles     []string        `json:"roles"`
	Active    bool            `json:"active"`
	Superuser bool            `json:"superuser"`
	CreatedAt rfctime.RFC3339 `json:"createdAt"`
	UpdatedAt rfctime.RFC3339 `json:"updatedAt"`
}

func (u *UserDetail) Equal(o *UserDetail) bool {
	if (u == nil) || (o == nil) {
		return (u == nil) && (o == nil)
	}
	return u.Id == o.Id &&
		u.Username == o.Username &&
		u.Email == o.Email
}

func ComposeUserDetail(u domain.User) UserDetail {
	return UserDetail{
		Id:        u.Id,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Roles:     slices.Map(u.Roles, domain.Role.String),
		Active:    u.Active,
		Superuser: u.Superuser,
		CreatedAt: rfctime.RFC3339(u.CreatedAt),
		UpdatedAt: rfctime.RFC3339(u.UpdatedAt),
	}
}

type CreateUserRequest struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FullName  string   `json:"fullName,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Superuser bool     `json:"superuser,omitempty"`
}

// UpdateUserRequest patches a user. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Email    *string   `json:"email,omitempty"`
	Password *string   `json:"password,omitempty"`
	FullName *string   `json:"fullName,omitempty"`
	Roles    *[]string `json:"roles,omitempty"`
	Active   *bool     `json:"active,omitempty"`
}
