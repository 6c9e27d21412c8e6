package domain

import (
	"fmt"
	"time"
)

// Role is one of the closed set of authorization roles.
type Role string

const (
	RoleViewer  Role = "viewer"
	RoleCurator Role = "curator"
	RoleAdmin   Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

// ParseRole maps a stored role string onto the closed role set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleViewer, RoleCurator, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

// User is an account which can authenticate against this service.
type User struct {
	Id             string
	Username       string
	Email          string
	HashedPassword string
	FullName       string
	Roles          []Role
	Active         bool
	Superuser      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasAnyRole reports whether the user holds at least one of the given
// roles. Superusers pass every check.
func (u *User) HasAnyRole(roles ...Role) bool {
	if u.Superuser {
		return true
	}
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
