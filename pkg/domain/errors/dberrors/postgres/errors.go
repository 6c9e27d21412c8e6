package postgres

import (
	"fmt"

	domerr "github.com/atol-canopy/canopy/pkg/domain/errors"
)

// requested record is missing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}
func (m Missing) Unwrap() error {
	return domerr.ErrMissing
}

// a record with the same identity already exists.
type Conflict struct {
	Table    string
	Identity string
}

var _ error = Conflict{}

func (c Conflict) Error() string {
	return fmt.Sprintf("%s already exists in %s", c.Identity, c.Table)
}

func (c Conflict) Unwrap() error {
	return domerr.ErrConflict
}
