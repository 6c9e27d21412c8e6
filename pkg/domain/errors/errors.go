package errors

import "errors"

// requested record is missing in the store.
var ErrMissing = errors.New("missing")

// a record with the same identity already exists.
var ErrConflict = errors.New("conflict")
