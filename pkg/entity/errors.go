package entity

import "errors"

// ErrForbidden is returned when a protected entity does not exist under the
// caller's owner filter. An existing entity owned by someone else and a
// nonexistent id are indistinguishable, so non-owners learn nothing.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound is returned when an unprotected entity is absent.
var ErrNotFound = errors.New("not found")
