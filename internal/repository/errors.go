// Package repository defines the persistence contract used by the service
// layer together with its MySQL implementation.  The sentinel values below
// are the only errors higher layers need to recognise; everything else is
// an unexpected storage failure.
package repository

import "github.com/pkg/errors"

// ErrNotFound is returned when a lookup by id yields no row, or when an
// insert references a parent row that does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique key, e.g. a
// second seat with the same label in a branch or a second active
// allocation for the same seat and shift.
var ErrDuplicate = errors.New("duplicate")

// ErrTxAborted is returned when the database aborted the transaction
// because of a deadlock or lock wait timeout.  Callers may retry.
var ErrTxAborted = errors.New("transaction aborted")
