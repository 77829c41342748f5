// Package service holds the business rules of the seat-allocation domain:
// ownership resolution, the allocation engine, shift provisioning and plain
// resource registration.  Services return *apperror.Error values; the HTTP
// layer maps their kinds to status codes.
package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/iliyamo/seat-allocation/internal/apperror"
	"github.com/iliyamo/seat-allocation/internal/repository"
)

// base carries what every service needs besides its store.
type base struct {
	store repository.Store
	now   func() time.Time
	newID func() string
}

func newBase(store repository.Store) base {
	return base{
		store: store,
		// DATETIME(3) columns keep milliseconds.
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID: uuid.NewString,
	}
}

// lookupError turns a repository lookup failure into an apperror.
func lookupError(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("%s not found", what)
	}
	return storeError(err, "could not load "+what)
}

// storeError reports an unexpected storage failure.  A transaction the
// database aborted is a conflict the caller may retry.
func storeError(err error, msg string) error {
	if errors.Is(err, repository.ErrTxAborted) {
		return apperror.Conflict("concurrent update, please retry")
	}
	return apperror.Internal(err, msg)
}

// txError normalizes the error returned by Store.WithTx.  Errors raised by
// the unit of work are already apperrors; a deadlock or lock wait timeout
// surfaces as a conflict the caller may retry.
func txError(err error) error {
	if err == nil {
		return nil
	}
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return ae
	}
	return storeError(err, "transaction failed")
}

func requireName(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperror.InvalidArgument("%s is required", field)
	}
	return v, nil
}
