// Package handler contains the echo HTTP handlers.  Handlers bind and
// validate the request, call a service with the request's principal and
// render the result; failures are returned as errors and rendered by
// ErrorHandler.
package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-allocation/internal/apperror"
	"github.com/iliyamo/seat-allocation/internal/middleware"
	"github.com/iliyamo/seat-allocation/internal/service"
)

// Handler bundles the services the HTTP surface needs.
type Handler struct {
	Registrar   *service.Registrar
	Shifts      *service.ShiftService
	Allocations *service.AllocationService
}

// New constructs a Handler and panics if any dependency is nil.
func New(reg *service.Registrar, shifts *service.ShiftService, alloc *service.AllocationService) *Handler {
	if reg == nil || shifts == nil || alloc == nil {
		panic("nil service passed to handler.New")
	}
	return &Handler{Registrar: reg, Shifts: shifts, Allocations: alloc}
}

// principal returns the id set by the Principal middleware.
func principal(c echo.Context) string {
	return middleware.PrincipalID(c)
}

// bind decodes the request body into v and validates it.
func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return apperror.InvalidArgument("invalid request body")
	}
	return c.Validate(v)
}
