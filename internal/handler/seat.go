package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type createSeatRequest struct {
	Label string `json:"label" validate:"required,max=64"`
}

// CreateSeat handles POST /v1/branches/:branchId/seats.
func (h *Handler) CreateSeat(c echo.Context) error {
	var req createSeatRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	seat, err := h.Registrar.CreateSeat(c.Request().Context(), principal(c), c.Param("branchId"), req.Label)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, seat)
}

// ListSeats handles GET /v1/branches/:branchId/seats.
func (h *Handler) ListSeats(c echo.Context) error {
	seats, err := h.Registrar.ListSeats(c.Request().Context(), principal(c), c.Param("branchId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, seats)
}
