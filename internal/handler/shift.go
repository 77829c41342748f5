package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-allocation/internal/service"
)

type createShiftRequest struct {
	Name      string  `json:"name" validate:"required,max=100"`
	StartTime *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"end_time" validate:"omitempty,datetime=15:04"`
}

// ListShifts handles GET /v1/branches/:branchId/shifts.  A branch listed for
// the first time gets its default shifts.
func (h *Handler) ListShifts(c echo.Context) error {
	shifts, err := h.Shifts.ListShifts(c.Request().Context(), principal(c), c.Param("branchId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, shifts)
}

// CreateShift handles POST /v1/branches/:branchId/shifts.
func (h *Handler) CreateShift(c echo.Context) error {
	var req createShiftRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in := service.ShiftInput{Name: req.Name, StartTime: req.StartTime, EndTime: req.EndTime}
	sh, err := h.Shifts.CreateShift(c.Request().Context(), principal(c), c.Param("branchId"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sh)
}
