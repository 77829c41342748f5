package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-allocation/internal/apperror"
	"github.com/iliyamo/seat-allocation/internal/model"
)

// assignSeatRequest accepts seat_id or seatId (and likewise for the other
// ids) so both body spellings used by clients bind.
type assignSeatRequest struct {
	SeatID    string `json:"seat_id" validate:"required"`
	StudentID string `json:"student_id" validate:"required"`
	ShiftID   string `json:"shift_id" validate:"required"`
}

func (r *assignSeatRequest) UnmarshalJSON(b []byte) error {
	var raw struct {
		SeatID         string `json:"seat_id"`
		SeatIDCamel    string `json:"seatId"`
		StudentID      string `json:"student_id"`
		StudentIDCamel string `json:"studentId"`
		ShiftID        string `json:"shift_id"`
		ShiftIDCamel   string `json:"shiftId"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.SeatID = firstNonEmpty(raw.SeatID, raw.SeatIDCamel)
	r.StudentID = firstNonEmpty(raw.StudentID, raw.StudentIDCamel)
	r.ShiftID = firstNonEmpty(raw.ShiftID, raw.ShiftIDCamel)
	return nil
}

type releaseSeatRequest struct {
	Action string `json:"action"`
}

// AssignSeat handles POST /v1/seat-allocations and
// POST /v1/branches/:branchId/seat-allocations.  Ownership is resolved
// through the seat; a branch id in the path is not used for authorization.
func (h *Handler) AssignSeat(c echo.Context) error {
	var req assignSeatRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	a, err := h.Allocations.Assign(c.Request().Context(), principal(c), req.SeatID, req.StudentID, req.ShiftID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

// ReleaseSeat handles PUT /v1/seat-allocations/:allocationId.  The body is
// optional; when present its action must be RELEASE.
func (h *Handler) ReleaseSeat(c echo.Context) error {
	var req releaseSeatRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return apperror.InvalidArgument("invalid request body")
		}
	}
	if req.Action != "" && !strings.EqualFold(req.Action, "RELEASE") {
		return apperror.InvalidArgument("unsupported action %q", req.Action)
	}
	a, err := h.Allocations.Release(c.Request().Context(), principal(c), c.Param("allocationId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// ListAllocations handles GET /v1/branches/:branchId/seat-allocations with
// optional studentId, shiftId and activeOnly query parameters.  The
// snake_case spellings are accepted as well.
func (h *Handler) ListAllocations(c echo.Context) error {
	f := model.AllocationFilter{
		StudentID: firstNonEmpty(c.QueryParam("studentId"), c.QueryParam("student_id")),
		ShiftID:   firstNonEmpty(c.QueryParam("shiftId"), c.QueryParam("shift_id")),
	}
	if v := firstNonEmpty(c.QueryParam("activeOnly"), c.QueryParam("active_only")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return apperror.InvalidArgument("activeOnly must be true or false")
		}
		f.ActiveOnly = b
	}
	out, err := h.Allocations.ListForPrincipal(c.Request().Context(), principal(c), c.Param("branchId"), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
