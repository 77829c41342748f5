package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-allocation/internal/model"
)

type createStudentRequest struct {
	Name  string  `json:"name" validate:"required,max=200"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
}

type updateStudentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

// CreateStudent handles POST /v1/branches/:branchId/students.  New students
// are ACTIVE.
func (h *Handler) CreateStudent(c echo.Context) error {
	var req createStudentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	st, err := h.Registrar.CreateStudent(c.Request().Context(), principal(c), c.Param("branchId"), req.Name, req.Phone)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, st)
}

// ListStudents handles GET /v1/branches/:branchId/students.
func (h *Handler) ListStudents(c echo.Context) error {
	students, err := h.Registrar.ListStudents(c.Request().Context(), principal(c), c.Param("branchId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, students)
}

// UpdateStudentStatus handles PATCH /v1/students/:studentId/status.
func (h *Handler) UpdateStudentStatus(c echo.Context) error {
	var req updateStudentStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	st, err := h.Registrar.UpdateStudentStatus(c.Request().Context(), principal(c), c.Param("studentId"), model.StudentStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}
