package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type createBranchRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CreateBranch handles POST /v1/organizations/:orgId/branches.
func (h *Handler) CreateBranch(c echo.Context) error {
	var req createBranchRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	b, err := h.Registrar.CreateBranch(c.Request().Context(), principal(c), c.Param("orgId"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, b)
}

// ListBranches handles GET /v1/organizations/:orgId/branches.
func (h *Handler) ListBranches(c echo.Context) error {
	branches, err := h.Registrar.ListBranches(c.Request().Context(), principal(c), c.Param("orgId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, branches)
}
