package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type createOrganizationRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CreateOrganization handles POST /v1/organizations.  The caller becomes the
// owner.
func (h *Handler) CreateOrganization(c echo.Context) error {
	var req createOrganizationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	org, err := h.Registrar.CreateOrganization(c.Request().Context(), principal(c), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, org)
}

// ListOrganizations handles GET /v1/organizations.
func (h *Handler) ListOrganizations(c echo.Context) error {
	orgs, err := h.Registrar.ListOrganizations(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orgs)
}
