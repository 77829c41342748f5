package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-allocation/internal/handler"
)

// RegisterTenancy registers organization and branch routes.  Their listings
// go through the response cache; writes on them drop the caller's cached
// entries.
func RegisterTenancy(g *echo.Group, h *handler.Handler, cache echo.MiddlewareFunc) {
	g.POST("/organizations", h.CreateOrganization, cache)
	g.GET("/organizations", h.ListOrganizations, cache)

	g.POST("/organizations/:orgId/branches", h.CreateBranch, cache)
	g.GET("/organizations/:orgId/branches", h.ListBranches, cache)
}
