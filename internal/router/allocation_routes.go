package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-allocation/internal/handler"
)

// RegisterAllocations registers the seat allocation routes.  The
// branch-scoped POST is an alias of the top-level one: the branch in the
// path is informational and ownership is checked through the seat.
func RegisterAllocations(g *echo.Group, h *handler.Handler) {
	g.POST("/seat-allocations", h.AssignSeat)
	g.PUT("/seat-allocations/:allocationId", h.ReleaseSeat)

	g.POST("/branches/:branchId/seat-allocations", h.AssignSeat)
	g.GET("/branches/:branchId/seat-allocations", h.ListAllocations)
}
