package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-allocation/internal/handler"
)

// RegisterSeating registers the branch-scoped seat, student and shift routes.
func RegisterSeating(g *echo.Group, h *handler.Handler) {
	// ---- Seats ----
	g.POST("/branches/:branchId/seats", h.CreateSeat)
	g.GET("/branches/:branchId/seats", h.ListSeats)

	// ---- Students ----
	g.POST("/branches/:branchId/students", h.CreateStudent)
	g.GET("/branches/:branchId/students", h.ListStudents)
	g.PATCH("/students/:studentId/status", h.UpdateStudentStatus)

	// ---- Shifts ----
	g.POST("/branches/:branchId/shifts", h.CreateShift)
	g.GET("/branches/:branchId/shifts", h.ListShifts) // seeds default shifts
}
