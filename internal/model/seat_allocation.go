package model

import "time"

// SeatAllocation reserves a seat for a student during a shift.  An
// allocation is active while EndDate is nil.  Allocations are never
// deleted; releasing one stamps EndDate and keeps the row as history.
//
// Fields:
//
//	ID        – opaque identifier.
//	SeatID    – reserved seat.
//	StudentID – student holding the seat.
//	ShiftID   – shift for which the seat is held.
//	StartDate – when the allocation was created.
//	EndDate   – when the allocation was released; nil while active.
type SeatAllocation struct {
	ID        string     `json:"id"`         // seat_allocations.id
	SeatID    string     `json:"seat_id"`    // seat_allocations.seat_id
	StudentID string     `json:"student_id"` // seat_allocations.student_id
	ShiftID   string     `json:"shift_id"`   // seat_allocations.shift_id
	StartDate time.Time  `json:"start_date"` // seat_allocations.start_date
	EndDate   *time.Time `json:"end_date"`   // seat_allocations.end_date (nullable)

	// Populated by branch listings.
	Seat    *Seat    `json:"seat,omitempty"`
	Student *Student `json:"student,omitempty"`
	Shift   *Shift   `json:"shift,omitempty"`
}

// Active reports whether the allocation currently occupies its seat.
func (a *SeatAllocation) Active() bool { return a.EndDate == nil }

// AllocationFilter narrows a branch allocation listing.  Empty ids match
// everything; ActiveOnly restricts the result to allocations with no end date.
type AllocationFilter struct {
	StudentID  string
	ShiftID    string
	ActiveOnly bool
}
