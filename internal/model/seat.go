package model

import "time"

// Seat is a physical seat in a branch.  Labels are unique within a branch.
//
// Fields:
//
//	ID        – opaque identifier.
//	BranchID  – branch to which the seat belongs.
//	Label     – human readable label such as "A1".
//	CreatedAt – creation timestamp.
type Seat struct {
	ID        string    `json:"id"`         // seats.id
	BranchID  string    `json:"branch_id"`  // seats.branch_id
	Label     string    `json:"label"`      // seats.label
	CreatedAt time.Time `json:"created_at"` // seats.created_at

	Branch *Branch `json:"-"` // loaded by scope lookups only
}
