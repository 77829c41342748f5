package model

import "time"

// Shift is a named time window in a branch, e.g. "Morning" 06:00–12:00.
// Start and end are wall-clock HH:MM strings and may be absent.
type Shift struct {
	ID        string    `json:"id"`         // shifts.id
	BranchID  string    `json:"branch_id"`  // shifts.branch_id
	Name      string    `json:"name"`       // shifts.name
	StartTime *string   `json:"start_time"` // shifts.start_time (nullable)
	EndTime   *string   `json:"end_time"`   // shifts.end_time (nullable)
	CreatedAt time.Time `json:"created_at"` // shifts.created_at

	Branch *Branch `json:"-"` // loaded by scope lookups only
}
