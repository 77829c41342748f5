package model

import "time"

// StudentStatus describes whether a student may hold a seat.
type StudentStatus string

const (
	StudentActive   StudentStatus = "ACTIVE"
	StudentInactive StudentStatus = "INACTIVE"
)

// Valid reports whether s is one of the known statuses.
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentActive, StudentInactive:
		return true
	}
	return false
}

// Student is a person registered at a branch.  Students are created ACTIVE;
// only ACTIVE students can be assigned a seat.
type Student struct {
	ID        string        `json:"id"`         // students.id
	BranchID  string        `json:"branch_id"`  // students.branch_id
	Name      string        `json:"name"`       // students.name
	Phone     *string       `json:"phone"`      // students.phone (nullable)
	Status    StudentStatus `json:"status"`     // students.status
	CreatedAt time.Time     `json:"created_at"` // students.created_at

	Branch *Branch `json:"-"` // loaded by scope lookups only
}
