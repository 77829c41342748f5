package model

import "time"

// Organization is the tenant root.  Every branch, seat, student and shift
// ultimately belongs to exactly one organization, and the organization's
// owner is the only principal allowed to act on anything beneath it.
//
// Fields:
//
//	ID          – opaque identifier.
//	Name        – display name.
//	OwnerID     – principal id of the owner; never changes after creation.
//	BranchCount – number of branches; always 0 on a freshly created organization.
//	CreatedAt   – creation timestamp.
type Organization struct {
	ID          string    `json:"id"`           // organizations.id
	Name        string    `json:"name"`         // organizations.name
	OwnerID     string    `json:"owner_id"`     // organizations.owner_id
	BranchCount int       `json:"branch_count"` // COUNT(branches.id)
	CreatedAt   time.Time `json:"created_at"`   // organizations.created_at
}
