package model

import "time"

// Branch is a physical location of an organization.  Seats, students and
// shifts are scoped to a branch.
type Branch struct {
	ID             string    `json:"id"`              // branches.id
	OrganizationID string    `json:"organization_id"` // branches.organization_id
	Name           string    `json:"name"`            // branches.name
	CreatedAt      time.Time `json:"created_at"`      // branches.created_at

	// Organization is the owning organization when the branch was loaded
	// together with its parent; nil otherwise.
	Organization *Organization `json:"organization,omitempty"`
}

// Chain is the resolved ownership path of a branch-scoped entity:
// entity -> branch -> organization -> owner.
type Chain struct {
	BranchID       string
	OrganizationID string
	OwnerID        string
}

// Chain returns the ownership path of the branch.  It requires the
// organization to have been loaded alongside the branch.
func (b *Branch) Chain() Chain {
	c := Chain{BranchID: b.ID, OrganizationID: b.OrganizationID}
	if b.Organization != nil {
		c.OwnerID = b.Organization.OwnerID
	}
	return c
}
