package repository

import (
	"context"

	"github.com/iliyamo/seat-allocation/internal/model"
)

// CreateBranch inserts a branch.  A missing organization surfaces as
// ErrNotFound through the foreign key.
func (q *queries) CreateBranch(ctx context.Context, b *model.Branch) error {
	const stmt = `INSERT INTO branches (id, organization_id, name, created_at) VALUES (?, ?, ?, ?)`
	_, err := q.db.ExecContext(ctx, stmt, b.ID, b.OrganizationID, b.Name, b.CreatedAt)
	return mapMySQLError(err)
}

// GetBranchWithOrganization loads a branch and its organization in one read.
func (q *queries) GetBranchWithOrganization(ctx context.Context, id string) (*model.Branch, error) {
	const stmt = `SELECT b.id, b.organization_id, b.name, b.created_at,
	                     o.id, o.name, o.owner_id, o.created_at
	              FROM branches b
	              JOIN organizations o ON o.id = b.organization_id
	              WHERE b.id = ?`
	var (
		b model.Branch
		o model.Organization
	)
	err := q.db.QueryRowContext(ctx, stmt, id).Scan(
		&b.ID, &b.OrganizationID, &b.Name, &b.CreatedAt,
		&o.ID, &o.Name, &o.OwnerID, &o.CreatedAt,
	)
	if err != nil {
		return nil, mapMySQLError(err)
	}
	b.Organization = &o
	return &b, nil
}

// ListBranchesByOrganization returns the branches of an organization,
// newest first.
func (q *queries) ListBranchesByOrganization(ctx context.Context, organizationID string) ([]*model.Branch, error) {
	const stmt = `SELECT id, organization_id, name, created_at
	              FROM branches
	              WHERE organization_id = ?
	              ORDER BY created_at DESC`
	rows, err := q.db.QueryContext(ctx, stmt, organizationID)
	if err != nil {
		return nil, mapMySQLError(err)
	}
	defer rows.Close()

	out := []*model.Branch{}
	for rows.Next() {
		b := new(model.Branch)
		if err := rows.Scan(&b.ID, &b.OrganizationID, &b.Name, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
