package repository

import (
	"context"

	"github.com/iliyamo/seat-allocation/internal/model"
)

// CreateOrganization inserts a new organization.  The caller assigns ID and
// CreatedAt.
func (q *queries) CreateOrganization(ctx context.Context, o *model.Organization) error {
	const stmt = `INSERT INTO organizations (id, name, owner_id, created_at) VALUES (?, ?, ?, ?)`
	_, err := q.db.ExecContext(ctx, stmt, o.ID, o.Name, o.OwnerID, o.CreatedAt)
	return mapMySQLError(err)
}

// GetOrganization fetches an organization by id.
func (q *queries) GetOrganization(ctx context.Context, id string) (*model.Organization, error) {
	const stmt = `SELECT id, name, owner_id, created_at FROM organizations WHERE id = ?`
	var o model.Organization
	if err := q.db.QueryRowContext(ctx, stmt, id).Scan(&o.ID, &o.Name, &o.OwnerID, &o.CreatedAt); err != nil {
		return nil, mapMySQLError(err)
	}
	return &o, nil
}

// ListOrganizationsByOwner returns the organizations owned by ownerID,
// newest first, each with its branch count.
func (q *queries) ListOrganizationsByOwner(ctx context.Context, ownerID string) ([]*model.Organization, error) {
	const stmt = `SELECT o.id, o.name, o.owner_id, o.created_at, COUNT(b.id)
	              FROM organizations o
	              LEFT JOIN branches b ON b.organization_id = o.id
	              WHERE o.owner_id = ?
	              GROUP BY o.id, o.name, o.owner_id, o.created_at
	              ORDER BY o.created_at DESC`
	rows, err := q.db.QueryContext(ctx, stmt, ownerID)
	if err != nil {
		return nil, mapMySQLError(err)
	}
	defer rows.Close()

	out := []*model.Organization{}
	for rows.Next() {
		o := new(model.Organization)
		if err := rows.Scan(&o.ID, &o.Name, &o.OwnerID, &o.CreatedAt, &o.BranchCount); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
