package repository

import (
	"context"

	"github.com/iliyamo/seat-allocation/internal/model"
)

// scopeColumns are the branch and organization columns appended to every
// "WithBranch" lookup so the ownership chain is resolved in one read.
const scopeColumns = `b.id, b.organization_id, b.name, b.created_at,
	                     o.id, o.name, o.owner_id, o.created_at`

// scopeJoin joins an entity aliased as e to its branch and organization.
const scopeJoin = `JOIN branches b ON b.id = e.branch_id
	              JOIN organizations o ON o.id = b.organization_id`

// scanScope returns the destinations for scopeColumns.
func scanScope(b *model.Branch, o *model.Organization) []any {
	return []any{&b.ID, &b.OrganizationID, &b.Name, &b.CreatedAt, &o.ID, &o.Name, &o.OwnerID, &o.CreatedAt}
}

// CreateSeat inserts a seat.  A second seat with the same label in the
// branch fails with ErrDuplicate.
func (q *queries) CreateSeat(ctx context.Context, s *model.Seat) error {
	const stmt = `INSERT INTO seats (id, branch_id, label, created_at) VALUES (?, ?, ?, ?)`
	_, err := q.db.ExecContext(ctx, stmt, s.ID, s.BranchID, s.Label, s.CreatedAt)
	return mapMySQLError(err)
}

// GetSeatWithBranch loads a seat with its branch and organization.  Inside a
// transaction the seat row is locked FOR UPDATE, which serialises concurrent
// allocation writes on the same seat.
func (q *queries) GetSeatWithBranch(ctx context.Context, id string) (*model.Seat, error) {
	stmt := `SELECT e.id, e.branch_id, e.label, e.created_at, ` + scopeColumns + `
	         FROM seats e ` + scopeJoin + `
	         WHERE e.id = ?` + q.lock("FOR UPDATE OF e")
	var (
		s model.Seat
		b model.Branch
		o model.Organization
	)
	dest := append([]any{&s.ID, &s.BranchID, &s.Label, &s.CreatedAt}, scanScope(&b, &o)...)
	if err := q.db.QueryRowContext(ctx, stmt, id).Scan(dest...); err != nil {
		return nil, mapMySQLError(err)
	}
	b.Organization = &o
	s.Branch = &b
	return &s, nil
}

// ListSeatsByBranch returns the seats of a branch ordered by label.
func (q *queries) ListSeatsByBranch(ctx context.Context, branchID string) ([]*model.Seat, error) {
	const stmt = `SELECT id, branch_id, label, created_at
	              FROM seats
	              WHERE branch_id = ?
	              ORDER BY label`
	rows, err := q.db.QueryContext(ctx, stmt, branchID)
	if err != nil {
		return nil, mapMySQLError(err)
	}
	defer rows.Close()

	out := []*model.Seat{}
	for rows.Next() {
		s := new(model.Seat)
		if err := rows.Scan(&s.ID, &s.BranchID, &s.Label, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
