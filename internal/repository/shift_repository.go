package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/seat-allocation/internal/model"
)

const shiftColumns = `e.id, e.branch_id, e.name, e.start_time, e.end_time, e.created_at`

func scanShift(s *model.Shift, start, end *sql.NullString) []any {
	return []any{&s.ID, &s.BranchID, &s.Name, start, end, &s.CreatedAt}
}

// CreateShift inserts a shift.  A second shift with the same name in the
// branch fails with ErrDuplicate.
func (q *queries) CreateShift(ctx context.Context, s *model.Shift) error {
	const stmt = `INSERT INTO shifts (id, branch_id, name, start_time, end_time, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := q.db.ExecContext(ctx, stmt, s.ID, s.BranchID, s.Name, nullString(s.StartTime), nullString(s.EndTime), s.CreatedAt)
	return mapMySQLError(err)
}

func (q *queries) getShift(ctx context.Context, where string, args ...any) (*model.Shift, error) {
	stmt := `SELECT ` + shiftColumns + ` FROM shifts e WHERE ` + where
	var (
		s          model.Shift
		start, end sql.NullString
	)
	if err := q.db.QueryRowContext(ctx, stmt, args...).Scan(scanShift(&s, &start, &end)...); err != nil {
		return nil, mapMySQLError(err)
	}
	s.StartTime, s.EndTime = stringPtr(start), stringPtr(end)
	return &s, nil
}

// GetShift fetches a shift by id.
func (q *queries) GetShift(ctx context.Context, id string) (*model.Shift, error) {
	return q.getShift(ctx, `e.id = ?`, id)
}

// GetShiftByName fetches the shift with the given name in a branch.
func (q *queries) GetShiftByName(ctx context.Context, branchID, name string) (*model.Shift, error) {
	return q.getShift(ctx, `e.branch_id = ? AND e.name = ?`, branchID, name)
}

// GetShiftWithBranch loads a shift with its branch and organization.
func (q *queries) GetShiftWithBranch(ctx context.Context, id string) (*model.Shift, error) {
	stmt := `SELECT ` + shiftColumns + `, ` + scopeColumns + `
	         FROM shifts e ` + scopeJoin + `
	         WHERE e.id = ?`
	var (
		s          model.Shift
		start, end sql.NullString
		b          model.Branch
		o          model.Organization
	)
	dest := append(scanShift(&s, &start, &end), scanScope(&b, &o)...)
	if err := q.db.QueryRowContext(ctx, stmt, id).Scan(dest...); err != nil {
		return nil, mapMySQLError(err)
	}
	s.StartTime, s.EndTime = stringPtr(start), stringPtr(end)
	b.Organization = &o
	s.Branch = &b
	return &s, nil
}

// ListShiftsByBranch returns the shifts of a branch ordered by name.
func (q *queries) ListShiftsByBranch(ctx context.Context, branchID string) ([]*model.Shift, error) {
	const stmt = `SELECT ` + shiftColumns + ` FROM shifts e WHERE e.branch_id = ? ORDER BY e.name`
	rows, err := q.db.QueryContext(ctx, stmt, branchID)
	if err != nil {
		return nil, mapMySQLError(err)
	}
	defer rows.Close()

	out := []*model.Shift{}
	for rows.Next() {
		s := new(model.Shift)
		var start, end sql.NullString
		if err := rows.Scan(scanShift(s, &start, &end)...); err != nil {
			return nil, err
		}
		s.StartTime, s.EndTime = stringPtr(start), stringPtr(end)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
