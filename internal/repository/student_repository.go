package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/seat-allocation/internal/model"
)

const studentColumns = `e.id, e.branch_id, e.name, e.phone, e.status, e.created_at`

func scanStudent(s *model.Student, phone *sql.NullString) []any {
	return []any{&s.ID, &s.BranchID, &s.Name, phone, &s.Status, &s.CreatedAt}
}

// CreateStudent inserts a student.
func (q *queries) CreateStudent(ctx context.Context, s *model.Student) error {
	const stmt = `INSERT INTO students (id, branch_id, name, phone, status, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := q.db.ExecContext(ctx, stmt, s.ID, s.BranchID, s.Name, nullString(s.Phone), s.Status, s.CreatedAt)
	return mapMySQLError(err)
}

// GetStudent fetches a student by id.  Inside a transaction the row is read
// FOR SHARE so a concurrent status change waits for the transaction to end
// and the status seen here stays valid until commit.
func (q *queries) GetStudent(ctx context.Context, id string) (*model.Student, error) {
	stmt := `SELECT ` + studentColumns + ` FROM students e WHERE e.id = ?` + q.lock("FOR SHARE")
	var (
		s     model.Student
		phone sql.NullString
	)
	if err := q.db.QueryRowContext(ctx, stmt, id).Scan(scanStudent(&s, &phone)...); err != nil {
		return nil, mapMySQLError(err)
	}
	s.Phone = stringPtr(phone)
	return &s, nil
}

// GetStudentWithBranch loads a student with its branch and organization.
func (q *queries) GetStudentWithBranch(ctx context.Context, id string) (*model.Student, error) {
	stmt := `SELECT ` + studentColumns + `, ` + scopeColumns + `
	         FROM students e ` + scopeJoin + `
	         WHERE e.id = ?` + q.lock("FOR UPDATE OF e")
	var (
		s     model.Student
		phone sql.NullString
		b     model.Branch
		o     model.Organization
	)
	dest := append(scanStudent(&s, &phone), scanScope(&b, &o)...)
	if err := q.db.QueryRowContext(ctx, stmt, id).Scan(dest...); err != nil {
		return nil, mapMySQLError(err)
	}
	s.Phone = stringPtr(phone)
	b.Organization = &o
	s.Branch = &b
	return &s, nil
}

// ListStudentsByBranch returns the students of a branch ordered by name.
func (q *queries) ListStudentsByBranch(ctx context.Context, branchID string) ([]*model.Student, error) {
	const stmt = `SELECT ` + studentColumns + ` FROM students e WHERE e.branch_id = ? ORDER BY e.name`
	rows, err := q.db.QueryContext(ctx, stmt, branchID)
	if err != nil {
		return nil, mapMySQLError(err)
	}
	defer rows.Close()

	out := []*model.Student{}
	for rows.Next() {
		s := new(model.Student)
		var phone sql.NullString
		if err := rows.Scan(scanStudent(s, &phone)...); err != nil {
			return nil, err
		}
		s.Phone = stringPtr(phone)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStudentStatus changes a student's status.  It returns ErrNotFound
// when no row matches.
func (q *queries) UpdateStudentStatus(ctx context.Context, id string, status model.StudentStatus) error {
	const stmt = `UPDATE students SET status = ? WHERE id = ?`
	res, err := q.db.ExecContext(ctx, stmt, status, id)
	if err != nil {
		return mapMySQLError(err)
	}
	// MySQL reports matched-but-unchanged rows as 0 affected unless the DSN
	// sets clientFoundRows, which database.Open does.
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
