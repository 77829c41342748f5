package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/seat-allocation/internal/model"
)

// Seat allocations are append-only history.  A row is active while its
// end_date is NULL; the schema's generated active_slot column is 1 for
// active rows and NULL otherwise, and UNIQUE(seat_id, shift_id, active_slot)
// rejects a second active row for the same seat and shift.

const allocationColumns = `a.id, a.seat_id, a.student_id, a.shift_id, a.start_date, a.end_date`

func scanAllocation(a *model.SeatAllocation, end *sql.NullTime) []any {
	return []any{&a.ID, &a.SeatID, &a.StudentID, &a.ShiftID, &a.StartDate, end}
}

// CreateAllocation inserts an active allocation.  A concurrent insert for the
// same seat and shift that committed first makes this fail with
// ErrDuplicate.
func (q *queries) CreateAllocation(ctx context.Context, a *model.SeatAllocation) error {
	const stmt = `INSERT INTO seat_allocations (id, seat_id, student_id, shift_id, start_date, end_date)
	              VALUES (?, ?, ?, ?, ?, ?)`
	var end sql.NullTime
	if a.EndDate != nil {
		end = sql.NullTime{Time: *a.EndDate, Valid: true}
	}
	_, err := q.db.ExecContext(ctx, stmt, a.ID, a.SeatID, a.StudentID, a.ShiftID, a.StartDate, end)
	return mapMySQLError(err)
}

// GetAllocation fetches an allocation by id, locking it inside a
// transaction.
func (q *queries) GetAllocation(ctx context.Context, id string) (*model.SeatAllocation, error) {
	stmt := `SELECT ` + allocationColumns + ` FROM seat_allocations a WHERE a.id = ?` + q.lock("FOR UPDATE")
	var (
		a   model.SeatAllocation
		end sql.NullTime
	)
	if err := q.db.QueryRowContext(ctx, stmt, id).Scan(scanAllocation(&a, &end)...); err != nil {
		return nil, mapMySQLError(err)
	}
	a.EndDate = timePtr(end)
	return &a, nil
}

// FindActiveAllocation returns the active allocation of a seat in a shift,
// or ErrNotFound when the slot is free.
func (q *queries) FindActiveAllocation(ctx context.Context, seatID, shiftID string) (*model.SeatAllocation, error) {
	const stmt = `SELECT ` + allocationColumns + `
	              FROM seat_allocations a
	              WHERE a.seat_id = ? AND a.shift_id = ? AND a.end_date IS NULL
	              LIMIT 1`
	var (
		a   model.SeatAllocation
		end sql.NullTime
	)
	if err := q.db.QueryRowContext(ctx, stmt, seatID, shiftID).Scan(scanAllocation(&a, &end)...); err != nil {
		return nil, mapMySQLError(err)
	}
	a.EndDate = timePtr(end)
	return &a, nil
}

// EndAllocation stamps end_date on an allocation.
func (q *queries) EndAllocation(ctx context.Context, id string, at time.Time) error {
	const stmt = `UPDATE seat_allocations SET end_date = ? WHERE id = ?`
	res, err := q.db.ExecContext(ctx, stmt, at, id)
	if err != nil {
		return mapMySQLError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAllocationsByBranch returns allocations whose seat belongs to branchID,
// most recent first, joined with seat, student and shift details.
func (q *queries) ListAllocationsByBranch(ctx context.Context, branchID string, f model.AllocationFilter) ([]*model.SeatAllocation, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + allocationColumns + `,
	       s.label, st.name, st.phone, st.status, sh.name, sh.start_time, sh.end_time
	FROM seat_allocations a
	JOIN seats s ON s.id = a.seat_id
	JOIN students st ON st.id = a.student_id
	JOIN shifts sh ON sh.id = a.shift_id
	WHERE s.branch_id = ?`)
	args := []any{branchID}
	if f.StudentID != "" {
		sb.WriteString(` AND a.student_id = ?`)
		args = append(args, f.StudentID)
	}
	if f.ShiftID != "" {
		sb.WriteString(` AND a.shift_id = ?`)
		args = append(args, f.ShiftID)
	}
	if f.ActiveOnly {
		sb.WriteString(` AND a.end_date IS NULL`)
	}
	sb.WriteString(` ORDER BY a.start_date DESC`)

	rows, err := q.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, mapMySQLError(err)
	}
	defer rows.Close()

	out := []*model.SeatAllocation{}
	for rows.Next() {
		var (
			a                 = new(model.SeatAllocation)
			end               sql.NullTime
			seat              model.Seat
			student           model.Student
			shift             model.Shift
			phone, start, fin sql.NullString
		)
		dest := append(scanAllocation(a, &end),
			&seat.Label, &student.Name, &phone, &student.Status, &shift.Name, &start, &fin)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		a.EndDate = timePtr(end)
		seat.ID, seat.BranchID = a.SeatID, branchID
		student.ID, student.BranchID, student.Phone = a.StudentID, branchID, stringPtr(phone)
		shift.ID, shift.BranchID, shift.StartTime, shift.EndTime = a.ShiftID, branchID, stringPtr(start), stringPtr(fin)
		a.Seat, a.Student, a.Shift = &seat, &student, &shift
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
