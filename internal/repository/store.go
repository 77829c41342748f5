package repository

import (
	"context"
	"time"

	"github.com/iliyamo/seat-allocation/internal/model"
)

// Queries lists every read and write the services perform.  A Queries value
// obtained inside Store.WithTx runs all calls in one transaction; lookups of
// seats, students and allocations made there also take row locks so that a
// check and the write that depends on it cannot interleave with another
// transaction touching the same rows.
type Queries interface {
	CreateOrganization(ctx context.Context, o *model.Organization) error
	GetOrganization(ctx context.Context, id string) (*model.Organization, error)
	ListOrganizationsByOwner(ctx context.Context, ownerID string) ([]*model.Organization, error)

	CreateBranch(ctx context.Context, b *model.Branch) error
	GetBranchWithOrganization(ctx context.Context, id string) (*model.Branch, error)
	ListBranchesByOrganization(ctx context.Context, organizationID string) ([]*model.Branch, error)

	CreateSeat(ctx context.Context, s *model.Seat) error
	GetSeatWithBranch(ctx context.Context, id string) (*model.Seat, error)
	ListSeatsByBranch(ctx context.Context, branchID string) ([]*model.Seat, error)

	CreateStudent(ctx context.Context, s *model.Student) error
	GetStudent(ctx context.Context, id string) (*model.Student, error)
	GetStudentWithBranch(ctx context.Context, id string) (*model.Student, error)
	ListStudentsByBranch(ctx context.Context, branchID string) ([]*model.Student, error)
	UpdateStudentStatus(ctx context.Context, id string, status model.StudentStatus) error

	CreateShift(ctx context.Context, s *model.Shift) error
	GetShift(ctx context.Context, id string) (*model.Shift, error)
	GetShiftWithBranch(ctx context.Context, id string) (*model.Shift, error)
	GetShiftByName(ctx context.Context, branchID, name string) (*model.Shift, error)
	ListShiftsByBranch(ctx context.Context, branchID string) ([]*model.Shift, error)

	CreateAllocation(ctx context.Context, a *model.SeatAllocation) error
	GetAllocation(ctx context.Context, id string) (*model.SeatAllocation, error)
	FindActiveAllocation(ctx context.Context, seatID, shiftID string) (*model.SeatAllocation, error)
	EndAllocation(ctx context.Context, id string, at time.Time) error
	ListAllocationsByBranch(ctx context.Context, branchID string, f model.AllocationFilter) ([]*model.SeatAllocation, error)
}

// Store is a Queries bound to the database plus a way to run a unit of work
// atomically.  If fn returns an error the transaction is rolled back and the
// error is returned unchanged.
type Store interface {
	Queries
	WithTx(ctx context.Context, fn func(q Queries) error) error
}
