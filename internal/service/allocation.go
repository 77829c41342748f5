package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/iliyamo/seat-allocation/internal/apperror"
	"github.com/iliyamo/seat-allocation/internal/logging"
	"github.com/iliyamo/seat-allocation/internal/metrics"
	"github.com/iliyamo/seat-allocation/internal/model"
	"github.com/iliyamo/seat-allocation/internal/queue"
	"github.com/iliyamo/seat-allocation/internal/repository"
)

// AllocationService assigns seats to students for a shift and releases them.
type AllocationService struct {
	base
	events queue.Publisher
}

// NewAllocationService returns an AllocationService.  A nil publisher
// disables events.
func NewAllocationService(store repository.Store, events queue.Publisher) *AllocationService {
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &AllocationService{base: newBase(store), events: events}
}

// Assign reserves seatID for studentID during shiftID.  Every check and the
// insert run in one transaction; the seat row is locked first so concurrent
// assigns of the same seat queue behind each other, and the active-slot
// unique key rejects whatever slips past the check.
func (s *AllocationService) Assign(ctx context.Context, principalID, seatID, studentID, shiftID string) (*model.SeatAllocation, error) {
	var (
		created  *model.SeatAllocation
		branchID string
	)
	err := s.store.WithTx(ctx, func(q repository.Queries) error {
		if principalID == "" {
			return apperror.Unauthorized("no principal supplied")
		}
		seat, err := q.GetSeatWithBranch(ctx, seatID)
		if err != nil {
			return lookupError(err, "seat")
		}
		student, err := q.GetStudent(ctx, studentID)
		if err != nil {
			return lookupError(err, "student")
		}
		shift, err := q.GetShift(ctx, shiftID)
		if err != nil {
			return lookupError(err, "shift")
		}

		if err := Authorize(principalID, seat.Branch.Chain(), "seat"); err != nil {
			return err
		}
		if student.BranchID != seat.BranchID || shift.BranchID != seat.BranchID {
			return apperror.InvalidState("seat, student and shift must belong to the same branch")
		}
		if student.Status != model.StudentActive {
			return apperror.InvalidState("only ACTIVE students can be assigned a seat")
		}

		_, err = q.FindActiveAllocation(ctx, seatID, shiftID)
		switch {
		case err == nil:
			return apperror.Conflict("seat already assigned in this shift")
		case !errors.Is(err, repository.ErrNotFound):
			return storeError(err, "could not check seat availability")
		}

		a := &model.SeatAllocation{
			ID:        s.newID(),
			SeatID:    seatID,
			StudentID: studentID,
			ShiftID:   shiftID,
			StartDate: s.now(),
		}
		if err := q.CreateAllocation(ctx, a); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.Conflict("seat already assigned in this shift")
			}
			return storeError(err, "could not create allocation")
		}
		created, branchID = a, seat.BranchID
		return nil
	})
	err = txError(err)
	metrics.ObserveAllocation("assign", err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.EventAssigned, branchID, created)
	return created, nil
}

// Release ends an active allocation.  The caller must own the allocation's
// seat.  Releasing an allocation that already has an end date fails with
// Conflict and leaves the stored end date untouched.
func (s *AllocationService) Release(ctx context.Context, principalID, allocationID string) (*model.SeatAllocation, error) {
	var (
		released *model.SeatAllocation
		branchID string
	)
	err := s.store.WithTx(ctx, func(q repository.Queries) error {
		if principalID == "" {
			return apperror.Unauthorized("no principal supplied")
		}
		a, err := q.GetAllocation(ctx, allocationID)
		if err != nil {
			return lookupError(err, "allocation")
		}
		seat, err := ResolveSeat(ctx, q, principalID, a.SeatID)
		if err != nil {
			return err
		}
		if !a.Active() {
			return apperror.Conflict("allocation already released")
		}

		end := s.now()
		if err := q.EndAllocation(ctx, a.ID, end); err != nil {
			return lookupError(err, "allocation")
		}
		a.EndDate = &end
		released, branchID = a, seat.BranchID
		return nil
	})
	err = txError(err)
	metrics.ObserveAllocation("release", err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.EventReleased, branchID, released)
	return released, nil
}

// List returns the allocations of seats in branchID, newest first.  It does
// not check ownership; callers establish branch scope first.
func (s *AllocationService) List(ctx context.Context, branchID string, f model.AllocationFilter) ([]*model.SeatAllocation, error) {
	out, err := s.store.ListAllocationsByBranch(ctx, branchID, f)
	if err != nil {
		return nil, apperror.Internal(err, "could not list allocations")
	}
	return out, nil
}

// ListForPrincipal resolves branch ownership and then lists.
func (s *AllocationService) ListForPrincipal(ctx context.Context, principalID, branchID string, f model.AllocationFilter) ([]*model.SeatAllocation, error) {
	if _, err := ResolveBranch(ctx, s.store, principalID, branchID); err != nil {
		return nil, err
	}
	return s.List(ctx, branchID, f)
}

// publish is best effort: the allocation is already committed.
func (s *AllocationService) publish(ctx context.Context, typ, branchID string, a *model.SeatAllocation) {
	ev := queue.NewAllocationEvent(typ, branchID, a, s.now())
	if err := s.events.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).WithError(err).
			WithField("allocation_id", a.ID).
			Warnf("publish %s failed", typ)
	}
}
