package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/iliyamo/seat-allocation/internal/apperror"
	"github.com/iliyamo/seat-allocation/internal/logging"
	"github.com/iliyamo/seat-allocation/internal/metrics"
	"github.com/iliyamo/seat-allocation/internal/model"
	"github.com/iliyamo/seat-allocation/internal/repository"
)

type defaultShift struct {
	name       string
	start, end string
}

// Every branch gets these the first time its shifts are listed.
var defaultShifts = []defaultShift{
	{name: "Morning", start: "06:00", end: "12:00"},
	{name: "Evening", start: "16:00", end: "22:00"},
	{name: "Reserved"},
}

// ShiftInput is the caller-supplied part of a new shift.
type ShiftInput struct {
	Name      string
	StartTime *string
	EndTime   *string
}

// ShiftService provisions and lists the shifts of a branch.
type ShiftService struct {
	base
}

func NewShiftService(store repository.Store) *ShiftService {
	return &ShiftService{base: newBase(store)}
}

// EnsureDefaultShifts inserts each default shift the branch lacks.  It is
// idempotent: a concurrent caller that inserts the same shift first makes
// the duplicate insert here a no-op.
func (s *ShiftService) EnsureDefaultShifts(ctx context.Context, branchID string) error {
	for _, d := range defaultShifts {
		_, err := s.store.GetShiftByName(ctx, branchID, d.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return apperror.Internal(err, "could not load shifts")
		}

		sh := &model.Shift{
			ID:        s.newID(),
			BranchID:  branchID,
			Name:      d.name,
			StartTime: optional(d.start),
			EndTime:   optional(d.end),
			CreatedAt: s.now(),
		}
		if err := s.store.CreateShift(ctx, sh); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return apperror.Internal(err, "could not create default shift")
		}
		metrics.DefaultShiftsCreatedTotal.Inc()
		logging.FromContext(ctx).WithField("branch_id", branchID).Debugf("created default shift %s", d.name)
	}
	return nil
}

// ListShifts returns the branch's shifts by name, seeding the defaults first.
func (s *ShiftService) ListShifts(ctx context.Context, principalID, branchID string) ([]*model.Shift, error) {
	if _, err := ResolveBranch(ctx, s.store, principalID, branchID); err != nil {
		return nil, err
	}
	if err := s.EnsureDefaultShifts(ctx, branchID); err != nil {
		return nil, err
	}
	out, err := s.store.ListShiftsByBranch(ctx, branchID)
	if err != nil {
		return nil, apperror.Internal(err, "could not list shifts")
	}
	return out, nil
}

// CreateShift adds a named shift to a branch.
func (s *ShiftService) CreateShift(ctx context.Context, principalID, branchID string, in ShiftInput) (*model.Shift, error) {
	if _, err := ResolveBranch(ctx, s.store, principalID, branchID); err != nil {
		return nil, err
	}
	name, err := requireName("name", in.Name)
	if err != nil {
		return nil, err
	}
	start, err := clockTime("start_time", in.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := clockTime("end_time", in.EndTime)
	if err != nil {
		return nil, err
	}

	sh := &model.Shift{
		ID:        s.newID(),
		BranchID:  branchID,
		Name:      name,
		StartTime: start,
		EndTime:   end,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateShift(ctx, sh); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("shift with name %q already exists in this branch", name)
		}
		return nil, apperror.Internal(err, "could not create shift")
	}
	return sh, nil
}

// clockTime validates an optional HH:MM value.  Empty strings count as absent.
func clockTime(field string, v *string) (*string, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse("15:04", *v)
	if err != nil {
		return nil, apperror.InvalidArgument("%s must be HH:MM", field)
	}
	out := t.Format("15:04")
	return &out, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
