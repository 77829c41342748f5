package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-allocation/internal/apperror"
)

func shiftNames(t *testing.T, s *ShiftService, branchID string) []string {
	t.Helper()
	list, err := s.store.ListShiftsByBranch(context.Background(), branchID)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, sh := range list {
		names = append(names, sh.Name)
	}
	return names
}

func TestEnsureDefaultShiftsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	fresh, err := f.reg.CreateBranch(ctx, owner, f.org.ID, "Fresh")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, f.shifts.EnsureDefaultShifts(ctx, fresh.ID))
	}
	require.Equal(t, []string{"Evening", "Morning", "Reserved"}, shiftNames(t, f.shifts, fresh.ID))

	evening, err := f.store.GetShiftByName(ctx, fresh.ID, "Evening")
	require.NoError(t, err)
	require.Equal(t, "16:00", *evening.StartTime)
	require.Equal(t, "22:00", *evening.EndTime)

	reserved, err := f.store.GetShiftByName(ctx, fresh.ID, "Reserved")
	require.NoError(t, err)
	require.Nil(t, reserved.StartTime)
	require.Nil(t, reserved.EndTime)
}

func TestEnsureDefaultShiftsConcurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	fresh, err := f.reg.CreateBranch(ctx, owner, f.org.ID, "Fresh")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.shifts.EnsureDefaultShifts(ctx, fresh.ID))
		}()
	}
	wg.Wait()
	require.Equal(t, []string{"Evening", "Morning", "Reserved"}, shiftNames(t, f.shifts, fresh.ID))
}

func TestListShiftsSeedsAndKeepsExisting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// The fixture already created a custom "Morning" without times.
	list, err := f.shifts.ListShifts(ctx, owner, f.branch.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "Morning", list[1].Name)
	require.Equal(t, f.morning.ID, list[1].ID)
	require.Nil(t, list[1].StartTime)

	_, err = f.shifts.ListShifts(ctx, stranger, f.branch.ID)
	require.True(t, apperror.Is(err, apperror.KindForbidden), "got %v", err)
}

func TestCreateShift(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	start, end := "7:30", "09:45"
	sh, err := f.shifts.CreateShift(ctx, owner, f.branch.ID, ShiftInput{Name: " Night ", StartTime: &start, EndTime: &end})
	require.NoError(t, err)
	require.Equal(t, "Night", sh.Name)
	require.Equal(t, "07:30", *sh.StartTime)
	require.Equal(t, "09:45", *sh.EndTime)

	_, err = f.shifts.CreateShift(ctx, owner, f.branch.ID, ShiftInput{Name: "Night"})
	require.True(t, apperror.Is(err, apperror.KindConflict), "got %v", err)
	require.EqualError(t, err, `shift with name "Night" already exists in this branch`)

	bad := "25:00"
	_, err = f.shifts.CreateShift(ctx, owner, f.branch.ID, ShiftInput{Name: "Late", StartTime: &bad})
	require.True(t, apperror.Is(err, apperror.KindInvalidArgument), "got %v", err)

	_, err = f.shifts.CreateShift(ctx, owner, f.branch.ID, ShiftInput{Name: "  "})
	require.True(t, apperror.Is(err, apperror.KindInvalidArgument), "got %v", err)

	_, err = f.shifts.CreateShift(ctx, owner, "missing", ShiftInput{Name: "Late"})
	require.True(t, apperror.Is(err, apperror.KindNotFound), "got %v", err)
}
