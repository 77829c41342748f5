package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-allocation/internal/apperror"
	"github.com/iliyamo/seat-allocation/internal/model"
	"github.com/iliyamo/seat-allocation/internal/queue"
	"github.com/iliyamo/seat-allocation/internal/repository"
)

func TestAssignReleaseScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.alloc.Assign(ctx, owner, f.seat.ID, f.student.ID, f.morning.ID)
	require.NoError(t, err)
	require.True(t, first.Active())
	require.Equal(t, f.seat.ID, first.SeatID)

	_, err = f.alloc.Assign(ctx, owner, f.seat.ID, f.student2.ID, f.morning.ID)
	require.True(t, apperror.Is(err, apperror.KindConflict), "got %v", err)
	require.EqualError(t, err, "seat already assigned in this shift")

	released, err := f.alloc.Release(ctx, owner, first.ID)
	require.NoError(t, err)
	require.NotNil(t, released.EndDate)

	second, err := f.alloc.Assign(ctx, owner, f.seat.ID, f.student2.ID, f.morning.ID)
	require.NoError(t, err)
	require.True(t, second.Active())

	all, err := f.alloc.List(ctx, f.branch.ID, model.AllocationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, second.ID, all[0].ID, "newest first")
	require.Equal(t, "A1", all[0].Seat.Label)
	require.Equal(t, "Grace", all[0].Student.Name)
	require.Equal(t, "Morning", all[0].Shift.Name)

	active, err := f.alloc.List(ctx, f.branch.ID, model.AllocationFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, second.ID, active[0].ID)

	byStudent, err := f.alloc.List(ctx, f.branch.ID, model.AllocationFilter{StudentID: f.student.ID})
	require.NoError(t, err)
	require.Len(t, byStudent, 1)
	require.Equal(t, first.ID, byStudent[0].ID)

	require.Len(t, f.events.events, 3)
	assert.Equal(t, queue.EventAssigned, f.events.events[0].Type)
	assert.Equal(t, queue.EventReleased, f.events.events[1].Type)
	assert.Equal(t, f.branch.ID, f.events.events[1].BranchID)
	assert.NotEmpty(t, f.events.events[1].EndDate)
}

func TestAssignConcurrentExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const n = 16
	students := make([]*model.Student, n)
	for i := range students {
		st, err := f.reg.CreateStudent(ctx, owner, f.branch.ID, "student", nil)
		require.NoError(t, err)
		students[i] = st
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(st *model.Student) {
			defer wg.Done()
			_, err := f.alloc.Assign(ctx, owner, f.seat.ID, st.ID, f.morning.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case apperror.Is(err, apperror.KindConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(students[i])
	}
	wg.Wait()

	require.Equal(t, 1, wins)
	require.Equal(t, n-1, conflicts)

	active, err := f.alloc.List(ctx, f.branch.ID, model.AllocationFilter{ShiftID: f.morning.ID, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
}

func TestAssignSameSeatDifferentShifts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	evening, err := f.shifts.CreateShift(ctx, owner, f.branch.ID, ShiftInput{Name: "Evening"})
	require.NoError(t, err)

	_, err = f.alloc.Assign(ctx, owner, f.seat.ID, f.student.ID, f.morning.ID)
	require.NoError(t, err)
	_, err = f.alloc.Assign(ctx, owner, f.seat.ID, f.student2.ID, evening.ID)
	require.NoError(t, err)
}

func TestAssignNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name                      string
		seat, student, shift, msg string
	}{
		{"seat", "missing", f.student.ID, f.morning.ID, "seat not found"},
		{"student", f.seat.ID, "missing", f.morning.ID, "student not found"},
		{"shift", f.seat.ID, f.student.ID, "missing", "shift not found"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.alloc.Assign(ctx, owner, tc.seat, tc.student, tc.shift)
			require.True(t, apperror.Is(err, apperror.KindNotFound), "got %v", err)
			require.EqualError(t, err, tc.msg)
		})
	}
}

func TestAssignCrossBranchIsInvalidState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Same organization, different branch.
	other, err := f.reg.CreateBranch(ctx, owner, f.org.ID, "Uptown")
	require.NoError(t, err)
	outsider, err := f.reg.CreateStudent(ctx, owner, other.ID, "Linus", nil)
	require.NoError(t, err)
	otherShift, err := f.shifts.CreateShift(ctx, owner, other.ID, ShiftInput{Name: "Morning"})
	require.NoError(t, err)

	_, err = f.alloc.Assign(ctx, owner, f.seat.ID, outsider.ID, f.morning.ID)
	require.True(t, apperror.Is(err, apperror.KindInvalidState), "got %v", err)

	_, err = f.alloc.Assign(ctx, owner, f.seat.ID, f.student.ID, otherShift.ID)
	require.True(t, apperror.Is(err, apperror.KindInvalidState), "got %v", err)

	all, err := f.alloc.List(ctx, f.branch.ID, model.AllocationFilter{})
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestAssignInactiveStudent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.reg.UpdateStudentStatus(ctx, owner, f.student.ID, model.StudentInactive)
	require.NoError(t, err)

	_, err = f.alloc.Assign(ctx, owner, f.seat.ID, f.student.ID, f.morning.ID)
	require.True(t, apperror.Is(err, apperror.KindInvalidState), "got %v", err)
	require.EqualError(t, err, "only ACTIVE students can be assigned a seat")

	_, err = f.reg.UpdateStudentStatus(ctx, owner, f.student.ID, model.StudentActive)
	require.NoError(t, err)
	_, err = f.alloc.Assign(ctx, owner, f.seat.ID, f.student.ID, f.morning.ID)
	require.NoError(t, err)
}

// statusStampStore records the clock reading taken inside the transaction
// that changes a student's status.
type statusStampStore struct {
	repository.Store
	now func() time.Time

	mu sync.Mutex
	at time.Time
}

func (s *statusStampStore) WithTx(ctx context.Context, fn func(q repository.Queries) error) error {
	return s.Store.WithTx(ctx, func(q repository.Queries) error {
		return fn(&statusStampQueries{Queries: q, s: s})
	})
}

type statusStampQueries struct {
	repository.Queries
	s *statusStampStore
}

func (q *statusStampQueries) UpdateStudentStatus(ctx context.Context, id string, status model.StudentStatus) error {
	if err := q.Queries.UpdateStudentStatus(ctx, id, status); err != nil {
		return err
	}
	q.s.mu.Lock()
	q.s.at = q.s.now()
	q.s.mu.Unlock()
	return nil
}

func TestAssignRacingDeactivation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	store := &statusStampStore{Store: f.store, now: f.alloc.now}
	reg := NewRegistrar(store)
	alloc := NewAllocationService(store, nil)
	reg.now, reg.newID = f.reg.now, f.reg.newID
	alloc.now, alloc.newID = f.alloc.now, f.alloc.newID

	const n = 12
	seats := make([]*model.Seat, n)
	for i := range seats {
		seat, err := f.reg.CreateSeat(ctx, owner, f.branch.ID, fmt.Sprintf("R%d", i))
		require.NoError(t, err)
		seats[i] = seat
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created []*model.SeatAllocation
		start   = make(chan struct{})
	)
	for _, seat := range seats {
		wg.Add(1)
		go func(seatID string) {
			defer wg.Done()
			<-start
			a, err := alloc.Assign(ctx, owner, seatID, f.student.ID, f.morning.ID)
			if err != nil {
				assert.True(t, apperror.Is(err, apperror.KindInvalidState), "got %v", err)
				return
			}
			mu.Lock()
			created = append(created, a)
			mu.Unlock()
		}(seat.ID)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		_, err := reg.UpdateStudentStatus(ctx, owner, f.student.ID, model.StudentInactive)
		assert.NoError(t, err)
	}()
	close(start)
	wg.Wait()

	require.False(t, store.at.IsZero())
	for _, a := range created {
		require.True(t, a.StartDate.Before(store.at), "allocation %s started %s, student deactivated %s", a.ID, a.StartDate, store.at)
	}

	stored, err := alloc.List(ctx, f.branch.ID, model.AllocationFilter{StudentID: f.student.ID})
	require.NoError(t, err)
	require.Len(t, stored, len(created))

	_, err = alloc.Assign(ctx, owner, f.seat.ID, f.student.ID, f.morning.ID)
	require.True(t, apperror.Is(err, apperror.KindInvalidState), "got %v", err)
}

func TestAssignOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.alloc.Assign(ctx, stranger, f.seat.ID, f.student.ID, f.morning.ID)
	require.True(t, apperror.Is(err, apperror.KindForbidden), "got %v", err)

	_, err = f.alloc.Assign(ctx, "", f.seat.ID, f.student.ID, f.morning.ID)
	require.True(t, apperror.Is(err, apperror.KindUnauthorized), "got %v", err)
	require.Empty(t, f.events.events)
}

func TestReleaseErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.alloc.Release(ctx, owner, "missing")
	require.True(t, apperror.Is(err, apperror.KindNotFound), "got %v", err)

	a, err := f.alloc.Assign(ctx, owner, f.seat.ID, f.student.ID, f.morning.ID)
	require.NoError(t, err)

	_, err = f.alloc.Release(ctx, stranger, a.ID)
	require.True(t, apperror.Is(err, apperror.KindForbidden), "got %v", err)

	released, err := f.alloc.Release(ctx, owner, a.ID)
	require.NoError(t, err)

	_, err = f.alloc.Release(ctx, owner, a.ID)
	require.True(t, apperror.Is(err, apperror.KindConflict), "got %v", err)
	require.EqualError(t, err, "allocation already released")

	stored, err := f.store.GetAllocation(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, released.EndDate.Equal(*stored.EndDate), "end date must not be re-stamped")
}

func TestPublishFailureDoesNotFailAssign(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.events.err = errors.New("broker down")

	a, err := f.alloc.Assign(ctx, owner, f.seat.ID, f.student.ID, f.morning.ID)
	require.NoError(t, err)
	require.NotNil(t, a)
	require.Len(t, f.events.events, 1)
}

func TestListForPrincipal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.alloc.Assign(ctx, owner, f.seat.ID, f.student.ID, f.morning.ID)
	require.NoError(t, err)

	out, err := f.alloc.ListForPrincipal(ctx, owner, f.branch.ID, model.AllocationFilter{})
	require.NoError(t, err)
	require.Len(t, out, 1)

	_, err = f.alloc.ListForPrincipal(ctx, stranger, f.branch.ID, model.AllocationFilter{})
	require.True(t, apperror.Is(err, apperror.KindForbidden), "got %v", err)
}
