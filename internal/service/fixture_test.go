package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-allocation/internal/model"
	"github.com/iliyamo/seat-allocation/internal/queue"
	"github.com/iliyamo/seat-allocation/internal/repository/memstore"
)

const (
	owner    = "user-1"
	stranger = "user-2"
)

// fixture is an organization owned by owner with one branch, a seat, two
// active students and a Morning shift.
type fixture struct {
	store    *memstore.Store
	reg      *Registrar
	shifts   *ShiftService
	alloc    *AllocationService
	events   *recordingPublisher
	org      *model.Organization
	branch   *model.Branch
	seat     *model.Seat
	student  *model.Student
	student2 *model.Student
	morning  *model.Shift
}

type recordingPublisher struct {
	events []queue.AllocationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.AllocationEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

// fakeClock returns a clock that advances one second per call and an id
// generator producing stable sequential ids.
func fakeClock() (func() time.Time, func() string) {
	var tick, seq int64
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	now := func() time.Time {
		n := atomic.AddInt64(&tick, 1)
		return start.Add(time.Duration(n) * time.Second)
	}
	id := func() string { return fmt.Sprintf("id-%04d", atomic.AddInt64(&seq, 1)) }
	return now, id
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	now, id := fakeClock()

	f := &fixture{
		store:  store,
		reg:    NewRegistrar(store),
		shifts: NewShiftService(store),
		events: &recordingPublisher{},
	}
	f.alloc = NewAllocationService(store, f.events)
	for _, b := range []*base{&f.reg.base, &f.shifts.base, &f.alloc.base} {
		b.now, b.newID = now, id
	}

	var err error
	f.org, err = f.reg.CreateOrganization(ctx, owner, "Acme Study Halls")
	require.NoError(t, err)
	f.branch, err = f.reg.CreateBranch(ctx, owner, f.org.ID, "Downtown")
	require.NoError(t, err)
	f.seat, err = f.reg.CreateSeat(ctx, owner, f.branch.ID, "A1")
	require.NoError(t, err)
	f.student, err = f.reg.CreateStudent(ctx, owner, f.branch.ID, "Ada", nil)
	require.NoError(t, err)
	f.student2, err = f.reg.CreateStudent(ctx, owner, f.branch.ID, "Grace", nil)
	require.NoError(t, err)
	f.morning, err = f.shifts.CreateShift(ctx, owner, f.branch.ID, ShiftInput{Name: "Morning"})
	require.NoError(t, err)
	return f
}
