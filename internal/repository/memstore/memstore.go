// Package memstore provides an in-memory implementation of
// repository.Store.  Transactions are serialised by a single mutex and
// rolled back by restoring a snapshot, so the unique keys the MySQL schema
// enforces hold here as well.  It backs STORE_DRIVER=memory and the service
// tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/seat-allocation/internal/model"
	"github.com/iliyamo/seat-allocation/internal/repository"
)

type state struct {
	organizations map[string]model.Organization
	branches      map[string]model.Branch
	seats         map[string]model.Seat
	students      map[string]model.Student
	shifts        map[string]model.Shift
	allocations   map[string]model.SeatAllocation
}

func newState() state {
	return state{
		organizations: map[string]model.Organization{},
		branches:      map[string]model.Branch{},
		seats:         map[string]model.Seat{},
		students:      map[string]model.Student{},
		shifts:        map[string]model.Shift{},
		allocations:   map[string]model.SeatAllocation{},
	}
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s state) clone() state {
	return state{
		organizations: cloneMap(s.organizations),
		branches:      cloneMap(s.branches),
		seats:         cloneMap(s.seats),
		students:      cloneMap(s.students),
		shifts:        cloneMap(s.shifts),
		allocations:   cloneMap(s.allocations),
	}
}

// Store is an in-memory repository.Store.
type Store struct {
	*view
	mu sync.Mutex
	st state
}

var _ repository.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	s := &Store{st: newState()}
	s.view = &view{mu: &s.mu, st: &s.st}
	return s
}

// WithTx runs fn while holding the store lock.  If fn fails, every change it
// made is discarded.
func (s *Store) WithTx(ctx context.Context, fn func(q repository.Queries) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(&view{st: &s.st}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// view implements repository.Queries over the shared state.  Outside a
// transaction mu guards each call; inside one it is nil because WithTx
// already holds the lock.
type view struct {
	mu *sync.Mutex
	st *state
}

func (v *view) lock() func() {
	if v.mu == nil {
		return func() {}
	}
	v.mu.Lock()
	return v.mu.Unlock
}

func (v *view) CreateOrganization(_ context.Context, o *model.Organization) error {
	defer v.lock()()
	if _, ok := v.st.organizations[o.ID]; ok {
		return repository.ErrDuplicate
	}
	v.st.organizations[o.ID] = *o
	return nil
}

func (v *view) GetOrganization(_ context.Context, id string) (*model.Organization, error) {
	defer v.lock()()
	o, ok := v.st.organizations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (v *view) ListOrganizationsByOwner(_ context.Context, ownerID string) ([]*model.Organization, error) {
	defer v.lock()()
	counts := map[string]int{}
	for _, b := range v.st.branches {
		counts[b.OrganizationID]++
	}
	out := []*model.Organization{}
	for _, o := range v.st.organizations {
		if o.OwnerID != ownerID {
			continue
		}
		o.BranchCount = counts[o.ID]
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (v *view) CreateBranch(_ context.Context, b *model.Branch) error {
	defer v.lock()()
	if _, ok := v.st.organizations[b.OrganizationID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := v.st.branches[b.ID]; ok {
		return repository.ErrDuplicate
	}
	stored := *b
	stored.Organization = nil
	v.st.branches[b.ID] = stored
	return nil
}

// branchWithOrganization assumes the lock is held.
func (v *view) branchWithOrganization(id string) (*model.Branch, error) {
	b, ok := v.st.branches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o, ok := v.st.organizations[b.OrganizationID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	b.Organization = &o
	return &b, nil
}

func (v *view) GetBranchWithOrganization(_ context.Context, id string) (*model.Branch, error) {
	defer v.lock()()
	return v.branchWithOrganization(id)
}

func (v *view) ListBranchesByOrganization(_ context.Context, organizationID string) ([]*model.Branch, error) {
	defer v.lock()()
	out := []*model.Branch{}
	for _, b := range v.st.branches {
		if b.OrganizationID == organizationID {
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (v *view) CreateSeat(_ context.Context, s *model.Seat) error {
	defer v.lock()()
	if _, ok := v.st.branches[s.BranchID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range v.st.seats {
		if existing.ID == s.ID || (existing.BranchID == s.BranchID && existing.Label == s.Label) {
			return repository.ErrDuplicate
		}
	}
	stored := *s
	stored.Branch = nil
	v.st.seats[s.ID] = stored
	return nil
}

func (v *view) GetSeatWithBranch(_ context.Context, id string) (*model.Seat, error) {
	defer v.lock()()
	s, ok := v.st.seats[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	b, err := v.branchWithOrganization(s.BranchID)
	if err != nil {
		return nil, err
	}
	s.Branch = b
	return &s, nil
}

func (v *view) ListSeatsByBranch(_ context.Context, branchID string) ([]*model.Seat, error) {
	defer v.lock()()
	out := []*model.Seat{}
	for _, s := range v.st.seats {
		if s.BranchID == branchID {
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (v *view) CreateStudent(_ context.Context, s *model.Student) error {
	defer v.lock()()
	if _, ok := v.st.branches[s.BranchID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := v.st.students[s.ID]; ok {
		return repository.ErrDuplicate
	}
	stored := *s
	stored.Branch = nil
	v.st.students[s.ID] = stored
	return nil
}

func (v *view) GetStudent(_ context.Context, id string) (*model.Student, error) {
	defer v.lock()()
	s, ok := v.st.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (v *view) GetStudentWithBranch(_ context.Context, id string) (*model.Student, error) {
	defer v.lock()()
	s, ok := v.st.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	b, err := v.branchWithOrganization(s.BranchID)
	if err != nil {
		return nil, err
	}
	s.Branch = b
	return &s, nil
}

func (v *view) ListStudentsByBranch(_ context.Context, branchID string) ([]*model.Student, error) {
	defer v.lock()()
	out := []*model.Student{}
	for _, s := range v.st.students {
		if s.BranchID == branchID {
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (v *view) UpdateStudentStatus(_ context.Context, id string, status model.StudentStatus) error {
	defer v.lock()()
	s, ok := v.st.students[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Status = status
	v.st.students[id] = s
	return nil
}

func (v *view) CreateShift(_ context.Context, s *model.Shift) error {
	defer v.lock()()
	if _, ok := v.st.branches[s.BranchID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range v.st.shifts {
		if existing.ID == s.ID || (existing.BranchID == s.BranchID && existing.Name == s.Name) {
			return repository.ErrDuplicate
		}
	}
	stored := *s
	stored.Branch = nil
	v.st.shifts[s.ID] = stored
	return nil
}

func (v *view) GetShift(_ context.Context, id string) (*model.Shift, error) {
	defer v.lock()()
	s, ok := v.st.shifts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (v *view) GetShiftWithBranch(_ context.Context, id string) (*model.Shift, error) {
	defer v.lock()()
	s, ok := v.st.shifts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	b, err := v.branchWithOrganization(s.BranchID)
	if err != nil {
		return nil, err
	}
	s.Branch = b
	return &s, nil
}

func (v *view) GetShiftByName(_ context.Context, branchID, name string) (*model.Shift, error) {
	defer v.lock()()
	for _, s := range v.st.shifts {
		if s.BranchID == branchID && s.Name == name {
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (v *view) ListShiftsByBranch(_ context.Context, branchID string) ([]*model.Shift, error) {
	defer v.lock()()
	out := []*model.Shift{}
	for _, s := range v.st.shifts {
		if s.BranchID == branchID {
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (v *view) CreateAllocation(_ context.Context, a *model.SeatAllocation) error {
	defer v.lock()()
	if _, ok := v.st.seats[a.SeatID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := v.st.students[a.StudentID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := v.st.shifts[a.ShiftID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := v.st.allocations[a.ID]; ok {
		return repository.ErrDuplicate
	}
	if a.Active() {
		if _, ok := v.activeAllocation(a.SeatID, a.ShiftID); ok {
			return repository.ErrDuplicate
		}
	}
	stored := *a
	stored.Seat, stored.Student, stored.Shift = nil, nil, nil
	v.st.allocations[a.ID] = stored
	return nil
}

// activeAllocation assumes the lock is held.
func (v *view) activeAllocation(seatID, shiftID string) (model.SeatAllocation, bool) {
	for _, a := range v.st.allocations {
		if a.SeatID == seatID && a.ShiftID == shiftID && a.Active() {
			return a, true
		}
	}
	return model.SeatAllocation{}, false
}

func (v *view) GetAllocation(_ context.Context, id string) (*model.SeatAllocation, error) {
	defer v.lock()()
	a, ok := v.st.allocations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (v *view) FindActiveAllocation(_ context.Context, seatID, shiftID string) (*model.SeatAllocation, error) {
	defer v.lock()()
	a, ok := v.activeAllocation(seatID, shiftID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (v *view) EndAllocation(_ context.Context, id string, at time.Time) error {
	defer v.lock()()
	a, ok := v.st.allocations[id]
	if !ok {
		return repository.ErrNotFound
	}
	end := at
	a.EndDate = &end
	v.st.allocations[id] = a
	return nil
}

func (v *view) ListAllocationsByBranch(_ context.Context, branchID string, f model.AllocationFilter) ([]*model.SeatAllocation, error) {
	defer v.lock()()
	out := []*model.SeatAllocation{}
	for _, a := range v.st.allocations {
		seat, ok := v.st.seats[a.SeatID]
		if !ok || seat.BranchID != branchID {
			continue
		}
		if f.StudentID != "" && a.StudentID != f.StudentID {
			continue
		}
		if f.ShiftID != "" && a.ShiftID != f.ShiftID {
			continue
		}
		if f.ActiveOnly && !a.Active() {
			continue
		}
		student := v.st.students[a.StudentID]
		shift := v.st.shifts[a.ShiftID]
		a.Seat, a.Student, a.Shift = &seat, &student, &shift
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].StartDate, out[j].StartDate, out[i].ID, out[j].ID) })
	return out, nil
}

// newerFirst orders by time descending, breaking ties by id.
func newerFirst(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA < idB
}
