package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/iliyamo/seat-allocation/internal/apperror"
	"github.com/iliyamo/seat-allocation/internal/model"
	"github.com/iliyamo/seat-allocation/internal/repository"
)

// Registrar creates and lists organizations, branches, seats and students.
type Registrar struct {
	base
}

func NewRegistrar(store repository.Store) *Registrar {
	return &Registrar{base: newBase(store)}
}

func (r *Registrar) CreateOrganization(ctx context.Context, principalID, name string) (*model.Organization, error) {
	if principalID == "" {
		return nil, apperror.Unauthorized("no principal supplied")
	}
	name, err := requireName("name", name)
	if err != nil {
		return nil, err
	}
	o := &model.Organization{ID: r.newID(), Name: name, OwnerID: principalID, CreatedAt: r.now()}
	if err := r.store.CreateOrganization(ctx, o); err != nil {
		return nil, apperror.Internal(err, "could not create organization")
	}
	return o, nil
}

// ListOrganizations returns the principal's organizations, newest first.
func (r *Registrar) ListOrganizations(ctx context.Context, principalID string) ([]*model.Organization, error) {
	if principalID == "" {
		return nil, apperror.Unauthorized("no principal supplied")
	}
	out, err := r.store.ListOrganizationsByOwner(ctx, principalID)
	if err != nil {
		return nil, apperror.Internal(err, "could not list organizations")
	}
	return out, nil
}

func (r *Registrar) CreateBranch(ctx context.Context, principalID, orgID, name string) (*model.Branch, error) {
	if _, err := ResolveOrganization(ctx, r.store, principalID, orgID); err != nil {
		return nil, err
	}
	name, err := requireName("name", name)
	if err != nil {
		return nil, err
	}
	b := &model.Branch{ID: r.newID(), OrganizationID: orgID, Name: name, CreatedAt: r.now()}
	if err := r.store.CreateBranch(ctx, b); err != nil {
		return nil, apperror.Internal(err, "could not create branch")
	}
	return b, nil
}

func (r *Registrar) ListBranches(ctx context.Context, principalID, orgID string) ([]*model.Branch, error) {
	if _, err := ResolveOrganization(ctx, r.store, principalID, orgID); err != nil {
		return nil, err
	}
	out, err := r.store.ListBranchesByOrganization(ctx, orgID)
	if err != nil {
		return nil, apperror.Internal(err, "could not list branches")
	}
	return out, nil
}

// CreateSeat adds a seat; labels are unique within a branch.
func (r *Registrar) CreateSeat(ctx context.Context, principalID, branchID, label string) (*model.Seat, error) {
	if _, err := ResolveBranch(ctx, r.store, principalID, branchID); err != nil {
		return nil, err
	}
	label, err := requireName("label", label)
	if err != nil {
		return nil, err
	}
	s := &model.Seat{ID: r.newID(), BranchID: branchID, Label: label, CreatedAt: r.now()}
	if err := r.store.CreateSeat(ctx, s); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("seat with label %q already exists in this branch", label)
		}
		return nil, apperror.Internal(err, "could not create seat")
	}
	return s, nil
}

func (r *Registrar) ListSeats(ctx context.Context, principalID, branchID string) ([]*model.Seat, error) {
	if _, err := ResolveBranch(ctx, r.store, principalID, branchID); err != nil {
		return nil, err
	}
	out, err := r.store.ListSeatsByBranch(ctx, branchID)
	if err != nil {
		return nil, apperror.Internal(err, "could not list seats")
	}
	return out, nil
}

// CreateStudent registers an ACTIVE student.  A blank phone is stored as
// absent.
func (r *Registrar) CreateStudent(ctx context.Context, principalID, branchID, name string, phone *string) (*model.Student, error) {
	if _, err := ResolveBranch(ctx, r.store, principalID, branchID); err != nil {
		return nil, err
	}
	name, err := requireName("name", name)
	if err != nil {
		return nil, err
	}
	if phone != nil {
		p := strings.TrimSpace(*phone)
		phone = optional(p)
	}
	st := &model.Student{
		ID:        r.newID(),
		BranchID:  branchID,
		Name:      name,
		Phone:     phone,
		Status:    model.StudentActive,
		CreatedAt: r.now(),
	}
	if err := r.store.CreateStudent(ctx, st); err != nil {
		return nil, apperror.Internal(err, "could not create student")
	}
	return st, nil
}

func (r *Registrar) ListStudents(ctx context.Context, principalID, branchID string) ([]*model.Student, error) {
	if _, err := ResolveBranch(ctx, r.store, principalID, branchID); err != nil {
		return nil, err
	}
	out, err := r.store.ListStudentsByBranch(ctx, branchID)
	if err != nil {
		return nil, apperror.Internal(err, "could not list students")
	}
	return out, nil
}

// UpdateStudentStatus changes a student's status.  Assign reads the status
// inside its own transaction, so a deactivation that commits first blocks
// later assigns.
func (r *Registrar) UpdateStudentStatus(ctx context.Context, principalID, studentID string, status model.StudentStatus) (*model.Student, error) {
	if !status.Valid() {
		return nil, apperror.InvalidArgument("unknown student status %q", status)
	}
	var updated *model.Student
	err := r.store.WithTx(ctx, func(q repository.Queries) error {
		st, err := ResolveStudent(ctx, q, principalID, studentID)
		if err != nil {
			return err
		}
		if err := q.UpdateStudentStatus(ctx, studentID, status); err != nil {
			return lookupError(err, "student")
		}
		st.Status = status
		updated = st
		return nil
	})
	if err := txError(err); err != nil {
		return nil, err
	}
	return updated, nil
}
