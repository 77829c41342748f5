package service

import (
	"context"

	"github.com/iliyamo/seat-allocation/internal/apperror"
	"github.com/iliyamo/seat-allocation/internal/model"
	"github.com/iliyamo/seat-allocation/internal/repository"
)

// Authorize checks that principalID owns the organization at the end of
// chain.  resource names the entity in the Forbidden message.
func Authorize(principalID string, chain model.Chain, resource string) error {
	if principalID == "" {
		return apperror.Unauthorized("no principal supplied")
	}
	if chain.OwnerID != principalID {
		return apperror.Forbidden("user does not own this %s", resource)
	}
	return nil
}

// ResolveOrganization loads an organization owned by principalID.
func ResolveOrganization(ctx context.Context, q repository.Queries, principalID, orgID string) (*model.Organization, error) {
	if principalID == "" {
		return nil, apperror.Unauthorized("no principal supplied")
	}
	o, err := q.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, lookupError(err, "organization")
	}
	if err := Authorize(principalID, model.Chain{OrganizationID: o.ID, OwnerID: o.OwnerID}, "organization"); err != nil {
		return nil, err
	}
	return o, nil
}

// ResolveBranch loads a branch with its organization and checks that
// principalID owns it.
func ResolveBranch(ctx context.Context, q repository.Queries, principalID, branchID string) (*model.Branch, error) {
	if principalID == "" {
		return nil, apperror.Unauthorized("no principal supplied")
	}
	b, err := q.GetBranchWithOrganization(ctx, branchID)
	if err != nil {
		return nil, lookupError(err, "branch")
	}
	if err := Authorize(principalID, b.Chain(), "branch"); err != nil {
		return nil, err
	}
	return b, nil
}

// ResolveSeat loads a seat with its branch and organization in one read and
// checks that principalID owns it.
func ResolveSeat(ctx context.Context, q repository.Queries, principalID, seatID string) (*model.Seat, error) {
	if principalID == "" {
		return nil, apperror.Unauthorized("no principal supplied")
	}
	s, err := q.GetSeatWithBranch(ctx, seatID)
	if err != nil {
		return nil, lookupError(err, "seat")
	}
	if err := Authorize(principalID, s.Branch.Chain(), "seat"); err != nil {
		return nil, err
	}
	return s, nil
}

// ResolveStudent is ResolveSeat for students.
func ResolveStudent(ctx context.Context, q repository.Queries, principalID, studentID string) (*model.Student, error) {
	if principalID == "" {
		return nil, apperror.Unauthorized("no principal supplied")
	}
	s, err := q.GetStudentWithBranch(ctx, studentID)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	if err := Authorize(principalID, s.Branch.Chain(), "student"); err != nil {
		return nil, err
	}
	return s, nil
}

// ResolveShift is ResolveSeat for shifts.
func ResolveShift(ctx context.Context, q repository.Queries, principalID, shiftID string) (*model.Shift, error) {
	if principalID == "" {
		return nil, apperror.Unauthorized("no principal supplied")
	}
	s, err := q.GetShiftWithBranch(ctx, shiftID)
	if err != nil {
		return nil, lookupError(err, "shift")
	}
	if err := Authorize(principalID, s.Branch.Chain(), "shift"); err != nil {
		return nil, err
	}
	return s, nil
}
