package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/repository"
)

// RoleResolver maps an account onto exactly one role.
type RoleResolver struct {
	store repository.Store
}

// NewRoleResolver creates a new RoleResolver.
func NewRoleResolver(store repository.Store) *RoleResolver {
	return &RoleResolver{store: store}
}

// Resolve checks, in order: elevated flags, a student profile, a teacher
// profile. An account matching none is a bare admin. A student profile wins
// over a teacher profile when an account holds both.
func (r *RoleResolver) Resolve(ctx context.Context, acc *model.Account) (*model.Principal, error) {
	if acc.IsElevated() {
		return model.AdminPrincipal(acc), nil
	}

	student, err := r.store.Students().GetByAccountID(ctx, acc.ID)
	switch {
	case err == nil:
		return model.StudentPrincipal(acc, student), nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("resolve student profile: %w", storageErr(err, nil))
	}

	teacher, err := r.store.Teachers().GetByAccountID(ctx, acc.ID)
	switch {
	case err == nil:
		return model.TeacherPrincipal(acc, teacher), nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("resolve teacher profile: %w", storageErr(err, nil))
	}

	return model.AdminPrincipal(acc), nil
}
