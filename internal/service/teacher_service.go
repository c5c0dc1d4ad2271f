package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/repository"
)

// TeacherService handles teacher profile business logic.
type TeacherService struct {
	store repository.Store
	log   zerolog.Logger
}

// NewTeacherService creates a new TeacherService.
func NewTeacherService(store repository.Store, log zerolog.Logger) *TeacherService {
	return &TeacherService{
		store: store,
		log:   log.With().Str("component", "teacher_service").Logger(),
	}
}

func (s *TeacherService) List(ctx context.Context) ([]model.Teacher, error) {
	teachers, err := s.store.Teachers().List(ctx)
	return teachers, storageErr(err, nil)
}

func (s *TeacherService) Get(ctx context.Context, id int) (*model.Teacher, error) {
	t, err := s.store.Teachers().GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, ErrTeacherNotFound)
	}
	return t, nil
}

// Update applies a partial update to the profile fields.
func (s *TeacherService) Update(ctx context.Context, id int, req model.UpdateTeacherRequest) (*model.Teacher, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.EmployeeID != nil {
		t.EmployeeID = *req.EmployeeID
	}
	if req.PhoneNumber != nil {
		t.PhoneNumber = *req.PhoneNumber
	}
	if req.SubjectSpecialization != nil {
		t.SubjectSpecialization = *req.SubjectSpecialization
	}

	if err := s.store.Teachers().Update(ctx, t); err != nil {
		return nil, storageErr(err, ErrTeacherNotFound)
	}
	return s.Get(ctx, id)
}

// Delete removes the profile together with its courses and their
// enrollments. The account is kept.
func (s *TeacherService) Delete(ctx context.Context, id int) error {
	if err := s.store.Teachers().Delete(ctx, id); err != nil {
		return storageErr(err, ErrTeacherNotFound)
	}
	s.log.Info().Int("teacher_id", id).Msg("Teacher deleted, courses cascaded")
	return nil
}
