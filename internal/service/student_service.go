package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/repository"
)

// StudentService handles student profile business logic.
type StudentService struct {
	store repository.Store
	log   zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(store repository.Store, log zerolog.Logger) *StudentService {
	return &StudentService{
		store: store,
		log:   log.With().Str("component", "student_service").Logger(),
	}
}

func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	students, err := s.store.Students().List(ctx)
	return students, storageErr(err, nil)
}

func (s *StudentService) Get(ctx context.Context, id int) (*model.Student, error) {
	st, err := s.store.Students().GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, ErrStudentNotFound)
	}
	return st, nil
}

// Search matches first name, last name or student_id. An empty query
// returns every student.
func (s *StudentService) Search(ctx context.Context, q string) ([]model.Student, error) {
	students, err := s.store.Students().Search(ctx, q)
	return students, storageErr(err, nil)
}

// Update applies a partial update to the profile fields.
func (s *StudentService) Update(ctx context.Context, id int, req model.UpdateStudentRequest) (*model.Student, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StudentID != nil {
		st.StudentID = *req.StudentID
	}
	if req.PhoneNumber != nil {
		st.PhoneNumber = *req.PhoneNumber
	}
	if req.DateOfBirth != nil {
		dob, err := model.ParseDate(*req.DateOfBirth)
		if err != nil {
			return nil, fieldError("date_of_birth", "Date has wrong format. Use YYYY-MM-DD.")
		}
		st.DateOfBirth = dob
	}
	if req.Address != nil {
		st.Address = *req.Address
	}

	if err := s.store.Students().Update(ctx, st); err != nil {
		return nil, storageErr(err, ErrStudentNotFound)
	}
	return s.Get(ctx, id)
}

// Delete removes the profile and its enrollments. The account is kept.
func (s *StudentService) Delete(ctx context.Context, id int) error {
	if err := s.store.Students().Delete(ctx, id); err != nil {
		return storageErr(err, ErrStudentNotFound)
	}
	s.log.Info().Int("student_id", id).Msg("Student deleted")
	return nil
}
