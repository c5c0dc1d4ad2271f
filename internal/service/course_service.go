package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/policy"
	"github.com/stemsi/academic-records/internal/repository"
)

// CourseService handles course business logic.
type CourseService struct {
	store repository.Store
	log   zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(store repository.Store, log zerolog.Logger) *CourseService {
	return &CourseService{
		store: store,
		log:   log.With().Str("component", "course_service").Logger(),
	}
}

func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	courses, err := s.store.Courses().List(ctx)
	return courses, storageErr(err, nil)
}

func (s *CourseService) Get(ctx context.Context, id int) (*model.Course, error) {
	c, err := s.store.Courses().GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, ErrCourseNotFound)
	}
	return c, nil
}

// ListByTeacher returns a teacher's courses after checking the teacher exists.
func (s *CourseService) ListByTeacher(ctx context.Context, teacherID int) ([]model.Course, error) {
	if _, err := s.store.Teachers().GetByID(ctx, teacherID); err != nil {
		return nil, storageErr(err, ErrTeacherNotFound)
	}
	courses, err := s.store.Courses().ListByTeacher(ctx, teacherID)
	return courses, storageErr(err, nil)
}

// Search matches name or code. An empty query returns every course.
func (s *CourseService) Search(ctx context.Context, q string) ([]model.Course, error) {
	courses, err := s.store.Courses().Search(ctx, q)
	return courses, storageErr(err, nil)
}

// Create inserts a course owned by the calling teacher.
func (s *CourseService) Create(ctx context.Context, teacherID int, req model.CreateCourseRequest) (*model.Course, error) {
	c := &model.Course{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		TeacherID:   teacherID,
		Credits:     model.DefaultCredits,
	}
	if req.Credits != nil {
		c.Credits = *req.Credits
	}

	if err := s.store.Courses().Create(ctx, c); err != nil {
		return nil, storageErr(err, nil)
	}
	s.log.Info().Int("course_id", c.ID).Str("code", c.Code).Int("teacher_id", teacherID).Msg("Course created")
	return s.Get(ctx, c.ID)
}

// Update applies a partial update to a course the teacher owns. Courses of
// other teachers are reported as missing.
func (s *CourseService) Update(ctx context.Context, teacherID, courseID int, req model.UpdateCourseRequest) (*model.Course, error) {
	c, err := s.store.Courses().GetByID(ctx, courseID)
	if err != nil {
		return nil, storageErr(err, ErrCourseNotFound)
	}
	if !policy.OwnsCourse(teacherID, c) {
		return nil, ErrCourseNotFound
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Code != nil {
		c.Code = *req.Code
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Credits != nil {
		c.Credits = *req.Credits
	}

	if err := s.store.Courses().UpdateOwned(ctx, c); err != nil {
		return nil, storageErr(err, ErrCourseNotFound)
	}
	return s.Get(ctx, courseID)
}

// Delete removes a course the teacher owns, cascading its enrollments.
func (s *CourseService) Delete(ctx context.Context, teacherID, courseID int) error {
	if err := s.store.Courses().DeleteOwned(ctx, courseID, teacherID); err != nil {
		return storageErr(err, ErrCourseNotFound)
	}
	s.log.Info().Int("course_id", courseID).Int("teacher_id", teacherID).Msg("Course deleted")
	return nil
}
