package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/policy"
	"github.com/stemsi/academic-records/internal/repository"
)

// EnrollmentService owns every mutation of the enrollment ledger.
type EnrollmentService struct {
	store repository.Store
	log   zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(store repository.Store, log zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		store: store,
		log:   log.With().Str("component", "enrollment_service").Logger(),
	}
}

// Enroll signs a student up for a course. A missing course is reported
// before an existing enrollment. The Exists probe only rejects early; the
// unique constraint settles races, and a course deleted in between surfaces
// as a missing reference.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID int) (*model.Enrollment, error) {
	if courseID <= 0 {
		return nil, fieldError("course_id", "Course ID is required")
	}

	if _, err := s.store.Courses().GetByID(ctx, courseID); err != nil {
		return nil, storageErr(err, ErrCourseNotFound)
	}

	enrolled, err := s.store.Enrollments().Exists(ctx, studentID, courseID)
	if err != nil {
		return nil, storageErr(err, nil)
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	return s.insert(ctx, &model.Enrollment{StudentID: studentID, CourseID: courseID}, ErrCourseNotFound)
}

// Create is the administrative enroll path. Unknown students and courses are
// reported together as field errors.
func (s *EnrollmentService) Create(ctx context.Context, req model.CreateEnrollmentRequest) (*model.Enrollment, error) {
	fields := map[string]string{}
	if _, err := s.store.Students().GetByID(ctx, req.Student); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, storageErr(err, nil)
		}
		fields["student"] = "Invalid pk - object does not exist."
	}
	if _, err := s.store.Courses().GetByID(ctx, req.Course); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, storageErr(err, nil)
		}
		fields["course"] = "Invalid pk - object does not exist."
	}
	if req.Grade != nil && utf8.RuneCountInString(*req.Grade) > model.MaxGradeLength {
		fields["grade"] = "Ensure this field has no more than 2 characters."
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	enrolled, err := s.store.Enrollments().Exists(ctx, req.Student, req.Course)
	if err != nil {
		return nil, storageErr(err, nil)
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	e := &model.Enrollment{StudentID: req.Student, CourseID: req.Course}
	if req.Grade != nil && *req.Grade != "" {
		e.Grade = req.Grade
	}
	return s.insert(ctx, e, fieldError("course", "Invalid pk - object does not exist."))
}

func (s *EnrollmentService) insert(ctx context.Context, e *model.Enrollment, missing error) (*model.Enrollment, error) {
	err := s.store.Enrollments().Create(ctx, e)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrMissingReference):
		return nil, missing
	default:
		if dup, ok := repository.AsDuplicate(err); ok && dup.Field == repository.FieldEnrollment {
			return nil, ErrAlreadyEnrolled
		}
		return nil, storageErr(err, nil)
	}

	withActor(ctx, s.log.Info()).
		Int("enrollment_id", e.ID).
		Int("student_id", e.StudentID).
		Int("course_id", e.CourseID).
		Msg("Enrollment created")
	return s.Get(ctx, e.ID)
}

// Unenroll deletes an enrollment owned by the student. Someone else's
// enrollment is reported exactly like a missing one.
func (s *EnrollmentService) Unenroll(ctx context.Context, enrollmentID, studentID int) error {
	if err := s.store.Enrollments().DeleteForStudent(ctx, enrollmentID, studentID); err != nil {
		return storageErr(err, ErrEnrollmentNotFound)
	}
	withActor(ctx, s.log.Info()).Int("enrollment_id", enrollmentID).Int("student_id", studentID).Msg("Enrollment removed")
	return nil
}

// SetGrade grades an enrollment in one of the teacher's courses. A missing
// or foreign enrollment is reported before any problem with the grade.
func (s *EnrollmentService) SetGrade(ctx context.Context, enrollmentID, teacherID int, grade string) (*model.Enrollment, error) {
	e, err := s.store.Enrollments().GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, storageErr(err, ErrEnrollmentNotFound)
	}
	if !policy.OwnsCourse(teacherID, e.Course) {
		return nil, ErrEnrollmentNotFound
	}

	grade = strings.TrimSpace(grade)
	if grade == "" {
		return nil, fieldError("grade", "Grade is required")
	}
	if utf8.RuneCountInString(grade) > model.MaxGradeLength {
		return nil, fieldError("grade", "Ensure this field has no more than 2 characters.")
	}

	if err := s.store.Enrollments().SetGradeForTeacher(ctx, enrollmentID, teacherID, grade); err != nil {
		return nil, storageErr(err, ErrEnrollmentNotFound)
	}
	withActor(ctx, s.log.Info()).Int("enrollment_id", enrollmentID).Str("grade", grade).Msg("Grade updated")
	return s.Get(ctx, enrollmentID)
}

// Get returns a single enrollment view.
func (s *EnrollmentService) Get(ctx context.Context, id int) (*model.Enrollment, error) {
	e, err := s.store.Enrollments().GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err, ErrEnrollmentNotFound)
	}
	return e, nil
}

// List returns enrollments matching f.
func (s *EnrollmentService) List(ctx context.Context, f model.EnrollmentFilter) ([]model.Enrollment, error) {
	list, err := s.store.Enrollments().List(ctx, f)
	if err != nil {
		return nil, storageErr(err, nil)
	}
	return list, nil
}

// ListForStudent returns a student's enrollments after checking the student exists.
func (s *EnrollmentService) ListForStudent(ctx context.Context, studentID int) ([]model.Enrollment, error) {
	if _, err := s.store.Students().GetByID(ctx, studentID); err != nil {
		return nil, storageErr(err, ErrStudentNotFound)
	}
	return s.List(ctx, model.EnrollmentFilter{StudentID: studentID})
}

// ListForCourse returns a course's enrollments after checking the course exists.
func (s *EnrollmentService) ListForCourse(ctx context.Context, courseID int) ([]model.Enrollment, error) {
	if _, err := s.store.Courses().GetByID(ctx, courseID); err != nil {
		return nil, storageErr(err, ErrCourseNotFound)
	}
	return s.List(ctx, model.EnrollmentFilter{CourseID: courseID})
}

// withActor tags ev with the account the request was authenticated as.
func withActor(ctx context.Context, ev *zerolog.Event) *zerolog.Event {
	if p := model.PrincipalFrom(ctx); p != nil && p.Account != nil {
		return ev.Int("actor_account_id", p.Account.ID)
	}
	return ev
}
