package service

import (
	"context"

	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/repository"
)

// Recent enrollment counts shown on the dashboards.
const (
	StudentRecentEnrollments = 5
	TeacherRecentEnrollments = 10
)

// StudentDashboard summarises a student's enrollments.
type StudentDashboard struct {
	StudentInfo       *model.Student     `json:"student_info"`
	TotalCourses      int                `json:"total_courses"`
	Enrollments       []model.Enrollment `json:"enrollments"`
	RecentEnrollments []model.Enrollment `json:"recent_enrollments"`
}

// TeacherDashboard summarises a teacher's courses and their enrollments.
type TeacherDashboard struct {
	TeacherInfo       *model.Teacher     `json:"teacher_info"`
	TotalCourses      int                `json:"total_courses"`
	TotalStudents     int                `json:"total_students"`
	Courses           []model.Course     `json:"courses"`
	RecentEnrollments []model.Enrollment `json:"recent_enrollments"`
}

// DashboardService assembles the per-role dashboards.
type DashboardService struct {
	store repository.Store
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(store repository.Store) *DashboardService {
	return &DashboardService{store: store}
}

func (s *DashboardService) Student(ctx context.Context, student *model.Student) (*StudentDashboard, error) {
	all, err := s.store.Enrollments().List(ctx, model.EnrollmentFilter{StudentID: student.ID})
	if err != nil {
		return nil, storageErr(err, nil)
	}
	recent, err := s.store.Enrollments().List(ctx, model.EnrollmentFilter{
		StudentID: student.ID,
		Recent:    true,
		Limit:     StudentRecentEnrollments,
	})
	if err != nil {
		return nil, storageErr(err, nil)
	}

	return &StudentDashboard{
		StudentInfo:       student,
		TotalCourses:      len(all),
		Enrollments:       all,
		RecentEnrollments: recent,
	}, nil
}

// Teacher counts every enrollment across the teacher's courses as
// total_students; a student in two courses counts twice.
func (s *DashboardService) Teacher(ctx context.Context, teacher *model.Teacher) (*TeacherDashboard, error) {
	courses, err := s.store.Courses().ListByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, storageErr(err, nil)
	}
	all, err := s.store.Enrollments().List(ctx, model.EnrollmentFilter{TeacherID: teacher.ID})
	if err != nil {
		return nil, storageErr(err, nil)
	}
	recent, err := s.store.Enrollments().List(ctx, model.EnrollmentFilter{
		TeacherID: teacher.ID,
		Recent:    true,
		Limit:     TeacherRecentEnrollments,
	})
	if err != nil {
		return nil, storageErr(err, nil)
	}

	return &TeacherDashboard{
		TeacherInfo:       teacher,
		TotalCourses:      len(courses),
		TotalStudents:     len(all),
		Courses:           courses,
		RecentEnrollments: recent,
	}, nil
}
