package memory

import (
	"context"
	"sort"

	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/policy"
	"github.com/stemsi/academic-records/internal/repository"
)

type courseRepo struct{ s *Store }

func (r *courseRepo) Create(_ context.Context, c *model.Course) error {
	return r.s.write(func(d *data) error {
		if _, ok := d.teachers[c.TeacherID]; !ok {
			return repository.ErrMissingReference
		}
		for _, existing := range d.courses {
			if existing.Code == c.Code {
				return duplicate(repository.FieldCode, "courses_code_key")
			}
		}
		d.nextCourse++
		c.ID = d.nextCourse
		c.CreatedAt = r.s.now()
		stored := *c
		stored.Teacher = nil
		d.courses[c.ID] = stored
		return nil
	})
}

func (r *courseRepo) GetByID(_ context.Context, id int) (*model.Course, error) {
	var found model.Course
	err := r.s.read(func(d *data) error {
		c, ok := d.courses[id]
		if !ok {
			return repository.ErrNotFound
		}
		found = d.courseView(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *courseRepo) filter(match func(model.Course) bool) ([]model.Course, error) {
	out := []model.Course{}
	err := r.s.read(func(d *data) error {
		for _, c := range d.courses {
			if match(c) {
				out = append(out, d.courseView(c))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *courseRepo) List(_ context.Context) ([]model.Course, error) {
	return r.filter(func(model.Course) bool { return true })
}

func (r *courseRepo) ListByTeacher(_ context.Context, teacherID int) ([]model.Course, error) {
	return r.filter(func(c model.Course) bool { return policy.OwnsCourse(teacherID, &c) })
}

func (r *courseRepo) Search(_ context.Context, query string) ([]model.Course, error) {
	return r.filter(func(c model.Course) bool {
		return containsFold(c.Name, query) || containsFold(c.Code, query)
	})
}

func (r *courseRepo) UpdateOwned(_ context.Context, c *model.Course) error {
	return r.s.write(func(d *data) error {
		current, ok := d.courses[c.ID]
		if !ok || !policy.OwnsCourse(c.TeacherID, &current) {
			return repository.ErrNotFound
		}
		for _, other := range d.courses {
			if other.ID != c.ID && other.Code == c.Code {
				return duplicate(repository.FieldCode, "courses_code_key")
			}
		}
		current.Name = c.Name
		current.Code = c.Code
		current.Description = c.Description
		current.Credits = c.Credits
		d.courses[c.ID] = current
		return nil
	})
}

func (r *courseRepo) DeleteOwned(_ context.Context, id, teacherID int) error {
	return r.s.write(func(d *data) error {
		current, ok := d.courses[id]
		if !ok || !policy.OwnsCourse(teacherID, &current) {
			return repository.ErrNotFound
		}
		d.deleteCourse(id)
		return nil
	})
}

type enrollmentRepo struct{ s *Store }

// Create enforces the (student, course) uniqueness under the write lock, so
// concurrent callers racing past a prior Exists check still collide here.
func (r *enrollmentRepo) Create(_ context.Context, e *model.Enrollment) error {
	return r.s.write(func(d *data) error {
		if _, ok := d.students[e.StudentID]; !ok {
			return repository.ErrMissingReference
		}
		if _, ok := d.courses[e.CourseID]; !ok {
			return repository.ErrMissingReference
		}
		for _, existing := range d.enrollments {
			if existing.StudentID == e.StudentID && existing.CourseID == e.CourseID {
				return duplicate(repository.FieldEnrollment, "enrollments_student_course_key")
			}
		}
		d.nextEnrollment++
		e.ID = d.nextEnrollment
		e.EnrollmentDate = r.s.now()
		stored := *e
		stored.Student, stored.Course = nil, nil
		if e.Grade != nil {
			grade := *e.Grade
			stored.Grade = &grade
		}
		d.enrollments[e.ID] = stored
		return nil
	})
}

func (r *enrollmentRepo) GetByID(_ context.Context, id int) (*model.Enrollment, error) {
	var found model.Enrollment
	err := r.s.read(func(d *data) error {
		e, ok := d.enrollments[id]
		if !ok {
			return repository.ErrNotFound
		}
		found = d.enrollmentView(e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *enrollmentRepo) Exists(_ context.Context, studentID, courseID int) (bool, error) {
	var found bool
	err := r.s.read(func(d *data) error {
		for _, e := range d.enrollments {
			if e.StudentID == studentID && e.CourseID == courseID {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *enrollmentRepo) List(_ context.Context, f model.EnrollmentFilter) ([]model.Enrollment, error) {
	out := []model.Enrollment{}
	err := r.s.read(func(d *data) error {
		for _, e := range d.enrollments {
			if f.StudentID != 0 && e.StudentID != f.StudentID {
				continue
			}
			if f.CourseID != 0 && e.CourseID != f.CourseID {
				continue
			}
			if f.TeacherID != 0 && d.courses[e.CourseID].TeacherID != f.TeacherID {
				continue
			}
			out = append(out, d.enrollmentView(e))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if f.Recent {
		sort.Slice(out, func(i, j int) bool {
			if !out[i].EnrollmentDate.Equal(out[j].EnrollmentDate) {
				return out[i].EnrollmentDate.After(out[j].EnrollmentDate)
			}
			return out[i].ID > out[j].ID
		})
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *enrollmentRepo) DeleteForStudent(_ context.Context, id, studentID int) error {
	return r.s.write(func(d *data) error {
		e, ok := d.enrollments[id]
		if !ok || !policy.OwnsEnrollment(studentID, &e) {
			return repository.ErrNotFound
		}
		delete(d.enrollments, id)
		return nil
	})
}

func (r *enrollmentRepo) SetGradeForTeacher(_ context.Context, id, teacherID int, grade string) error {
	return r.s.write(func(d *data) error {
		e, ok := d.enrollments[id]
		if !ok {
			return repository.ErrNotFound
		}
		course := d.courses[e.CourseID]
		if !policy.OwnsCourse(teacherID, &course) {
			return repository.ErrNotFound
		}
		e.Grade = &grade
		d.enrollments[id] = e
		return nil
	})
}
