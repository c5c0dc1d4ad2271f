package postgres

import (
	"context"
	"strconv"

	"github.com/stemsi/academic-records/internal/model"
)

// EnrollmentRepository handles enrollment data access. The
// enrollments_student_course_key constraint is the only guard against
// duplicate pairs; callers must not rely on a prior Exists check.
type EnrollmentRepository struct {
	db DBTX
}

// Create inserts the pair and fills id and enrollment date.
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO enrollments (student_id, course_id, grade)
		 VALUES ($1, $2, $3)
		 RETURNING id, enrollment_date`,
		e.StudentID, e.CourseID, e.Grade,
	).Scan(&e.ID, &e.EnrollmentDate)
	return translate(err)
}

// GetByID retrieves an enrollment with its student and course views.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int) (*model.Enrollment, error) {
	return queryOne(ctx, r.db, enrollmentDest, enrollmentSelect+enrollmentFrom+` WHERE e.id = $1`, id)
}

func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, courseID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2)`,
		studentID, courseID,
	).Scan(&exists)
	return exists, translate(err)
}

// List returns enrollments matching f, by id unless f.Recent is set.
func (r *EnrollmentRepository) List(ctx context.Context, f model.EnrollmentFilter) ([]model.Enrollment, error) {
	query := enrollmentSelect + enrollmentFrom + ` WHERE TRUE`
	var args []any
	argIdx := 1

	if f.StudentID != 0 {
		query += ` AND e.student_id = $` + strconv.Itoa(argIdx)
		args = append(args, f.StudentID)
		argIdx++
	}
	if f.CourseID != 0 {
		query += ` AND e.course_id = $` + strconv.Itoa(argIdx)
		args = append(args, f.CourseID)
		argIdx++
	}
	if f.TeacherID != 0 {
		query += ` AND c.teacher_id = $` + strconv.Itoa(argIdx)
		args = append(args, f.TeacherID)
		argIdx++
	}

	if f.Recent {
		query += ` ORDER BY e.enrollment_date DESC, e.id DESC`
	} else {
		query += ` ORDER BY e.id`
	}
	if f.Limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(argIdx)
		args = append(args, f.Limit)
	}

	return queryList(ctx, r.db, enrollmentDest, query, args...)
}

// DeleteForStudent deletes in one statement scoped by owner, so a foreign
// id and a missing id are indistinguishable.
func (r *EnrollmentRepository) DeleteForStudent(ctx context.Context, id, studentID int) error {
	return requireRow(r.db.Exec(ctx,
		`DELETE FROM enrollments WHERE id = $1 AND student_id = $2`, id, studentID))
}

// SetGradeForTeacher updates the grade joined through course ownership.
func (r *EnrollmentRepository) SetGradeForTeacher(ctx context.Context, id, teacherID int, grade string) error {
	return requireRow(r.db.Exec(ctx,
		`UPDATE enrollments e SET grade = $1
		 FROM courses c
		 WHERE e.id = $2 AND c.id = e.course_id AND c.teacher_id = $3`,
		grade, id, teacherID,
	))
}
