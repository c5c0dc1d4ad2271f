package postgres

import (
	"context"

	"github.com/stemsi/academic-records/internal/model"
)

// CourseRepository handles course data access.
type CourseRepository struct {
	db DBTX
}

// Create inserts a course owned by c.TeacherID.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO courses (name, code, description, teacher_id, credits)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		c.Name, c.Code, c.Description, c.TeacherID, c.Credits,
	).Scan(&c.ID, &c.CreatedAt)
	return translate(err)
}

// GetByID retrieves a course with its teacher.
func (r *CourseRepository) GetByID(ctx context.Context, id int) (*model.Course, error) {
	return queryOne(ctx, r.db, courseDest, courseSelect+courseFrom+` WHERE c.id = $1`, id)
}

func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	return queryList(ctx, r.db, courseDest, courseSelect+courseFrom+` ORDER BY c.id`)
}

func (r *CourseRepository) ListByTeacher(ctx context.Context, teacherID int) ([]model.Course, error) {
	return queryList(ctx, r.db, courseDest,
		courseSelect+courseFrom+` WHERE c.teacher_id = $1 ORDER BY c.id`, teacherID)
}

// Search matches name or code, case-insensitively.
func (r *CourseRepository) Search(ctx context.Context, query string) ([]model.Course, error) {
	return queryList(ctx, r.db, courseDest,
		courseSelect+courseFrom+` WHERE c.name ILIKE $1 OR c.code ILIKE $1 ORDER BY c.id`,
		likePattern(query))
}

// UpdateOwned writes the course only while c.TeacherID owns it.
func (r *CourseRepository) UpdateOwned(ctx context.Context, c *model.Course) error {
	return requireRow(r.db.Exec(ctx,
		`UPDATE courses SET name = $1, code = $2, description = $3, credits = $4
		 WHERE id = $5 AND teacher_id = $6`,
		c.Name, c.Code, c.Description, c.Credits, c.ID, c.TeacherID,
	))
}

// DeleteOwned removes the course only while teacherID owns it.
func (r *CourseRepository) DeleteOwned(ctx context.Context, id, teacherID int) error {
	return requireRow(r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1 AND teacher_id = $2`, id, teacherID))
}
