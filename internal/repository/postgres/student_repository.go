package postgres

import (
	"context"

	"github.com/stemsi/academic-records/internal/model"
)

// StudentRepository handles student profile data access.
type StudentRepository struct {
	db DBTX
}

// Create inserts a profile for s.AccountID and fills its id and enrollment date.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO students (account_id, student_id, phone_number, date_of_birth, address)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, enrollment_date`,
		s.AccountID, s.StudentID, s.PhoneNumber, s.DateOfBirth.Time(), s.Address,
	).Scan(&s.ID, &s.EnrollmentDate)
	return translate(err)
}

// GetByID retrieves a student with its account.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return queryOne(ctx, r.db, studentDest, studentSelect+studentFrom+` WHERE s.id = $1`, id)
}

// GetByAccountID retrieves the student profile of an account.
func (r *StudentRepository) GetByAccountID(ctx context.Context, accountID int) (*model.Student, error) {
	return queryOne(ctx, r.db, studentDest, studentSelect+studentFrom+` WHERE s.account_id = $1`, accountID)
}

func (r *StudentRepository) ExistsByStudentID(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE student_id = $1)`, studentID).Scan(&exists)
	return exists, translate(err)
}

// List returns every student ordered by id.
func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	return queryList(ctx, r.db, studentDest, studentSelect+studentFrom+` ORDER BY s.id`)
}

// Search matches first name, last name or student_id, case-insensitively.
func (r *StudentRepository) Search(ctx context.Context, query string) ([]model.Student, error) {
	return queryList(ctx, r.db, studentDest,
		studentSelect+studentFrom+`
		 WHERE sa.first_name ILIKE $1 OR sa.last_name ILIKE $1 OR s.student_id ILIKE $1
		 ORDER BY s.id`,
		likePattern(query))
}

// Update writes the mutable profile fields.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	return requireRow(r.db.Exec(ctx,
		`UPDATE students SET student_id = $1, phone_number = $2, date_of_birth = $3, address = $4
		 WHERE id = $5`,
		s.StudentID, s.PhoneNumber, s.DateOfBirth.Time(), s.Address, s.ID,
	))
}

// Delete removes the profile. Enrollments cascade; the account stays.
func (r *StudentRepository) Delete(ctx context.Context, id int) error {
	return requireRow(r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id))
}
