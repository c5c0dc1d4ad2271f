package postgres

import (
	"context"

	"github.com/stemsi/academic-records/internal/model"
)

// TeacherRepository handles teacher profile data access.
type TeacherRepository struct {
	db DBTX
}

// Create inserts a profile for t.AccountID and fills its id and hire date.
func (r *TeacherRepository) Create(ctx context.Context, t *model.Teacher) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO teachers (account_id, employee_id, phone_number, subject_specialization)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, hire_date`,
		t.AccountID, t.EmployeeID, t.PhoneNumber, t.SubjectSpecialization,
	).Scan(&t.ID, &t.HireDate)
	return translate(err)
}

func (r *TeacherRepository) GetByID(ctx context.Context, id int) (*model.Teacher, error) {
	return queryOne(ctx, r.db, teacherDest, teacherSelect+teacherFrom+` WHERE t.id = $1`, id)
}

func (r *TeacherRepository) GetByAccountID(ctx context.Context, accountID int) (*model.Teacher, error) {
	return queryOne(ctx, r.db, teacherDest, teacherSelect+teacherFrom+` WHERE t.account_id = $1`, accountID)
}

func (r *TeacherRepository) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM teachers WHERE employee_id = $1)`, employeeID).Scan(&exists)
	return exists, translate(err)
}

func (r *TeacherRepository) List(ctx context.Context) ([]model.Teacher, error) {
	return queryList(ctx, r.db, teacherDest, teacherSelect+teacherFrom+` ORDER BY t.id`)
}

func (r *TeacherRepository) Update(ctx context.Context, t *model.Teacher) error {
	return requireRow(r.db.Exec(ctx,
		`UPDATE teachers SET employee_id = $1, phone_number = $2, subject_specialization = $3
		 WHERE id = $4`,
		t.EmployeeID, t.PhoneNumber, t.SubjectSpecialization, t.ID,
	))
}

// Delete removes the profile; its courses and their enrollments cascade.
func (r *TeacherRepository) Delete(ctx context.Context, id int) error {
	return requireRow(r.db.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id))
}
