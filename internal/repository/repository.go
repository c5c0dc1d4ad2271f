// Package repository declares the storage contracts of the records service.
// Implementations live in the postgres and memory subpackages and translate
// their native failures into the errors declared here.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/stemsi/academic-records/internal/model"
)

var (
	// ErrNotFound is returned when a lookup, or an owner-scoped write, matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrMissingReference is returned when a write points at a row that does not exist.
	ErrMissingReference = errors.New("referenced record does not exist")
)

// Fields reported by DuplicateError.
const (
	FieldUsername   = "username"
	FieldEmail      = "email"
	FieldStudentID  = "student_id"
	FieldEmployeeID = "employee_id"
	FieldCode       = "code"
	FieldAccount    = "account"
	FieldEnrollment = "enrollment"
)

// DuplicateError reports a violated uniqueness constraint.
type DuplicateError struct {
	Field      string
	Constraint string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate value for %s (%s)", e.Field, e.Constraint)
}

// AsDuplicate unwraps a DuplicateError from err.
func AsDuplicate(err error) (*DuplicateError, bool) {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup, true
	}
	return nil, false
}

type AccountRepository interface {
	Create(ctx context.Context, a *model.Account) error
	GetByID(ctx context.Context, id int) (*model.Account, error)
	GetByUsername(ctx context.Context, username string) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type TokenRepository interface {
	// GetOrCreate returns the account's token, inserting candidateKey if it has none.
	GetOrCreate(ctx context.Context, accountID int, candidateKey string) (*model.Token, error)
	GetByKey(ctx context.Context, key string) (*model.Token, error)
	GetByAccountID(ctx context.Context, accountID int) (*model.Token, error)
	Delete(ctx context.Context, key string) error
}

type StudentRepository interface {
	Create(ctx context.Context, s *model.Student) error
	GetByID(ctx context.Context, id int) (*model.Student, error)
	GetByAccountID(ctx context.Context, accountID int) (*model.Student, error)
	ExistsByStudentID(ctx context.Context, studentID string) (bool, error)
	List(ctx context.Context) ([]model.Student, error)
	Search(ctx context.Context, query string) ([]model.Student, error)
	Update(ctx context.Context, s *model.Student) error
	Delete(ctx context.Context, id int) error
}

type TeacherRepository interface {
	Create(ctx context.Context, t *model.Teacher) error
	GetByID(ctx context.Context, id int) (*model.Teacher, error)
	GetByAccountID(ctx context.Context, accountID int) (*model.Teacher, error)
	ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error)
	List(ctx context.Context) ([]model.Teacher, error)
	Update(ctx context.Context, t *model.Teacher) error
	Delete(ctx context.Context, id int) error
}

type CourseRepository interface {
	Create(ctx context.Context, c *model.Course) error
	GetByID(ctx context.Context, id int) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	ListByTeacher(ctx context.Context, teacherID int) ([]model.Course, error)
	Search(ctx context.Context, query string) ([]model.Course, error)
	// UpdateOwned writes c only if c.TeacherID still owns it.
	UpdateOwned(ctx context.Context, c *model.Course) error
	DeleteOwned(ctx context.Context, id, teacherID int) error
}

type EnrollmentRepository interface {
	Create(ctx context.Context, e *model.Enrollment) error
	GetByID(ctx context.Context, id int) (*model.Enrollment, error)
	Exists(ctx context.Context, studentID, courseID int) (bool, error)
	List(ctx context.Context, f model.EnrollmentFilter) ([]model.Enrollment, error)
	// DeleteForStudent removes the enrollment only when studentID owns it.
	DeleteForStudent(ctx context.Context, id, studentID int) error
	// SetGradeForTeacher grades the enrollment only when teacherID owns its course.
	SetGradeForTeacher(ctx context.Context, id, teacherID int, grade string) error
}

// Store vends repositories bound to one connection or transaction.
type Store interface {
	Accounts() AccountRepository
	Tokens() TokenRepository
	Students() StudentRepository
	Teachers() TeacherRepository
	Courses() CourseRepository
	Enrollments() EnrollmentRepository
	// WithinTx runs fn against a transactional view of the store. A non-nil
	// error from fn rolls back every write made through tx.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
