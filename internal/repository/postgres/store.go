// Package postgres implements the repository contracts on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/repository"
)

// PostgreSQL error codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// constraintFields maps named unique constraints to the field they guard.
var constraintFields = map[string]string{
	"accounts_username_key":          repository.FieldUsername,
	"accounts_email_key":             repository.FieldEmail,
	"auth_tokens_account_id_key":     repository.FieldAccount,
	"students_account_id_key":        repository.FieldAccount,
	"students_student_id_key":        repository.FieldStudentID,
	"teachers_account_id_key":        repository.FieldAccount,
	"teachers_employee_id_key":       repository.FieldEmployeeID,
	"courses_code_key":               repository.FieldCode,
	"enrollments_student_course_key": repository.FieldEnrollment,
}

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store hands out repositories bound to the pool, or to a transaction
// inside WithinTx.
type Store struct {
	pool *pgxpool.Pool
	db   DBTX
}

// NewStore creates a new Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

func (s *Store) Accounts() repository.AccountRepository       { return &AccountRepository{db: s.db} }
func (s *Store) Tokens() repository.TokenRepository           { return &TokenRepository{db: s.db} }
func (s *Store) Students() repository.StudentRepository       { return &StudentRepository{db: s.db} }
func (s *Store) Teachers() repository.TeacherRepository       { return &TeacherRepository{db: s.db} }
func (s *Store) Courses() repository.CourseRepository         { return &CourseRepository{db: s.db} }
func (s *Store) Enrollments() repository.EnrollmentRepository { return &EnrollmentRepository{db: s.db} }

// WithinTx runs fn in a transaction. Nested calls join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if _, inTx := s.db.(pgx.Tx); inTx {
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// Rollback after a successful commit is a no-op.
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(&Store{pool: s.pool, db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", translate(err))
	}
	return nil
}

// translate maps pgx failures onto repository errors. Unknown errors pass
// through untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return &repository.DuplicateError{Field: constraintFields[pgErr.ConstraintName], Constraint: pgErr.ConstraintName}
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", repository.ErrMissingReference, pgErr.ConstraintName)
		}
	}
	return err
}

// requireRow turns a zero-row write into ErrNotFound.
func requireRow(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// likePattern builds a case-insensitive substring pattern with LIKE
// metacharacters escaped.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

// ─── Column lists and scan targets ──────────────────────────────────

func columns(alias string, names ...string) string {
	qualified := make([]string, len(names))
	for i, n := range names {
		qualified[i] = alias + "." + n
	}
	return strings.Join(qualified, ", ")
}

func accountColumns(alias string) string {
	return columns(alias, "id", "username", "email", "first_name", "last_name",
		"password_hash", "is_active", "is_staff", "is_superuser", "date_joined")
}

func accountDest(a *model.Account) []any {
	return []any{&a.ID, &a.Username, &a.Email, &a.FirstName, &a.LastName,
		&a.PasswordHash, &a.IsActive, &a.IsStaff, &a.IsSuperuser, &a.DateJoined}
}

// Students join their account as sa.
var studentSelect = `SELECT ` +
	columns("s", "id", "account_id", "student_id", "phone_number", "date_of_birth", "address", "enrollment_date") +
	`, ` + accountColumns("sa")

const studentFrom = ` FROM students s JOIN accounts sa ON sa.id = s.account_id`

func studentDest(s *model.Student) []any {
	s.User = &model.Account{}
	dest := []any{&s.ID, &s.AccountID, &s.StudentID, &s.PhoneNumber,
		(*time.Time)(&s.DateOfBirth), &s.Address, &s.EnrollmentDate}
	return append(dest, accountDest(s.User)...)
}

// Teachers join their account as ta.
var teacherSelect = `SELECT ` +
	columns("t", "id", "account_id", "employee_id", "phone_number", "subject_specialization", "hire_date") +
	`, ` + accountColumns("ta")

const teacherFrom = ` FROM teachers t JOIN accounts ta ON ta.id = t.account_id`

func teacherDest(t *model.Teacher) []any {
	t.User = &model.Account{}
	dest := []any{&t.ID, &t.AccountID, &t.EmployeeID, &t.PhoneNumber, &t.SubjectSpecialization, &t.HireDate}
	return append(dest, accountDest(t.User)...)
}

var courseColumns = columns("c", "id", "name", "code", "description", "teacher_id", "credits", "created_at") +
	`, ` + columns("t", "id", "account_id", "employee_id", "phone_number", "subject_specialization", "hire_date") +
	`, ` + accountColumns("ta")

var courseSelect = `SELECT ` + courseColumns

const courseFrom = ` FROM courses c
	JOIN teachers t ON t.id = c.teacher_id
	JOIN accounts ta ON ta.id = t.account_id`

func courseDest(c *model.Course) []any {
	c.Teacher = &model.Teacher{}
	dest := []any{&c.ID, &c.Name, &c.Code, &c.Description, &c.TeacherID, &c.Credits, &c.CreatedAt}
	return append(dest, teacherDest(c.Teacher)...)
}

var enrollmentSelect = `SELECT ` +
	columns("e", "id", "student_id", "course_id", "enrollment_date", "grade") +
	`, ` + columns("s", "id", "account_id", "student_id", "phone_number", "date_of_birth", "address", "enrollment_date") +
	`, ` + accountColumns("sa") +
	`, ` + courseColumns

const enrollmentFrom = ` FROM enrollments e
	JOIN students s ON s.id = e.student_id
	JOIN accounts sa ON sa.id = s.account_id
	JOIN courses c ON c.id = e.course_id
	JOIN teachers t ON t.id = c.teacher_id
	JOIN accounts ta ON ta.id = t.account_id`

func enrollmentDest(e *model.Enrollment) []any {
	e.Student = &model.Student{}
	e.Course = &model.Course{}
	dest := []any{&e.ID, &e.StudentID, &e.CourseID, &e.EnrollmentDate, &e.Grade}
	dest = append(dest, studentDest(e.Student)...)
	return append(dest, courseDest(e.Course)...)
}

// collect scans every row into a fresh T. The result is never nil.
func collect[T any](rows pgx.Rows, dest func(*T) []any) ([]T, error) {
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		var item T
		if err := rows.Scan(dest(&item)...); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func queryList[T any](ctx context.Context, db DBTX, dest func(*T) []any, sql string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err)
	}
	items, err := collect(rows, dest)
	return items, translate(err)
}

func queryOne[T any](ctx context.Context, db DBTX, dest func(*T) []any, sql string, args ...any) (*T, error) {
	var item T
	if err := db.QueryRow(ctx, sql, args...).Scan(dest(&item)...); err != nil {
		return nil, translate(err)
	}
	return &item, nil
}
