// Package memory implements the repository contracts in process memory. It
// enforces the same uniqueness, reference and cascade rules as the
// PostgreSQL schema and backs tests and STORAGE_DRIVER=memory runs.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/repository"
)

type data struct {
	accounts    map[int]model.Account
	tokens      map[string]model.Token
	students    map[int]model.Student
	teachers    map[int]model.Teacher
	courses     map[int]model.Course
	enrollments map[int]model.Enrollment

	nextAccount, nextStudent, nextTeacher, nextCourse, nextEnrollment int
}

func newData() *data {
	return &data{
		accounts:    map[int]model.Account{},
		tokens:      map[string]model.Token{},
		students:    map[int]model.Student{},
		teachers:    map[int]model.Teacher{},
		courses:     map[int]model.Course{},
		enrollments: map[int]model.Enrollment{},
	}
}

func (d *data) clone() *data {
	c := *d
	c.accounts = maps.Clone(d.accounts)
	c.tokens = maps.Clone(d.tokens)
	c.students = maps.Clone(d.students)
	c.teachers = maps.Clone(d.teachers)
	c.courses = maps.Clone(d.courses)
	c.enrollments = maps.Clone(d.enrollments)
	return &c
}

// Store is a mutex-guarded in-memory repository.Store.
type Store struct {
	mu   *sync.RWMutex
	root *Store
	d    *data
	inTx bool
	now  func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	s := &Store{mu: &sync.RWMutex{}, d: newData(), now: time.Now}
	s.root = s
	return s
}

func (s *Store) Accounts() repository.AccountRepository       { return &accountRepo{s} }
func (s *Store) Tokens() repository.TokenRepository           { return &tokenRepo{s} }
func (s *Store) Students() repository.StudentRepository       { return &studentRepo{s} }
func (s *Store) Teachers() repository.TeacherRepository       { return &teacherRepo{s} }
func (s *Store) Courses() repository.CourseRepository         { return &courseRepo{s} }
func (s *Store) Enrollments() repository.EnrollmentRepository { return &enrollmentRepo{s} }

// WithinTx runs fn on a private copy of the data while holding the write
// lock, and publishes the copy only if fn succeeds. fn must use tx, not the
// outer store.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{mu: s.mu, root: s.root, d: s.root.d.clone(), inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.root.d = tx.d
	return nil
}

func (s *Store) read(fn func(d *data) error) error {
	if !s.inTx {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	return fn(s.d)
}

func (s *Store) write(fn func(d *data) error) error {
	if !s.inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.d)
}

// today mirrors a DATE column default.
func (s *Store) today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

// ─── Views ──────────────────────────────────────────────────────────

func (d *data) studentView(st model.Student) model.Student {
	acc := d.accounts[st.AccountID]
	st.User = &acc
	return st
}

func (d *data) teacherView(t model.Teacher) model.Teacher {
	acc := d.accounts[t.AccountID]
	t.User = &acc
	return t
}

func (d *data) courseView(c model.Course) model.Course {
	t := d.teacherView(d.teachers[c.TeacherID])
	c.Teacher = &t
	return c
}

func (d *data) enrollmentView(e model.Enrollment) model.Enrollment {
	st := d.studentView(d.students[e.StudentID])
	c := d.courseView(d.courses[e.CourseID])
	e.Student = &st
	e.Course = &c
	return e
}

// ─── Cascades ───────────────────────────────────────────────────────

func (d *data) deleteStudent(id int) {
	delete(d.students, id)
	for eid, e := range d.enrollments {
		if e.StudentID == id {
			delete(d.enrollments, eid)
		}
	}
}

func (d *data) deleteCourse(id int) {
	delete(d.courses, id)
	for eid, e := range d.enrollments {
		if e.CourseID == id {
			delete(d.enrollments, eid)
		}
	}
}

func (d *data) deleteTeacher(id int) {
	delete(d.teachers, id)
	for cid, c := range d.courses {
		if c.TeacherID == id {
			d.deleteCourse(cid)
		}
	}
}

func duplicate(field, constraint string) error {
	return &repository.DuplicateError{Field: field, Constraint: constraint}
}
