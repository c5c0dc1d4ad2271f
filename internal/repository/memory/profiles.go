package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/repository"
)

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

type studentRepo struct{ s *Store }

func (r *studentRepo) Create(_ context.Context, st *model.Student) error {
	return r.s.write(func(d *data) error {
		if _, ok := d.accounts[st.AccountID]; !ok {
			return repository.ErrMissingReference
		}
		for _, existing := range d.students {
			if existing.AccountID == st.AccountID {
				return duplicate(repository.FieldAccount, "students_account_id_key")
			}
			if existing.StudentID == st.StudentID {
				return duplicate(repository.FieldStudentID, "students_student_id_key")
			}
		}
		d.nextStudent++
		st.ID = d.nextStudent
		st.EnrollmentDate = r.s.today()
		stored := *st
		stored.User = nil
		d.students[st.ID] = stored
		return nil
	})
}

func (r *studentRepo) find(match func(model.Student) bool) (*model.Student, error) {
	var found *model.Student
	err := r.s.read(func(d *data) error {
		for _, st := range d.students {
			if match(st) {
				view := d.studentView(st)
				found = &view
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return found, err
}

func (r *studentRepo) GetByID(_ context.Context, id int) (*model.Student, error) {
	return r.find(func(st model.Student) bool { return st.ID == id })
}

func (r *studentRepo) GetByAccountID(_ context.Context, accountID int) (*model.Student, error) {
	return r.find(func(st model.Student) bool { return st.AccountID == accountID })
}

func (r *studentRepo) ExistsByStudentID(_ context.Context, studentID string) (bool, error) {
	_, err := r.find(func(st model.Student) bool { return st.StudentID == studentID })
	return exists(err)
}

func (r *studentRepo) filter(match func(d *data, st model.Student) bool) ([]model.Student, error) {
	out := []model.Student{}
	err := r.s.read(func(d *data) error {
		for _, st := range d.students {
			if match(d, st) {
				out = append(out, d.studentView(st))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *studentRepo) List(_ context.Context) ([]model.Student, error) {
	return r.filter(func(*data, model.Student) bool { return true })
}

func (r *studentRepo) Search(_ context.Context, query string) ([]model.Student, error) {
	return r.filter(func(d *data, st model.Student) bool {
		acc := d.accounts[st.AccountID]
		return containsFold(acc.FirstName, query) || containsFold(acc.LastName, query) || containsFold(st.StudentID, query)
	})
}

func (r *studentRepo) Update(_ context.Context, st *model.Student) error {
	return r.s.write(func(d *data) error {
		current, ok := d.students[st.ID]
		if !ok {
			return repository.ErrNotFound
		}
		for _, other := range d.students {
			if other.ID != st.ID && other.StudentID == st.StudentID {
				return duplicate(repository.FieldStudentID, "students_student_id_key")
			}
		}
		current.StudentID = st.StudentID
		current.PhoneNumber = st.PhoneNumber
		current.DateOfBirth = st.DateOfBirth
		current.Address = st.Address
		d.students[st.ID] = current
		return nil
	})
}

func (r *studentRepo) Delete(_ context.Context, id int) error {
	return r.s.write(func(d *data) error {
		if _, ok := d.students[id]; !ok {
			return repository.ErrNotFound
		}
		d.deleteStudent(id)
		return nil
	})
}

type teacherRepo struct{ s *Store }

func (r *teacherRepo) Create(_ context.Context, t *model.Teacher) error {
	return r.s.write(func(d *data) error {
		if _, ok := d.accounts[t.AccountID]; !ok {
			return repository.ErrMissingReference
		}
		for _, existing := range d.teachers {
			if existing.AccountID == t.AccountID {
				return duplicate(repository.FieldAccount, "teachers_account_id_key")
			}
			if existing.EmployeeID == t.EmployeeID {
				return duplicate(repository.FieldEmployeeID, "teachers_employee_id_key")
			}
		}
		d.nextTeacher++
		t.ID = d.nextTeacher
		t.HireDate = r.s.today()
		stored := *t
		stored.User = nil
		d.teachers[t.ID] = stored
		return nil
	})
}

func (r *teacherRepo) find(match func(model.Teacher) bool) (*model.Teacher, error) {
	var found *model.Teacher
	err := r.s.read(func(d *data) error {
		for _, t := range d.teachers {
			if match(t) {
				view := d.teacherView(t)
				found = &view
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return found, err
}

func (r *teacherRepo) GetByID(_ context.Context, id int) (*model.Teacher, error) {
	return r.find(func(t model.Teacher) bool { return t.ID == id })
}

func (r *teacherRepo) GetByAccountID(_ context.Context, accountID int) (*model.Teacher, error) {
	return r.find(func(t model.Teacher) bool { return t.AccountID == accountID })
}

func (r *teacherRepo) ExistsByEmployeeID(_ context.Context, employeeID string) (bool, error) {
	_, err := r.find(func(t model.Teacher) bool { return t.EmployeeID == employeeID })
	return exists(err)
}

func (r *teacherRepo) List(_ context.Context) ([]model.Teacher, error) {
	out := []model.Teacher{}
	err := r.s.read(func(d *data) error {
		for _, t := range d.teachers {
			out = append(out, d.teacherView(t))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *teacherRepo) Update(_ context.Context, t *model.Teacher) error {
	return r.s.write(func(d *data) error {
		current, ok := d.teachers[t.ID]
		if !ok {
			return repository.ErrNotFound
		}
		for _, other := range d.teachers {
			if other.ID != t.ID && other.EmployeeID == t.EmployeeID {
				return duplicate(repository.FieldEmployeeID, "teachers_employee_id_key")
			}
		}
		current.EmployeeID = t.EmployeeID
		current.PhoneNumber = t.PhoneNumber
		current.SubjectSpecialization = t.SubjectSpecialization
		d.teachers[t.ID] = current
		return nil
	})
}

func (r *teacherRepo) Delete(_ context.Context, id int) error {
	return r.s.write(func(d *data) error {
		if _, ok := d.teachers[id]; !ok {
			return repository.ErrNotFound
		}
		d.deleteTeacher(id)
		return nil
	})
}
