package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stemsi/academic-records/internal/model"
)

func principals() map[string]*model.Principal {
	return map[string]*model.Principal{
		"student":    model.StudentPrincipal(&model.Account{ID: 1}, &model.Student{ID: 10}),
		"teacher":    model.TeacherPrincipal(&model.Account{ID: 2}, &model.Teacher{ID: 20}),
		"staff":      model.AdminPrincipal(&model.Account{ID: 3, IsStaff: true}),
		"superuser":  model.AdminPrincipal(&model.Account{ID: 4, IsSuperuser: true}),
		"bare admin": model.AdminPrincipal(&model.Account{ID: 5}),
	}
}

func TestRoleRules(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		op    Operation
		allow []string
	}{
		{"IsStudent", IsStudent, Write, []string{"student"}},
		{"IsTeacher", IsTeacher, Write, []string{"teacher"}},
		{"IsStudentOrTeacher", IsStudentOrTeacher, Read, []string{"student", "teacher"}},
		{"IsAdminOrReadOnly read", IsAdminOrReadOnly, Read, []string{"student", "teacher", "staff", "superuser", "bare admin"}},
		{"IsAdminOrReadOnly write", IsAdminOrReadOnly, Write, []string{"staff", "superuser"}},
		{"Authenticated", Authenticated, Write, []string{"student", "teacher", "staff", "superuser", "bare admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for name, p := range principals() {
				assert.Equal(t, contains(tt.allow, name), tt.rule(p, tt.op), name)
			}
			assert.False(t, tt.rule(nil, tt.op), "anonymous")
		})
	}
}

func TestStudentRoleWithoutProfileIsDenied(t *testing.T) {
	p := &model.Principal{Role: model.RoleStudent, Account: &model.Account{ID: 1}}
	assert.False(t, IsStudent(p, Read))
}

func TestCombinators(t *testing.T) {
	p := principals()["teacher"]

	assert.True(t, All(Authenticated, IsTeacher)(p, Write))
	assert.False(t, All(Authenticated, IsStudent)(p, Write))
	assert.True(t, Any(IsStudent, IsTeacher)(p, Write))
	assert.False(t, Any()(p, Read))
	assert.True(t, All()(p, Read))
}

func TestOwnership(t *testing.T) {
	course := &model.Course{ID: 7, TeacherID: 20}
	assert.True(t, OwnsCourse(20, course))
	assert.False(t, OwnsCourse(21, course))
	assert.False(t, OwnsCourse(20, nil))

	enrollment := &model.Enrollment{ID: 9, StudentID: 10, CourseID: 7}
	assert.True(t, OwnsEnrollment(10, enrollment))
	assert.False(t, OwnsEnrollment(11, enrollment))
	assert.False(t, OwnsEnrollment(10, nil))
}

func TestOperationString(t *testing.T) {
	assert.Equal(t, "read", Read.String())
	assert.Equal(t, "write", Write.String())
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
