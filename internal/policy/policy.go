// Package policy holds the authorization predicates of the records service.
// Role rules gate operations by the resolved principal; ownership predicates
// gate individual records by profile id.
package policy

import "github.com/stemsi/academic-records/internal/model"

// Operation classifies a request as a read or a write.
type Operation int

const (
	Read Operation = iota
	Write
)

func (o Operation) String() string {
	if o == Write {
		return "write"
	}
	return "read"
}

// Rule decides whether p may perform op.
type Rule func(p *model.Principal, op Operation) bool

// Authenticated passes any resolved principal.
func Authenticated(p *model.Principal, _ Operation) bool {
	return p != nil && p.Account != nil
}

// IsStudent passes principals resolved to a student profile.
func IsStudent(p *model.Principal, _ Operation) bool {
	return p != nil && p.Role == model.RoleStudent && p.Student != nil
}

// IsTeacher passes principals resolved to a teacher profile.
func IsTeacher(p *model.Principal, _ Operation) bool {
	return p != nil && p.Role == model.RoleTeacher && p.Teacher != nil
}

// IsStudentOrTeacher passes either profile role.
var IsStudentOrTeacher = Any(IsStudent, IsTeacher)

// IsAdminOrReadOnly lets every authenticated principal read and only
// accounts with staff or superuser flags write.
func IsAdminOrReadOnly(p *model.Principal, op Operation) bool {
	if !Authenticated(p, op) {
		return false
	}
	return op == Read || p.Account.IsElevated()
}

// Any passes when at least one rule passes.
func Any(rules ...Rule) Rule {
	return func(p *model.Principal, op Operation) bool {
		for _, rule := range rules {
			if rule(p, op) {
				return true
			}
		}
		return false
	}
}

// All passes when every rule passes. All() with no rules passes.
func All(rules ...Rule) Rule {
	return func(p *model.Principal, op Operation) bool {
		for _, rule := range rules {
			if !rule(p, op) {
				return false
			}
		}
		return true
	}
}

// OwnsCourse reports whether the teacher profile owns c.
func OwnsCourse(teacherID int, c *model.Course) bool {
	return c != nil && c.TeacherID == teacherID
}

// OwnsEnrollment reports whether the student profile owns e.
func OwnsEnrollment(studentID int, e *model.Enrollment) bool {
	return e != nil && e.StudentID == studentID
}
