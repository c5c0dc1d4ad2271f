package model

import "context"

// Role is the resolved actor type of an authenticated account.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Principal is the resolved identity of a request: exactly one of Student or
// Teacher is set for the matching role, neither for admin.
type Principal struct {
	Role    Role
	Account *Account
	Student *Student
	Teacher *Teacher
	// TokenKey is the credential the request authenticated with.
	TokenKey string
}

// StudentPrincipal builds a student principal.
func StudentPrincipal(acc *Account, s *Student) *Principal {
	return &Principal{Role: RoleStudent, Account: acc, Student: s}
}

// TeacherPrincipal builds a teacher principal.
func TeacherPrincipal(acc *Account, t *Teacher) *Principal {
	return &Principal{Role: RoleTeacher, Account: acc, Teacher: t}
}

// AdminPrincipal builds an admin principal without a profile.
func AdminPrincipal(acc *Account) *Principal {
	return &Principal{Role: RoleAdmin, Account: acc}
}

// ProfileID returns the id of the role profile, or nil for admins.
func (p *Principal) ProfileID() *int {
	switch {
	case p == nil:
		return nil
	case p.Role == RoleStudent && p.Student != nil:
		return &p.Student.ID
	case p.Role == RoleTeacher && p.Teacher != nil:
		return &p.Teacher.ID
	}
	return nil
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal carried by ctx, or nil.
func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}
