package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stemsi/academic-records/internal/config"
	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/repository"
	"github.com/stemsi/academic-records/internal/repository/memory"
)

const testPassword = "pw12345678"

func testConfig() *config.Config {
	return &config.Config{BcryptCost: bcrypt.MinCost, TokenCacheTTL: time.Minute}
}

func newAuthService(store repository.Store, cache TokenCache) *AuthService {
	return NewAuthService(testConfig(), store, NewRoleResolver(store), cache, zerolog.Nop())
}

func accountRequest(username string) model.AccountRequest {
	return model.AccountRequest{
		Username:        username,
		Email:           username + "@x.com",
		FirstName:       username,
		LastName:        "Tester",
		Password:        testPassword,
		PasswordConfirm: testPassword,
	}
}

func studentFields(studentID string) model.StudentProfileFields {
	return model.StudentProfileFields{
		StudentID:   studentID,
		PhoneNumber: "555-0100",
		DateOfBirth: "2005-04-12",
		Address:     "1 College Road",
	}
}

func teacherFields(employeeID string) model.TeacherProfileFields {
	return model.TeacherProfileFields{
		EmployeeID:            employeeID,
		PhoneNumber:           "555-0200",
		SubjectSpecialization: "Computer Science",
	}
}

// world is a small seeded ledger: two students, two teachers, one course each.
type world struct {
	store        *memory.Store
	alice, carol *model.Student
	bob, dave    *model.Teacher
	cs101, ma201 *model.Course
}

func newWorld(t *testing.T) *world {
	t.Helper()
	ctx := context.Background()
	w := &world{store: memory.NewStore()}

	w.alice = seedStudent(t, w.store, "alice", "S001")
	w.carol = seedStudent(t, w.store, "carol", "S002")
	w.bob = seedTeacher(t, w.store, "bob", "E001")
	w.dave = seedTeacher(t, w.store, "dave", "E002")

	w.cs101 = &model.Course{Name: "Intro to CS", Code: "CS101", TeacherID: w.bob.ID, Credits: model.DefaultCredits}
	require.NoError(t, w.store.Courses().Create(ctx, w.cs101))
	w.ma201 = &model.Course{Name: "Linear Algebra", Code: "MA201", TeacherID: w.dave.ID, Credits: 4}
	require.NoError(t, w.store.Courses().Create(ctx, w.ma201))
	return w
}

func seedAccount(t *testing.T, store repository.Store, username string) *model.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	acc := &model.Account{
		Username:     username,
		Email:        username + "@x.com",
		FirstName:    username,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	require.NoError(t, store.Accounts().Create(context.Background(), acc))
	return acc
}

func seedStudent(t *testing.T, store repository.Store, username, studentID string) *model.Student {
	t.Helper()
	acc := seedAccount(t, store, username)
	st := &model.Student{AccountID: acc.ID, StudentID: studentID}
	require.NoError(t, store.Students().Create(context.Background(), st))
	st.User = acc
	return st
}

func seedTeacher(t *testing.T, store repository.Store, username, employeeID string) *model.Teacher {
	t.Helper()
	acc := seedAccount(t, store, username)
	teacher := &model.Teacher{AccountID: acc.ID, EmployeeID: employeeID, SubjectSpecialization: "Math"}
	require.NoError(t, store.Teachers().Create(context.Background(), teacher))
	teacher.User = acc
	return teacher
}

func seedCourses(t *testing.T, store repository.Store, teacherID, n int) []*model.Course {
	t.Helper()
	courses := make([]*model.Course, n)
	for i := range courses {
		c := &model.Course{Name: fmt.Sprintf("Course %d", i), Code: fmt.Sprintf("X%03d", i), TeacherID: teacherID}
		require.NoError(t, store.Courses().Create(context.Background(), c))
		courses[i] = c
	}
	return courses
}
