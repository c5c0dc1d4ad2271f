package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/stemsi/academic-records/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
	Setup()
}

func bindBody(body string, dst any) map[string]string {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return Bind(c, dst)
}

func TestBind_FlatRegistration(t *testing.T) {
	var req model.StudentRegistrationRequest
	fields := bindBody(`{"username":"alice","email":"not-an-email","password":"short"}`, &req)

	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "first_name")
	assert.Contains(t, fields, "student_id")
	assert.Contains(t, fields, "date_of_birth")
	assert.NotContains(t, fields, "username")
}

func TestBind_NestedPaths(t *testing.T) {
	var req model.CreateStudentRequest
	fields := bindBody(`{"user":{"username":"alice"},"student_id":"S001","phone_number":"1","date_of_birth":"2005-01-02","address":"x"}`, &req)

	assert.Contains(t, fields, "user.email")
	assert.Contains(t, fields, "user.password")
	assert.NotContains(t, fields, "student_id")
}

func TestBind_Success(t *testing.T) {
	var req model.LoginRequest
	assert.Nil(t, bindBody(`{"username":"alice","password":"pw12345678"}`, &req))
	assert.Equal(t, "alice", req.Username)
}

func TestBind_MalformedBodies(t *testing.T) {
	var req model.EnrollRequest
	assert.Equal(t, "Request body is empty.", bindBody(``, &req)["detail"])

	fields := bindBody(`{"course_id":"abc"}`, &req)
	assert.Contains(t, fields, "course_id")

	fields = bindBody(`{"course_id":`, &req)
	assert.Contains(t, fields, "detail")
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "user.username", fieldPath("CreateStudentRequest.user.username"))
	assert.Equal(t, "email", fieldPath("StudentRegistrationRequest.AccountRequest.email"))
	assert.Equal(t, "grade", fieldPath("CreateEnrollmentRequest.grade"))
}
