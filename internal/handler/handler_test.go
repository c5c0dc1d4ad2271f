package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/academic-records/internal/response"
	"github.com/stemsi/academic-records/internal/service"
)

func failWith(t *testing.T, err error) (*httptest.ResponseRecorder, *gin.Context, response.ErrorBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	fail(c, err)

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return rec, c, *body.Error
}

func TestFailMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   response.ErrCode
	}{
		{"field errors", &service.ValidationError{Fields: map[string]string{"grade": "x"}}, http.StatusBadRequest, response.ErrValidation},
		{"token required", service.ErrTokenRequired, http.StatusBadRequest, response.ErrTokenRequired},
		{"token unknown", service.ErrTokenUnknown, http.StatusBadRequest, response.ErrTokenInvalid},
		{"duplicate enrollment", service.ErrAlreadyEnrolled, http.StatusBadRequest, response.ErrAlreadyEnrolled},
		{"student", service.ErrStudentNotFound, http.StatusNotFound, response.ErrStudentNotFound},
		{"teacher", service.ErrTeacherNotFound, http.StatusNotFound, response.ErrTeacherNotFound},
		{"course", service.ErrCourseNotFound, http.StatusNotFound, response.ErrCourseNotFound},
		{"enrollment", service.ErrEnrollmentNotFound, http.StatusNotFound, response.ErrEnrollmentNotFound},
		{"generic not found", service.ErrNotFound, http.StatusNotFound, response.ErrNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, response.ErrForbidden},
		{"disabled", service.ErrAccountDisabled, http.StatusUnauthorized, response.ErrAccountDisabled},
		{"bad token", service.ErrTokenInvalid, http.StatusUnauthorized, response.ErrTokenInvalid},
		{"storage down", fmt.Errorf("%w: dial tcp", service.ErrUnavailable), http.StatusServiceUnavailable, response.ErrUnavailable},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, response.ErrInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _, body := failWith(t, tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestFailHidesInternalDetail(t *testing.T) {
	_, c, body := failWith(t, errors.New("pq: password authentication failed"))

	assert.NotContains(t, body.Message, "password")
	require.Len(t, c.Errors, 1)
	assert.EqualError(t, c.Errors[0].Err, "pq: password authentication failed")
}

func TestFailFieldErrorsAreReturned(t *testing.T) {
	_, c, body := failWith(t, &service.ValidationError{Fields: map[string]string{"grade": "Grade is required"}})

	assert.Equal(t, "Grade is required", body.Fields["grade"])
	assert.Empty(t, c.Errors)
}
