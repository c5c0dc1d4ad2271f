package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/academic-records/internal/response"
	"github.com/stemsi/academic-records/internal/service"
)

// notFoundCodes maps specific not-found errors to their response codes.
var notFoundCodes = []struct {
	err  error
	code response.ErrCode
}{
	{service.ErrStudentNotFound, response.ErrStudentNotFound},
	{service.ErrTeacherNotFound, response.ErrTeacherNotFound},
	{service.ErrCourseNotFound, response.ErrCourseNotFound},
	{service.ErrEnrollmentNotFound, response.ErrEnrollmentNotFound},
}

// fail writes the error response for a service error. Server-side failures
// are attached to the context for middleware.LogErrors.
func fail(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, verr.Fields)
	case errors.Is(err, service.ErrTokenRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrTokenRequired)
	case errors.Is(err, service.ErrTokenUnknown):
		response.Fail(c, http.StatusBadRequest, response.ErrTokenInvalid)
	case errors.Is(err, service.ErrValidation):
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
	case errors.Is(err, service.ErrAlreadyEnrolled):
		response.Fail(c, http.StatusBadRequest, response.ErrAlreadyEnrolled)
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, notFoundCode(err))
	case errors.Is(err, service.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrAccountDisabled):
		response.Fail(c, http.StatusUnauthorized, response.ErrAccountDisabled)
	case errors.Is(err, service.ErrUnauthorized):
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
	case errors.Is(err, service.ErrUnavailable):
		_ = c.Error(err)
		response.Fail(c, http.StatusServiceUnavailable, response.ErrUnavailable)
	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func notFoundCode(err error) response.ErrCode {
	for _, nf := range notFoundCodes {
		if errors.Is(err, nf.err) {
			return nf.code
		}
	}
	return response.ErrNotFound
}

// pathID parses a positive integer path parameter. It writes the 400
// response itself and reports false on failure.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// list keeps empty collections rendering as [] rather than null.
func list[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
