package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/response"
	"github.com/stemsi/academic-records/internal/service"
	"github.com/stemsi/academic-records/internal/validator"
)

// EnrollmentHandler handles the enrollment collection.
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollmentService *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// List godoc
// GET /api/enrollments
func (h *EnrollmentHandler) List(c *gin.Context) {
	enrollments, err := h.enrollmentService.List(c.Request.Context(), model.EnrollmentFilter{})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, list(enrollments))
}

// Get godoc
// GET /api/enrollments/:id
func (h *EnrollmentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	enrollment, err := h.enrollmentService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, enrollment)
}

// Create godoc
// POST /api/enrollments/create
// Administrative enroll with an optional initial grade.
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req model.CreateEnrollmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	enrollment, err := h.enrollmentService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, enrollment)
}
