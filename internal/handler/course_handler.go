package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/academic-records/internal/middleware"
	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/response"
	"github.com/stemsi/academic-records/internal/service"
	"github.com/stemsi/academic-records/internal/validator"
)

// CourseHandler handles course endpoints.
type CourseHandler struct {
	courseService     *service.CourseService
	enrollmentService *service.EnrollmentService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService, enrollmentService *service.EnrollmentService) *CourseHandler {
	return &CourseHandler{courseService: courseService, enrollmentService: enrollmentService}
}

// List godoc
// GET /api/courses
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courseService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, list(courses))
}

// Get godoc
// GET /api/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	course, err := h.courseService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

// Students godoc
// GET /api/courses/:id/students
// Returns the enrollments of one course.
func (h *CourseHandler) Students(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	enrollments, err := h.enrollmentService.ListForCourse(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, list(enrollments))
}

// Search godoc
// GET /api/courses/search?q=
// Case-insensitive substring match on name or code.
func (h *CourseHandler) Search(c *gin.Context) {
	courses, err := h.courseService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, list(courses))
}

// Create godoc
// POST /api/courses/create
// The calling teacher becomes the owner.
func (h *CourseHandler) Create(c *gin.Context) {
	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	p := middleware.GetPrincipal(c)
	course, err := h.courseService.Create(c.Request.Context(), p.Teacher.ID, req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, course)
}

// Update godoc
// PUT|PATCH /api/courses/:id
// Courses owned by another teacher are reported as missing.
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	p := middleware.GetPrincipal(c)
	course, err := h.courseService.Update(c.Request.Context(), p.Teacher.ID, id, req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

// Delete godoc
// DELETE /api/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p := middleware.GetPrincipal(c)
	if err := h.courseService.Delete(c.Request.Context(), p.Teacher.ID, id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Message{Message: "Course deleted"})
}
