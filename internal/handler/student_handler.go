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

// StudentHandler serves the student catalog and the student portal.
type StudentHandler struct {
	authService       *service.AuthService
	studentService    *service.StudentService
	enrollmentService *service.EnrollmentService
	dashboardService  *service.DashboardService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(
	authService *service.AuthService,
	studentService *service.StudentService,
	enrollmentService *service.EnrollmentService,
	dashboardService *service.DashboardService,
) *StudentHandler {
	return &StudentHandler{
		authService:       authService,
		studentService:    studentService,
		enrollmentService: enrollmentService,
		dashboardService:  dashboardService,
	}
}

// ─── Catalog ────────────────────────────────────────────────────────

// List godoc
// GET /api/students
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.studentService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, list(students))
}

// Get godoc
// GET /api/students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	student, err := h.studentService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}

// Courses godoc
// GET /api/students/:id/courses
// Returns the enrollments of one student.
func (h *StudentHandler) Courses(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	enrollments, err := h.enrollmentService.ListForStudent(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, list(enrollments))
}

// Create godoc
// POST /api/students/create
// Creates an account and student profile from a nested payload.
func (h *StudentHandler) Create(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.authService.RegisterStudent(c.Request.Context(), req.User, req.StudentProfileFields)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"student": session.Principal.Student,
		"token":   session.Token.Key,
	})
}

// Update godoc
// PUT|PATCH /api/students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}

// Delete godoc
// DELETE /api/students/:id
// Removes the profile and its enrollments. The account stays.
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.studentService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Message{Message: "Student deleted"})
}

// ─── Portal ─────────────────────────────────────────────────────────

// MyCourses godoc
// GET /api/students/my-courses
func (h *StudentHandler) MyCourses(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	enrollments, err := h.enrollmentService.List(c.Request.Context(), model.EnrollmentFilter{StudentID: p.Student.ID})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, list(enrollments))
}

// Dashboard godoc
// GET /api/students/dashboard
func (h *StudentHandler) Dashboard(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	dash, err := h.dashboardService.Student(c.Request.Context(), p.Student)
	if err != nil {
		fail(c, err)
		return
	}
	dash.Enrollments = list(dash.Enrollments)
	dash.RecentEnrollments = list(dash.RecentEnrollments)
	response.Success(c, http.StatusOK, dash)
}

// Enroll godoc
// POST /api/students/enroll
func (h *StudentHandler) Enroll(c *gin.Context) {
	var req model.EnrollRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	p := middleware.GetPrincipal(c)
	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), p.Student.ID, req.CourseID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, enrollment)
}

// Unenroll godoc
// DELETE /api/students/unenroll/:enrollment_id
// Only the caller's own enrollments are visible; any other id is a 404.
func (h *StudentHandler) Unenroll(c *gin.Context) {
	id, ok := pathID(c, "enrollment_id")
	if !ok {
		return
	}

	p := middleware.GetPrincipal(c)
	if err := h.enrollmentService.Unenroll(c.Request.Context(), id, p.Student.ID); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Message{Message: "Successfully unenrolled from course"})
}
