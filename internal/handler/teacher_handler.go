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

// TeacherHandler serves the teacher catalog and the teacher portal.
type TeacherHandler struct {
	authService       *service.AuthService
	teacherService    *service.TeacherService
	courseService     *service.CourseService
	enrollmentService *service.EnrollmentService
	dashboardService  *service.DashboardService
}

// NewTeacherHandler creates a new TeacherHandler.
func NewTeacherHandler(
	authService *service.AuthService,
	teacherService *service.TeacherService,
	courseService *service.CourseService,
	enrollmentService *service.EnrollmentService,
	dashboardService *service.DashboardService,
) *TeacherHandler {
	return &TeacherHandler{
		authService:       authService,
		teacherService:    teacherService,
		courseService:     courseService,
		enrollmentService: enrollmentService,
		dashboardService:  dashboardService,
	}
}

// ─── Catalog ────────────────────────────────────────────────────────

// List godoc
// GET /api/teachers
func (h *TeacherHandler) List(c *gin.Context) {
	teachers, err := h.teacherService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, list(teachers))
}

// Get godoc
// GET /api/teachers/:id
func (h *TeacherHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	teacher, err := h.teacherService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, teacher)
}

// Courses godoc
// GET /api/teachers/:id/courses
func (h *TeacherHandler) Courses(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	courses, err := h.courseService.ListByTeacher(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, list(courses))
}

// Create godoc
// POST /api/teachers/create
// Creates an account and teacher profile from a nested payload.
func (h *TeacherHandler) Create(c *gin.Context) {
	var req model.CreateTeacherRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.authService.RegisterTeacher(c.Request.Context(), req.User, req.TeacherProfileFields)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"teacher": session.Principal.Teacher,
		"token":   session.Token.Key,
	})
}

// Update godoc
// PUT|PATCH /api/teachers/:id
func (h *TeacherHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateTeacherRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	teacher, err := h.teacherService.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, teacher)
}

// Delete godoc
// DELETE /api/teachers/:id
// Removes the profile with its courses and their enrollments.
func (h *TeacherHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.teacherService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Message{Message: "Teacher deleted"})
}

// ─── Portal ─────────────────────────────────────────────────────────

// MyCourses godoc
// GET /api/teachers/my-courses
func (h *TeacherHandler) MyCourses(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	courses, err := h.courseService.ListByTeacher(c.Request.Context(), p.Teacher.ID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, list(courses))
}

// MyStudents godoc
// GET /api/teachers/my-students
// Returns every enrollment in the caller's courses.
func (h *TeacherHandler) MyStudents(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	enrollments, err := h.enrollmentService.List(c.Request.Context(), model.EnrollmentFilter{TeacherID: p.Teacher.ID})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, list(enrollments))
}

// Dashboard godoc
// GET /api/teachers/dashboard
func (h *TeacherHandler) Dashboard(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	dash, err := h.dashboardService.Teacher(c.Request.Context(), p.Teacher)
	if err != nil {
		fail(c, err)
		return
	}
	dash.Courses = list(dash.Courses)
	dash.RecentEnrollments = list(dash.RecentEnrollments)
	response.Success(c, http.StatusOK, dash)
}

// UpdateGrade godoc
// PUT /api/teachers/update-grade/:enrollment_id
// Only enrollments in the caller's courses are visible; any other id is a 404.
func (h *TeacherHandler) UpdateGrade(c *gin.Context) {
	id, ok := pathID(c, "enrollment_id")
	if !ok {
		return
	}
	var req model.UpdateGradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	p := middleware.GetPrincipal(c)
	enrollment, err := h.enrollmentService.SetGrade(c.Request.Context(), id, p.Teacher.ID, req.Grade)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, enrollment)
}
