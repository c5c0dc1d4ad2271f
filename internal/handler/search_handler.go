package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/academic-records/internal/response"
	"github.com/stemsi/academic-records/internal/service"
)

// SearchHandler serves cross-entity search for teachers.
type SearchHandler struct {
	studentService *service.StudentService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(studentService *service.StudentService) *SearchHandler {
	return &SearchHandler{studentService: studentService}
}

// Students godoc
// GET /api/search/students?q=
// Matches first name, last name or student_id, ignoring case.
func (h *SearchHandler) Students(c *gin.Context) {
	students, err := h.studentService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, list(students))
}
