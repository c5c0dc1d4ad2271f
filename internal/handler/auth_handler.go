package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/academic-records/internal/middleware"
	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/response"
	"github.com/stemsi/academic-records/internal/service"
	"github.com/stemsi/academic-records/internal/validator"
)

// AuthHandler handles registration, login, logout and profile endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// sessionView is the body returned by login and registration.
type sessionView struct {
	Token      string     `json:"token"`
	UserID     int        `json:"user_id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	UserType   model.Role `json:"user_type"`
	ProfileID  *int       `json:"profile_id"`
	StudentID  string     `json:"student_id,omitempty"`
	EmployeeID string     `json:"employee_id,omitempty"`
}

func newSessionView(s *service.Session) sessionView {
	p := s.Principal
	v := sessionView{
		Token:     s.Token.Key,
		UserID:    p.Account.ID,
		Username:  p.Account.Username,
		Email:     p.Account.Email,
		FirstName: p.Account.FirstName,
		LastName:  p.Account.LastName,
		UserType:  p.Role,
		ProfileID: p.ProfileID(),
	}
	switch {
	case p.Student != nil:
		v.StudentID = p.Student.StudentID
	case p.Teacher != nil:
		v.EmployeeID = p.Teacher.EmployeeID
	}
	return v
}

// RegisterStudent godoc
// POST /api/auth/register/student
// Creates an account with a student profile and returns its token.
func (h *AuthHandler) RegisterStudent(c *gin.Context) {
	var req model.StudentRegistrationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.authService.RegisterStudent(c.Request.Context(), req.AccountRequest, req.StudentProfileFields)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, newSessionView(session))
}

// RegisterTeacher godoc
// POST /api/auth/register/teacher
// Creates an account with a teacher profile and returns its token.
func (h *AuthHandler) RegisterTeacher(c *gin.Context) {
	var req model.TeacherRegistrationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.authService.RegisterTeacher(c.Request.Context(), req.AccountRequest, req.TeacherProfileFields)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, newSessionView(session))
}

// RegisterAdmin godoc
// POST /api/auth/register/admin
// Creates a bare account. It carries no elevated flags, so its writes are
// still refused by admin-gated endpoints.
func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	var req model.AccountRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.authService.RegisterAdmin(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, newSessionView(session))
}

// Login godoc
// POST /api/auth/login
// Accepts a username or email with a password and returns the account's token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidCredentials)
		return
	case errors.Is(err, service.ErrAccountDisabled):
		response.Fail(c, http.StatusBadRequest, response.ErrAccountDisabled)
		return
	case err != nil:
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, newSessionView(session))
}

// Logout godoc
// POST /api/auth/logout
// Revokes the token named by the Token header, the body, or the
// authenticated principal, in that order.
func (h *AuthHandler) Logout(c *gin.Context) {
	var headerKey string
	if scheme, key := middleware.ParseAuthorization(c.GetHeader("Authorization")); scheme == middleware.SchemeToken {
		headerKey = key
	}

	var req model.LogoutRequest
	if c.Request.ContentLength != 0 {
		// A malformed body is treated as an absent one.
		_ = c.ShouldBindJSON(&req)
	}

	err := h.authService.Logout(c.Request.Context(), headerKey, req.Token, middleware.GetPrincipal(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Message{Message: "Successfully logged out"})
}

// Profile godoc
// GET /api/auth/profile
// Returns the caller's role and profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	if p == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var profile any = p.Account
	switch {
	case p.Student != nil:
		profile = p.Student
	case p.Teacher != nil:
		profile = p.Teacher
	}

	response.Success(c, http.StatusOK, gin.H{
		"user_type":  p.Role,
		"profile_id": p.ProfileID(),
		"profile":    profile,
	})
}
