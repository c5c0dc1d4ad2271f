package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/academic-records/internal/config"
	"github.com/stemsi/academic-records/internal/handler"
	"github.com/stemsi/academic-records/internal/middleware"
	"github.com/stemsi/academic-records/internal/policy"
	"github.com/stemsi/academic-records/internal/response"
	"github.com/stemsi/academic-records/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Student    *handler.StudentHandler
	Teacher    *handler.TeacherHandler
	Course     *handler.CourseHandler
	Enrollment *handler.EnrollmentHandler
	Search     *handler.SearchHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// authLimiter may be nil.
func SetupRouter(
	cfg *config.Config,
	authService *service.AuthService,
	authLimiter *middleware.RateLimiter,
	handlers *Handlers,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.LogErrors(log))
	router.Use(middleware.Brotli())

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	requireToken := middleware.RequireToken(authService)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := api.Group("/auth")
	auth.Use(middleware.NoStore())
	{
		limited := auth.Group("")
		if authLimiter != nil {
			limited.Use(authLimiter.Middleware())
		}
		limited.POST("/register/student", handlers.Auth.RegisterStudent)
		limited.POST("/register/teacher", handlers.Auth.RegisterTeacher)
		limited.POST("/register/admin", handlers.Auth.RegisterAdmin)
		limited.POST("/login", handlers.Auth.Login)

		auth.POST("/logout", middleware.OptionalToken(authService), handlers.Auth.Logout)
		auth.GET("/profile", requireToken, handlers.Auth.Profile)
	}

	adminWrite := middleware.RequireAdminWrite()
	authenticated := middleware.Require(policy.Authenticated, response.ErrForbidden)

	// ─── 2. Students ───────────────────────────────────────────────────
	students := api.Group("/students")
	students.Use(requireToken)
	{
		// Portal routes are registered before /:id so the static segments win.
		portal := students.Group("", middleware.RequireStudent())
		portal.GET("/my-courses", handlers.Student.MyCourses)
		portal.GET("/dashboard", handlers.Student.Dashboard)
		portal.POST("/enroll", handlers.Student.Enroll)
		portal.DELETE("/unenroll/:enrollment_id", handlers.Student.Unenroll)

		students.POST("/create", adminWrite, handlers.Student.Create)

		students.GET("", authenticated, handlers.Student.List)
		students.GET("/:id", authenticated, handlers.Student.Get)
		students.GET("/:id/courses", authenticated, handlers.Student.Courses)
		students.PUT("/:id", adminWrite, handlers.Student.Update)
		students.PATCH("/:id", adminWrite, handlers.Student.Update)
		students.DELETE("/:id", adminWrite, handlers.Student.Delete)
	}

	// ─── 3. Teachers ───────────────────────────────────────────────────
	teachers := api.Group("/teachers")
	teachers.Use(requireToken)
	{
		portal := teachers.Group("", middleware.RequireTeacher())
		portal.GET("/my-courses", handlers.Teacher.MyCourses)
		portal.GET("/my-students", handlers.Teacher.MyStudents)
		portal.GET("/dashboard", handlers.Teacher.Dashboard)
		portal.PUT("/update-grade/:enrollment_id", handlers.Teacher.UpdateGrade)

		teachers.POST("/create", adminWrite, handlers.Teacher.Create)

		teachers.GET("", authenticated, handlers.Teacher.List)
		teachers.GET("/:id", authenticated, handlers.Teacher.Get)
		teachers.GET("/:id/courses", authenticated, handlers.Teacher.Courses)
		teachers.PUT("/:id", adminWrite, handlers.Teacher.Update)
		teachers.PATCH("/:id", adminWrite, handlers.Teacher.Update)
		teachers.DELETE("/:id", adminWrite, handlers.Teacher.Delete)
	}

	// ─── 4. Courses ────────────────────────────────────────────────────
	courses := api.Group("/courses")
	courses.Use(requireToken)
	{
		courses.GET("/search", authenticated, handlers.Course.Search)

		owner := courses.Group("", middleware.RequireTeacher())
		owner.POST("/create", handlers.Course.Create)
		owner.PUT("/:id", handlers.Course.Update)
		owner.PATCH("/:id", handlers.Course.Update)
		owner.DELETE("/:id", handlers.Course.Delete)

		courses.GET("", authenticated, handlers.Course.List)
		courses.GET("/:id", authenticated, handlers.Course.Get)
		courses.GET("/:id/students", authenticated, handlers.Course.Students)
	}

	// ─── 5. Enrollments ────────────────────────────────────────────────
	enrollments := api.Group("/enrollments")
	enrollments.Use(requireToken)
	{
		enrollments.POST("/create", adminWrite, handlers.Enrollment.Create)
		enrollments.GET("", authenticated, handlers.Enrollment.List)
		enrollments.GET("/:id", authenticated, handlers.Enrollment.Get)
	}

	// ─── 6. Search ─────────────────────────────────────────────────────
	search := api.Group("/search")
	search.Use(requireToken, middleware.RequireTeacher())
	{
		search.GET("/students", handlers.Search.Students)
	}

	return router
}
