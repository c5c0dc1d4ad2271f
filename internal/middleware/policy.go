package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/academic-records/internal/policy"
	"github.com/stemsi/academic-records/internal/response"
)

// Require gates the route on rule. It must run after RequireToken.
func Require(rule policy.Rule, denied response.ErrCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if !rule(p, OperationOf(c.Request.Method)) {
			response.AbortFail(c, http.StatusForbidden, denied)
			return
		}
		c.Next()
	}
}

// RequireStudent, RequireTeacher and RequireAdminWrite are the gates used
// by the router.
func RequireStudent() gin.HandlerFunc {
	return Require(policy.IsStudent, response.ErrStudentAccessOnly)
}

func RequireTeacher() gin.HandlerFunc {
	return Require(policy.IsTeacher, response.ErrTeacherAccessOnly)
}

func RequireAdminWrite() gin.HandlerFunc {
	return Require(policy.IsAdminOrReadOnly, response.ErrAdminAccessOnly)
}

// OperationOf classifies safe HTTP methods as reads.
func OperationOf(method string) policy.Operation {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return policy.Read
	}
	return policy.Write
}
