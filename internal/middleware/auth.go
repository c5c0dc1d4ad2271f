package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/response"
	"github.com/stemsi/academic-records/internal/service"
)

const (
	// ContextKeyPrincipal is the Gin context key for the resolved principal.
	ContextKeyPrincipal = "principal"

	// SchemeToken and SchemeBearer are the accepted Authorization schemes.
	SchemeToken  = "Token"
	SchemeBearer = "Bearer"
)

// RequireToken authenticates the Authorization header and stores the
// principal on both the Gin context and the request context.
func RequireToken(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, key := ParseAuthorization(c.GetHeader("Authorization"))
		if key == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		principal, err := authService.Authenticate(c.Request.Context(), key)
		if err != nil {
			abortAuthFailure(c, err)
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

// OptionalToken resolves the principal when a valid token is present and
// lets the request through untouched otherwise.
func OptionalToken(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, key := ParseAuthorization(c.GetHeader("Authorization")); key != "" {
			if principal, err := authService.Authenticate(c.Request.Context(), key); err == nil {
				setPrincipal(c, principal)
			}
		}
		c.Next()
	}
}

// ParseAuthorization splits "Token <key>" or "Bearer <key>". Other schemes
// yield an empty key.
func ParseAuthorization(header string) (scheme, key string) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 {
		return "", ""
	}
	switch {
	case strings.EqualFold(parts[0], SchemeToken):
		scheme = SchemeToken
	case strings.EqualFold(parts[0], SchemeBearer):
		scheme = SchemeBearer
	default:
		return "", ""
	}
	return scheme, strings.TrimSpace(parts[1])
}

// GetPrincipal retrieves the principal from the Gin context.
func GetPrincipal(c *gin.Context) *model.Principal {
	val, exists := c.Get(ContextKeyPrincipal)
	if !exists {
		return nil
	}
	p, ok := val.(*model.Principal)
	if !ok {
		return nil
	}
	return p
}

func setPrincipal(c *gin.Context, p *model.Principal) {
	c.Set(ContextKeyPrincipal, p)
	c.Request = c.Request.WithContext(model.WithPrincipal(c.Request.Context(), p))
}

func abortAuthFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnavailable):
		_ = c.Error(err)
		response.AbortFail(c, http.StatusServiceUnavailable, response.ErrUnavailable)
	case errors.Is(err, service.ErrAccountDisabled):
		response.AbortFail(c, http.StatusUnauthorized, response.ErrAccountDisabled)
	default:
		response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
	}
}
