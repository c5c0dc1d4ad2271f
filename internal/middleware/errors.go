package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/response"
)

// LogErrors logs the errors handlers attached with c.Error once the
// request has been served, tagged with the authenticated account if any.
func LogErrors(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		p := model.PrincipalFrom(c.Request.Context())
		for _, e := range c.Errors {
			ev := log.Error()
			if p != nil && p.Account != nil {
				ev = ev.Int("account_id", p.Account.ID)
			}
			ev.Err(e.Err).
				Str("method", c.Request.Method).
				Str("path", c.FullPath()).
				Int("status", c.Writer.Status()).
				Str("request_id", c.GetString(response.ContextKeyRequestID)).
				Msg("Request failed")
		}
	}
}
