package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/makeup-api/internal/models"
	appErrors "github.com/noah-isme/makeup-api/pkg/errors"
	"github.com/noah-isme/makeup-api/pkg/logger"
	"github.com/noah-isme/makeup-api/pkg/response"
)

// CronTokenHeader carries the shared secret of the external sweep trigger.
const CronTokenHeader = "X-Cron-Token"

// AdminOrCronToken admits an admin session or a request presenting the configured cron token.
// An empty token disables the header path. Mount it after OptionalIdentity.
func AdminOrCronToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, ok := PrincipalFrom(c); ok {
			if principal.AccountType == models.AccountAdmin {
				c.Next()
				return
			}
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		presented := c.GetHeader(CronTokenHeader)
		if token != "" && presented != "" && subtle.ConstantTimeCompare([]byte(presented), []byte(token)) == 1 {
			c.Set(logger.ActorKey, "cron")
			c.Next()
			return
		}
		response.Error(c, appErrors.ErrUnauthenticated)
		c.Abort()
	}
}
