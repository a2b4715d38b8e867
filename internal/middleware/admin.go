package middleware

import (
  "crypto/subtle"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/sableworks/vaultbreak-backend/internal/logger"
  "github.com/sableworks/vaultbreak-backend/internal/utils"
)

type AdminMiddleware struct {
  log    *logger.Logger
  secret string
}

func NewAdminMiddleware(log *logger.Logger) *AdminMiddleware {
  middlewareLogger := log.With("Middleware", "AdminMiddleware")
  secret := utils.GetEnv("ADMIN_API_SECRET", "", log)
  if secret == "" {
    middlewareLogger.Warn("ADMIN_API_SECRET not set, admin routes will reject all requests")
  }
  return &AdminMiddleware{log: middlewareLogger, secret: secret}
}

// RequireAdmin gates provisioning routes on the x-admin-secret header. An
// unset secret denies everything rather than allowing everything.
func (am *AdminMiddleware) RequireAdmin() gin.HandlerFunc {
  return func(c *gin.Context) {
    provided := c.GetHeader("x-admin-secret")
    if am.secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(am.secret)) != 1 {
      c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
      return
    }
    c.Next()
  }
}
