package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/promodesk/promodesk_api/internal/models"
	"github.com/promodesk/promodesk_api/internal/utils"
)

const sessionKey = "session"

// SessionMiddleware validates the bearer token and installs the acting
// session (user + role) on the request context.
type SessionMiddleware struct{}

func NewSessionMiddleware() *SessionMiddleware {
	return &SessionMiddleware{}
}

func (m *SessionMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		role := models.Role(claims.Role)
		if !models.ValidRole(role) {
			utils.Error(c, 401, "INVALID_TOKEN", "Unknown role in token")
			c.Abort()
			return
		}

		c.Set(sessionKey, models.Session{User: claims.User, Role: role})
		c.Next()
	}
}

// GetSession returns the session installed by SessionMiddleware.
func GetSession(c *gin.Context) models.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(models.Session); ok {
			return s
		}
	}
	return models.Session{}
}
