package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	contextUserIDKey = "auth_user_id"
	contextTokenKey  = "auth_token"
)

// Middleware validates the bearer token and stores the user id in the gin
// context.
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		userID, err := s.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(contextUserIDKey, userID)
		c.Set(contextTokenKey, token)
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user id set by Middleware.
func UserIDFromContext(c *gin.Context) (int64, bool) {
	value, ok := c.Get(contextUserIDKey)
	if !ok {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}

// TokenFromContext returns the validated token set by Middleware.
func TokenFromContext(c *gin.Context) (string, bool) {
	value, ok := c.Get(contextTokenKey)
	if !ok {
		return "", false
	}
	token, ok := value.(string)
	return token, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie("auth_token"); err == nil {
		return cookie
	}
	return ""
}
