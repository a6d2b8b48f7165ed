package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/auth"
	"github.com/soundhaven/soundhaven/internal/logger"
)

// callerIDKey is the gin context key the authenticated user ID is stored under
const callerIDKey = "caller_id"

// RequireAuth returns a Gin middleware that verifies the bearer access token
// and stores the caller's user ID in the request context. Requests without a
// valid token are rejected with 401.
func RequireAuth(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Missing or malformed Authorization header",
			})
			return
		}

		userID, err := verifier.VerifyAccessToken(tokenString)
		if err != nil {
			logger.Log.Debug().
				Err(err).
				Str("path", c.Request.URL.Path).
				Msg("Access token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid access token",
			})
			return
		}

		c.Set(callerIDKey, userID)
		c.Next()
	}
}

// CallerID returns the authenticated user ID stored by RequireAuth
func CallerID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(callerIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
