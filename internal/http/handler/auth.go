package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dealflow.app/hub/internal/service"
)

const userIDKey = "user_id"

// RequireAuth authenticates the request and stashes the caller's user ID in
// the gin context. Tokens arrive as a Bearer header, or as a "token" query
// parameter for WebSocket upgrades where browsers cannot set headers.
func RequireAuth(verifier service.IdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
			return
		}

		userID, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func currentUserID(c *gin.Context) int64 {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0
	}
	id, _ := v.(int64)
	return id
}
