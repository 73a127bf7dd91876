package middleware

import (
	"net/http"

	"kanban-lite/kanban/models"
	"kanban-lite/kanban/services"
	"kanban-lite/kanban/utils/token"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware gates every task and upload operation behind a valid
// session. An unauthenticated caller gets a 401, never an empty result.
func AuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := token.ExtractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		// Store user info in the context for later use
		c.Set("user", models.UserIdentity{ID: claims.UserID, Username: claims.Username})

		c.Next()
	}
}
