package routes

import (
	"errors"
	"net/http"

	"kanban-lite/kanban/services"
	"kanban-lite/kanban/utils/token"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// RegisterAuthRoutes wires the public session endpoints. These sit outside
// the auth gate; /check in particular must answer for logged-out callers.
func RegisterAuthRoutes(router *gin.Engine, authService services.AuthServiceInterface, jwtExpirationHours int) {
	router.POST("/login", func(c *gin.Context) { Login(c, authService, jwtExpirationHours) })
	router.POST("/logout", Logout)
	router.GET("/check", func(c *gin.Context) { CheckAuth(c, authService) })
}

func Login(c *gin.Context, authService services.AuthServiceInterface, jwtExpirationHours int) {
	var request loginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Password required"})
		return
	}

	tokenString, identity, err := authService.Login(request.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.SetCookie(token.SessionCookie, tokenString, jwtExpirationHours*3600, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": identity, "token": tokenString})
}

func Logout(c *gin.Context) {
	c.SetCookie(token.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func CheckAuth(c *gin.Context, authService services.AuthServiceInterface) {
	tokenString, err := token.ExtractToken(c)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	claims, err := authService.ValidateToken(tokenString)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user":          gin.H{"id": claims.UserID, "username": claims.Username},
	})
}
