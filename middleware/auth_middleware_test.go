package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"kanban-lite/kanban/models"
	"kanban-lite/kanban/services"
	"kanban-lite/kanban/testutils"
	"kanban-lite/kanban/utils/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupGatedRouter() (*gin.Engine, services.AuthServiceInterface) {
	gin.SetMode(gin.TestMode)
	store := services.NewSharedSecretStore("hunter2", "", "admin")
	authService := services.NewAuthService(store, "test-secret", 1)

	router := gin.New()
	gated := router.Group("/")
	gated.Use(AuthMiddleware(authService))
	gated.GET("/tasks", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router, authService
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	router, _ := setupGatedRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/tasks", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router, _ := setupGatedRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestAuthMiddleware_BearerToken(t *testing.T) {
	router, authService := setupGatedRouter()

	tokenString, _, err := authService.Login("hunter2")
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_SetsIdentity(t *testing.T) {
	store := services.NewSharedSecretStore("hunter2", "", "admin")
	authService := services.NewAuthService(store, "test-secret", 1)

	tokenString, identity, err := authService.Login("hunter2")
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	c := testutils.GetTestGinContext(w, req)

	AuthMiddleware(authService)(c)

	assert.False(t, c.IsAborted())
	value, exists := c.Get("user")
	assert.True(t, exists)
	assert.Equal(t, models.UserIdentity{ID: identity.ID, Username: "admin"}, value)
}

func TestAuthMiddleware_SessionCookie(t *testing.T) {
	router, authService := setupGatedRouter()

	tokenString, _, err := authService.Login("hunter2")
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/tasks", nil)
	req.AddCookie(&http.Cookie{Name: token.SessionCookie, Value: tokenString})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
