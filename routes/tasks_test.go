package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kanban-lite/kanban/database"
	"kanban-lite/kanban/models"
	"kanban-lite/kanban/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type MockTaskService struct {
	deletedByStatus models.Status
}

func (m *MockTaskService) GetAllTasks(db *database.Database) ([]models.Task, error) {
	return []models.Task{
		{ID: 1, Title: "First", Status: models.StatusTodo, Ordinal: 0, Images: models.ImageList{}},
		{ID: 2, Title: "Second", Status: models.StatusDone, Ordinal: 0, Images: models.ImageList{"img_a.png"}},
	}, nil
}

func (m *MockTaskService) GetTaskById(db *database.Database, id uint) (models.Task, error) {
	if id == 1 {
		return models.Task{ID: 1, Title: "First", Status: models.StatusTodo}, nil
	}
	return models.Task{}, services.ErrTaskNotFound
}

func (m *MockTaskService) CreateTask(db *database.Database, input services.TaskInput) (models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return models.Task{}, services.ErrTitleRequired
	}
	return models.Task{ID: 42, Title: input.Title, Status: models.StatusTodo}, nil
}

func (m *MockTaskService) UpdateTask(db *database.Database, id uint, input services.TaskInput) (models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return models.Task{}, services.ErrTitleRequired
	}
	if id != 1 {
		return models.Task{}, services.ErrTaskNotFound
	}
	return models.Task{ID: id, Title: input.Title}, nil
}

func (m *MockTaskService) DeleteTask(db *database.Database, id uint) error {
	return nil
}

func (m *MockTaskService) DeleteByStatus(db *database.Database, status models.Status) (int64, error) {
	m.deletedByStatus = status
	return 2, nil
}

func setupTaskRouter(svc services.TaskServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterTaskRoutes(router.Group("/"), nil, svc)
	return router
}

func TestGetTasksRoute(t *testing.T) {
	router := setupTaskRouter(&MockTaskService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/tasks", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var tasks []models.Task
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 2)
	assert.Equal(t, models.ImageList{"img_a.png"}, tasks[1].Images)
}

func TestCreateTaskRoute(t *testing.T) {
	router := setupTaskRouter(&MockTaskService{})

	body := bytes.NewBufferString(`{"title":"New Task","status":"todo","images":[],"order":-1}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/tasks", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool `json:"success"`
		ID      uint `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, uint(42), response.ID)
}

func TestCreateTaskRoute_EmptyTitle(t *testing.T) {
	router := setupTaskRouter(&MockTaskService{})

	body := bytes.NewBufferString(`{"title":"   "}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/tasks", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTaskRoute_MalformedBody(t *testing.T) {
	router := setupTaskRouter(&MockTaskService{})

	body := bytes.NewBufferString(`{"title": `)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/tasks", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTaskRoute(t *testing.T) {
	router := setupTaskRouter(&MockTaskService{})

	body := bytes.NewBufferString(`{"title":"Renamed","status":"progress","order":0}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/tasks/1", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestUpdateTaskRoute_NotFound(t *testing.T) {
	router := setupTaskRouter(&MockTaskService{})

	body := bytes.NewBufferString(`{"title":"Ghost"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/tasks/999", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTaskRoute_InvalidID(t *testing.T) {
	router := setupTaskRouter(&MockTaskService{})

	body := bytes.NewBufferString(`{"title":"Task"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/tasks/abc", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTaskRoute(t *testing.T) {
	router := setupTaskRouter(&MockTaskService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/tasks/999", nil)
	router.ServeHTTP(w, req)

	// Deleting an unknown id is still a success; the operation is idempotent.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestDeleteTasksByStatusRoute(t *testing.T) {
	svc := &MockTaskService{}
	router := setupTaskRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/tasks?status=done", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"deleted_count":2}`, w.Body.String())
	assert.Equal(t, models.StatusDone, svc.deletedByStatus)
}

func TestDeleteTasksByStatusRoute_InvalidStatus(t *testing.T) {
	router := setupTaskRouter(&MockTaskService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/tasks?status=archived", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
