package routes

import (
	"errors"
	"net/http"
	"strconv"

	"kanban-lite/kanban/database"
	"kanban-lite/kanban/models"
	"kanban-lite/kanban/services"

	"github.com/gin-gonic/gin"
)

// taskRequest is the shared POST/PUT body. Optional fields stay nil when
// absent so the service can tell "not provided" from a zero value.
type taskRequest struct {
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	Status      *models.Status   `json:"status"`
	Images      models.ImageList `json:"images"`
	Order       *int             `json:"order"`
}

func (r taskRequest) toInput() services.TaskInput {
	return services.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Images:      r.Images,
		Ordinal:     r.Order,
	}
}

func RegisterTaskRoutes(group *gin.RouterGroup, db *database.Database, taskService services.TaskServiceInterface) {
	group.GET("/tasks", func(c *gin.Context) { GetTasks(c, db, taskService) })
	group.POST("/tasks", func(c *gin.Context) { CreateTask(c, db, taskService) })
	group.PUT("/tasks/:id", func(c *gin.Context) { UpdateTask(c, db, taskService) })
	group.DELETE("/tasks/:id", func(c *gin.Context) { DeleteTask(c, db, taskService) })
	group.DELETE("/tasks", func(c *gin.Context) { DeleteTasksByStatus(c, db, taskService) })
}

func GetTasks(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	tasks, err := taskService.GetAllTasks(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func CreateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	var request taskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := taskService.CreateTask(db, request.toInput())
	if err != nil {
		if errors.Is(err, services.ErrTitleRequired) || errors.Is(err, services.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": task.ID})
}

func UpdateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	id, err := parseTaskID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	var request taskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := taskService.UpdateTask(db, id, request.toInput()); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		if errors.Is(err, services.ErrTitleRequired) || errors.Is(err, services.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func DeleteTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	id, err := parseTaskID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	if err := taskService.DeleteTask(db, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteTasksByStatus clears a whole column, e.g. DELETE /tasks?status=done.
func DeleteTasksByStatus(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	status := models.Status(c.Query("status"))
	if !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	count, err := taskService.DeleteByStatus(db, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted_count": count})
}

func parseTaskID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
