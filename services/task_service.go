package services

import (
	"encoding/json"
	"errors"
	"log"
	"strings"

	"kanban-lite/kanban/broker"
	"kanban-lite/kanban/database"
	"kanban-lite/kanban/models"

	"gorm.io/gorm"
)

// TaskInput carries the writable task fields. Nil pointers mean "not
// provided": on create they take the documented defaults, on update the
// stored value is kept.
type TaskInput struct {
	Title       string
	Description *string
	Status      *models.Status
	Images      models.ImageList
	Ordinal     *int
}

type TaskServiceInterface interface {
	GetAllTasks(db *database.Database) ([]models.Task, error)
	GetTaskById(db *database.Database, id uint) (models.Task, error)
	CreateTask(db *database.Database, input TaskInput) (models.Task, error)
	UpdateTask(db *database.Database, id uint, input TaskInput) (models.Task, error)
	DeleteTask(db *database.Database, id uint) error
	DeleteByStatus(db *database.Database, status models.Status) (int64, error)
}

type TaskService struct{}

// GetAllTasks returns every task ordered by (column, ordinal, id). Callers
// that need per-column views re-group through the board package.
func (s *TaskService) GetAllTasks(db *database.Database) ([]models.Task, error) {
	var tasks []models.Task
	result := db.DB.Order("status asc, ordinal asc, id asc").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

func (s *TaskService) GetTaskById(db *database.Database, id uint) (models.Task, error) {
	var task models.Task
	if err := db.DB.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskService) CreateTask(db *database.Database, input TaskInput) (models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Task{}, ErrTitleRequired
	}

	status := models.StatusTodo
	if input.Status != nil {
		if !input.Status.IsValid() {
			return models.Task{}, ErrInvalidStatus
		}
		status = *input.Status
	}

	task := models.Task{
		Title:   title,
		Status:  status,
		Images:  models.ImageList{},
		Ordinal: 0,
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Images != nil {
		task.Images = input.Images
	}
	if input.Ordinal != nil {
		task.Ordinal = *input.Ordinal
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	if err := tx.Create(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	event, err := models.NewEvent(string(broker.TaskCreated), "task", map[string]interface{}{
		"task_id": task.ID,
		"title":   task.Title,
		"status":  string(task.Status),
		"ordinal": task.Ordinal,
	})
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	publishEvent(event)

	return task, nil
}

// UpdateTask replaces the provided fields of an existing task. Updating a
// missing id is an explicit ErrTaskNotFound, not a silent no-op. A status
// change publishes task.moved as its own step so column-entry effects fire
// independently of the ordinal batch that follows a drag.
func (s *TaskService) UpdateTask(db *database.Database, id uint, input TaskInput) (models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Task{}, ErrTitleRequired
	}
	if input.Status != nil && !input.Status.IsValid() {
		return models.Task{}, ErrInvalidStatus
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}

	previousStatus := task.Status

	task.Title = title
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Images != nil {
		task.Images = input.Images
	}
	if input.Ordinal != nil {
		task.Ordinal = *input.Ordinal
	}

	if err := tx.Save(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	eventType := broker.TaskUpdated
	payload := map[string]interface{}{
		"task_id": task.ID,
		"title":   task.Title,
		"status":  string(task.Status),
		"ordinal": task.Ordinal,
	}
	if task.Status != previousStatus {
		eventType = broker.TaskMoved
		payload["from"] = string(previousStatus)
		payload["to"] = string(task.Status)
	}

	event, err := models.NewEvent(string(eventType), "task", payload)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	publishEvent(event)

	return task, nil
}

// DeleteTask removes a task. Deleting an id that does not exist is not an
// error; the second delete of a pair is a no-op.
func (s *TaskService) DeleteTask(db *database.Database, id uint) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if err := tx.Delete(&task).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(string(broker.TaskDeleted), "task", map[string]interface{}{
		"task_id": task.ID,
		"status":  string(task.Status),
	})
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	publishEvent(event)

	return nil
}

// DeleteByStatus clears a whole column in one statement, so the sweep is
// all-or-nothing. Returns the number of rows removed.
func (s *TaskService) DeleteByStatus(db *database.Database, status models.Status) (int64, error) {
	if !status.IsValid() {
		return 0, ErrInvalidStatus
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}

	result := tx.Where("status = ?", status).Delete(&models.Task{})
	if result.Error != nil {
		tx.Rollback()
		return 0, result.Error
	}
	count := result.RowsAffected

	event, err := models.NewEvent(string(broker.TaskDeleted), "task", map[string]interface{}{
		"status": string(status),
		"count":  count,
	})
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	publishEvent(event)

	return count, nil
}

func publishEvent(event *models.Event) {
	payload := map[string]interface{}{}
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		log.Printf("Failed to decode event payload for %s: %v", event.Event, err)
		return
	}

	message := models.StandardMessage{
		Event:     event.Event,
		Entity:    event.Entity,
		Timestamp: event.Timestamp,
		Payload:   payload,
	}

	value, err := message.ToJSON()
	if err != nil {
		log.Printf("Failed to serialize event %s: %v", event.Event, err)
		return
	}
	broker.PublishMessage(event.Event, value)
}

var TaskServiceInstance TaskServiceInterface = &TaskService{}
