package services

import (
	"errors"
	"testing"

	"kanban-lite/kanban/models"
	"kanban-lite/kanban/testutils"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

// Read paths run against statement mocks; mutation paths use the in-memory
// database instead because their generated SQL is driver-specific.

func TestGetAllTasks_ScansImageList(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	rows := sqlmock.NewRows([]string{"id", "title", "description", "status", "images", "ordinal"}).
		AddRow(1, "First", "", "todo", `["img_a.png","img_b.png"]`, 0).
		AddRow(2, "Second", "", "done", `[]`, 0)
	mock.ExpectQuery(`SELECT (.+) FROM "tasks"`).WillReturnRows(rows)

	svc := &TaskService{}
	tasks, err := svc.GetAllTasks(db)
	assert.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, models.ImageList{"img_a.png", "img_b.png"}, tasks[0].Images)
	assert.Equal(t, models.ImageList{}, tasks[1].Images)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllTasks_QueryError(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectQuery(`SELECT (.+) FROM "tasks"`).WillReturnError(errors.New("connection reset"))

	svc := &TaskService{}
	_, err := svc.GetAllTasks(db)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTaskById_MockNotFound(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectQuery(`SELECT (.+) FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status"}))

	svc := &TaskService{}
	_, err := svc.GetTaskById(db, 42)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
