package client

import (
	"context"
	"fmt"
	"sync"

	"kanban-lite/kanban/board"
	"kanban-lite/kanban/models"
)

// TasksAPI is the slice of Client the store depends on.
type TasksAPI interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, payload TaskPayload) (uint, error)
	UpdateTask(ctx context.Context, id uint, payload TaskPayload) error
	DeleteTask(ctx context.Context, id uint) error
}

// PartialBatchError reports a drag batch that only partially landed. The
// applied subset is not rolled back; the user should refresh.
type PartialBatchError struct {
	Failed int
	Total  int
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("%d of %d order updates failed; refresh recommended", e.Failed, e.Total)
}

// Store is the single source of truth for the board UI. Every mutation goes
// through a method here: optimistic local apply, server call, revert on
// error, then a full reload so the local view converges on the server's.
type Store struct {
	mu    sync.Mutex
	api   TasksAPI
	board *board.Board
}

func NewStore(api TasksAPI) *Store {
	return &Store{
		api:   api,
		board: board.New(nil),
	}
}

// Load replaces the local mirror with the server's task list.
func (s *Store) Load(ctx context.Context) error {
	tasks, err := s.api.ListTasks(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.board = board.New(tasks)
	s.mu.Unlock()
	return nil
}

// Tasks returns the mirrored task list in board order.
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Tasks()
}

// Column returns the ordered tasks of one column.
func (s *Store) Column(status models.Status) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Column(status)
}

func (s *Store) snapshot() []models.Task {
	return s.board.Tasks()
}

func (s *Store) restore(tasks []models.Task) {
	s.board = board.New(tasks)
}

// CreateTask adds a task optimistically and persists it. New tasks carry
// ordinal -1 so they float to the top of their column on the next sort.
func (s *Store) CreateTask(ctx context.Context, title, description string, status models.Status, images models.ImageList) error {
	if status == "" {
		status = models.StatusTodo
	}
	if images == nil {
		images = models.ImageList{}
	}

	placeholder := models.Task{
		Title:       title,
		Description: description,
		Status:      status,
		Images:      images,
		Ordinal:     -1,
	}

	s.mu.Lock()
	if err := s.board.Insert(placeholder); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	ordinal := -1
	_, err := s.api.CreateTask(ctx, TaskPayload{
		Title:       title,
		Description: description,
		Status:      status,
		Images:      images,
		Order:       &ordinal,
	})
	if err != nil {
		s.mu.Lock()
		s.board.Remove(placeholder.ID)
		s.mu.Unlock()
		return err
	}

	return s.Load(ctx)
}

// UpdateTask persists edited task fields, reverting the optimistic copy if
// the server rejects them.
func (s *Store) UpdateTask(ctx context.Context, task models.Task) error {
	s.mu.Lock()
	before := s.snapshot()
	if !s.board.Replace(task) {
		s.mu.Unlock()
		return board.ErrTaskNotInBoard
	}
	s.mu.Unlock()

	err := s.api.UpdateTask(ctx, task.ID, TaskPayload{
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Images:      task.Images,
		Order:       &task.Ordinal,
	})
	if err != nil {
		s.mu.Lock()
		s.restore(before)
		s.mu.Unlock()
		return err
	}

	return s.Load(ctx)
}

// DeleteTask removes a task optimistically, reinserting it if the server
// call fails.
func (s *Store) DeleteTask(ctx context.Context, id uint) error {
	s.mu.Lock()
	removed, ok := s.board.Remove(id)
	s.mu.Unlock()

	if err := s.api.DeleteTask(ctx, id); err != nil {
		if ok {
			s.mu.Lock()
			s.board.Insert(removed)
			s.mu.Unlock()
		}
		return err
	}

	return s.Load(ctx)
}

// MoveTask applies a drag gesture: drop task id at index within the given
// column. A cross-column move updates the status first as its own step,
// then the ordinal batch for every touched card goes out. Batch failures
// are partial by design; the applied subset stays and the caller gets a
// PartialBatchError to surface.
func (s *Store) MoveTask(ctx context.Context, id uint, to models.Status, index int) error {
	s.mu.Lock()
	before := s.snapshot()
	result, err := s.board.ApplyMove(id, to, index)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	moved, _ := s.board.Find(id)
	s.mu.Unlock()

	if result.StatusChanged {
		err := s.api.UpdateTask(ctx, id, TaskPayload{
			Title:       moved.Title,
			Description: moved.Description,
			Status:      to,
			Images:      moved.Images,
			Order:       &moved.Ordinal,
		})
		if err != nil {
			s.mu.Lock()
			s.restore(before)
			s.mu.Unlock()
			return err
		}
	}

	failed := 0
	for _, update := range result.Updates {
		s.mu.Lock()
		task, ok := s.board.Find(update.ID)
		s.mu.Unlock()
		if !ok {
			continue
		}
		ordinal := update.Ordinal
		err := s.api.UpdateTask(ctx, update.ID, TaskPayload{
			Title:       task.Title,
			Description: task.Description,
			Status:      update.Status,
			Images:      task.Images,
			Order:       &ordinal,
		})
		if err != nil {
			failed++
		}
	}

	if err := s.Load(ctx); err != nil {
		return err
	}

	if failed > 0 {
		return &PartialBatchError{Failed: failed, Total: len(result.Updates)}
	}
	return nil
}

// ClearDone deletes every task in the done column one by one. A failed row
// does not abort the sweep; the count of removed tasks is returned either
// way.
func (s *Store) ClearDone(ctx context.Context) (int, error) {
	s.mu.Lock()
	done := s.board.Column(models.StatusDone)
	s.mu.Unlock()

	deleted := 0
	failed := 0
	for _, task := range done {
		if err := s.api.DeleteTask(ctx, task.ID); err != nil {
			failed++
			continue
		}
		deleted++
	}

	if err := s.Load(ctx); err != nil {
		return deleted, err
	}

	if failed > 0 {
		return deleted, &PartialBatchError{Failed: failed, Total: len(done)}
	}
	return deleted, nil
}
