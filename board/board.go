package board

import (
	"errors"
	"fmt"
	"sort"

	"kanban-lite/kanban/models"
)

var (
	ErrTaskNotInBoard = errors.New("task not found on board")
	ErrInvalidColumn  = errors.New("invalid column")
)

// OrdinalUpdate is one (id, status, ordinal) tuple produced by a move. The
// full set for a drag is submitted to the server as a single logical batch.
type OrdinalUpdate struct {
	ID      uint
	Status  models.Status
	Ordinal int
}

// MoveResult describes the outcome of a drag. StatusChanged is set when the
// task crossed columns; callers use it to run column-entry effects before
// the ordinal batch goes out.
type MoveResult struct {
	From          models.Status
	To            models.Status
	StatusChanged bool
	Updates       []OrdinalUpdate
}

// Board owns the per-column ordered task lists. The rendered UI is a pure
// projection of this structure; moves never read positions back from it.
type Board struct {
	columns map[models.Status][]models.Task
}

// New builds a board from an unordered task set. Each column is sorted by
// ordinal ascending with id ascending as the tie-break, so newly created
// tasks (ordinal -1) land at the top of their column.
func New(tasks []models.Task) *Board {
	b := &Board{columns: make(map[models.Status][]models.Task)}
	for _, status := range models.Statuses {
		b.columns[status] = []models.Task{}
	}
	for _, task := range tasks {
		if !task.Status.IsValid() {
			continue
		}
		b.columns[task.Status] = append(b.columns[task.Status], task)
	}
	for _, status := range models.Statuses {
		sortColumn(b.columns[status])
	}
	return b
}

func sortColumn(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Ordinal != tasks[j].Ordinal {
			return tasks[i].Ordinal < tasks[j].Ordinal
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// Column returns a copy of the ordered tasks in a column.
func (b *Board) Column(status models.Status) []models.Task {
	tasks := b.columns[status]
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	return out
}

// Tasks returns every task in column display order, then column order.
func (b *Board) Tasks() []models.Task {
	var out []models.Task
	for _, status := range models.Statuses {
		out = append(out, b.columns[status]...)
	}
	return out
}

// Find returns the task with the given id, if present.
func (b *Board) Find(id uint) (models.Task, bool) {
	status, idx, ok := b.locate(id)
	if !ok {
		return models.Task{}, false
	}
	return b.columns[status][idx], true
}

func (b *Board) locate(id uint) (models.Status, int, bool) {
	for _, status := range models.Statuses {
		for i, task := range b.columns[status] {
			if task.ID == id {
				return status, i, true
			}
		}
	}
	return "", 0, false
}

// Insert places a task into its column by sort position.
func (b *Board) Insert(task models.Task) error {
	if !task.Status.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidColumn, task.Status)
	}
	b.columns[task.Status] = append(b.columns[task.Status], task)
	sortColumn(b.columns[task.Status])
	return nil
}

// Remove deletes a task from the board and returns it. Removal does not
// renumber the remaining cards; their relative order is already encoded.
func (b *Board) Remove(id uint) (models.Task, bool) {
	status, idx, ok := b.locate(id)
	if !ok {
		return models.Task{}, false
	}
	task := b.columns[status][idx]
	b.columns[status] = append(b.columns[status][:idx], b.columns[status][idx+1:]...)
	return task, true
}

// Replace swaps the stored copy of a task in place, keeping its position.
func (b *Board) Replace(task models.Task) bool {
	status, idx, ok := b.locate(task.ID)
	if !ok {
		return false
	}
	if status == task.Status {
		b.columns[status][idx] = task
		return true
	}
	// Status changed outside a move; fall back to remove + insert.
	b.columns[status] = append(b.columns[status][:idx], b.columns[status][idx+1:]...)
	b.columns[task.Status] = append(b.columns[task.Status], task)
	sortColumn(b.columns[task.Status])
	return true
}

// ApplyMove drops the task at the given index of the destination column and
// re-enumerates every touched column top to bottom, assigning dense 0-based
// ordinals. A cross-column move flips the task's status first so callers can
// observe the transition independently of the ordinal batch.
func (b *Board) ApplyMove(id uint, to models.Status, index int) (MoveResult, error) {
	if !to.IsValid() {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrInvalidColumn, to)
	}

	from, idx, ok := b.locate(id)
	if !ok {
		return MoveResult{}, ErrTaskNotInBoard
	}

	task := b.columns[from][idx]
	b.columns[from] = append(b.columns[from][:idx], b.columns[from][idx+1:]...)

	result := MoveResult{From: from, To: to, StatusChanged: from != to}
	if result.StatusChanged {
		task.Status = to
	}

	dest := b.columns[to]
	if index < 0 {
		index = 0
	}
	if index > len(dest) {
		index = len(dest)
	}
	dest = append(dest, models.Task{})
	copy(dest[index+1:], dest[index:])
	dest[index] = task
	b.columns[to] = dest

	touched := []models.Status{to}
	if result.StatusChanged {
		touched = append(touched, from)
	}
	for _, status := range touched {
		for i := range b.columns[status] {
			b.columns[status][i].Ordinal = i
			result.Updates = append(result.Updates, OrdinalUpdate{
				ID:      b.columns[status][i].ID,
				Status:  status,
				Ordinal: i,
			})
		}
	}

	return result, nil
}
