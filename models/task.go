package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Status is the column a task lives in.
type Status string

const (
	StatusTodo     Status = "todo"
	StatusProgress Status = "progress"
	StatusDone     Status = "done"
)

// Statuses lists the board columns in display order.
var Statuses = []Status{StatusTodo, StatusProgress, StatusDone}

func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusProgress, StatusDone:
		return true
	}
	return false
}

// ColumnIndex returns the display position of a status, or -1 if unknown.
func ColumnIndex(s Status) int {
	for i, status := range Statuses {
		if status == s {
			return i
		}
	}
	return -1
}

// ImageList is the ordered set of attachment filenames on a task. It is
// stored as a JSON text column; an absent value decodes to an empty list.
type ImageList []string

// Value implements the driver.Valuer interface for JSON storage
func (il ImageList) Value() (driver.Value, error) {
	if il == nil {
		il = ImageList{}
	}
	return json.Marshal(il)
}

// Scan implements the sql.Scanner interface for JSON retrieval
func (il *ImageList) Scan(value interface{}) error {
	if value == nil {
		*il = ImageList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	if len(bytes) == 0 {
		*il = ImageList{}
		return nil
	}

	return json.Unmarshal(bytes, il)
}

// Contains reports whether a filename is referenced by the list.
func (il ImageList) Contains(filename string) bool {
	for _, name := range il {
		if name == filename {
			return true
		}
	}
	return false
}

type Task struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Status      Status    `gorm:"type:text;not null;default:'todo'" json:"status"`
	Images      ImageList `gorm:"type:text" json:"images"`
	Ordinal     int       `gorm:"column:ordinal;not null;default:0" json:"order"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
