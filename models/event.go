package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is the journal row written alongside every task mutation.
type Event struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Event        string          `gorm:"not null" json:"event"`
	Version      int             `gorm:"not null" json:"version"`
	Entity       string          `gorm:"not null" json:"entity"`
	Timestamp    time.Time       `gorm:"not null" json:"timestamp"`
	Data         json.RawMessage `gorm:"type:text;not null" json:"data"`
	Status       string          `gorm:"not null;default:'pending'" json:"status"`
	Dispatched   bool            `gorm:"not null;default:false" json:"dispatched"`
	DispatchedAt *time.Time      `json:"dispatched_at,omitempty"`
}

func NewEvent(event, entity string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Event:     event,
		Version:   1,
		Entity:    entity,
		Timestamp: time.Now().UTC(),
		Data:      dataBytes,
		Status:    "pending",
	}, nil
}

// StandardMessage is the envelope published to the broker for every event.
type StandardMessage struct {
	Event     string                 `json:"event"`
	Entity    string                 `json:"entity"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`
}

// ToJSON serializes the message for publishing.
func (m StandardMessage) ToJSON() (string, error) {
	bytes, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
