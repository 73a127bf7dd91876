package models

import (
	"time"
)

// User backs the optional database credential store. The default deployment
// runs on a single shared secret and never touches this table.
type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"unique;not null"`
	PasswordHash string
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// UserIdentity is the authenticated principal handed out by a credential
// store and embedded in session tokens and login responses.
type UserIdentity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}
