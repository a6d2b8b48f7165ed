package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered listener account
type User struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Email       string    `json:"email" gorm:"type:text;not null;uniqueIndex;column:email" validate:"required,email"`
	DisplayName string    `json:"display_name" gorm:"type:text;not null;column:display_name" validate:"required,min=1,max=255"`
	Followers   int64     `json:"followers" gorm:"type:integer;not null;default:0;column:followers"`
	CreatedAt   time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// NewUser creates a new User with generated UUID and timestamps
func NewUser(email, displayName string) *User {
	now := time.Now().UTC()
	return &User{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
