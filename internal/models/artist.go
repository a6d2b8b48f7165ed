package models

import (
	"time"

	"github.com/google/uuid"
)

// Artist represents a performing artist in the catalog
type Artist struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name      string    `json:"name" gorm:"type:text;not null;column:name" validate:"required,min=1,max=255"`
	Genre     *string   `json:"genre,omitempty" gorm:"type:text;column:genre"`
	Followers int64     `json:"followers" gorm:"type:integer;not null;default:0;column:followers"`
	CreatedAt time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewArtist creates a new Artist with generated UUID and timestamp
func NewArtist(name string) *Artist {
	return &Artist{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}
