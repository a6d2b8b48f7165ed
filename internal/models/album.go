package models

import (
	"time"

	"github.com/google/uuid"
)

// Album represents a released collection of tracks in the catalog
type Album struct {
	ID          uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	Title       string     `json:"title" gorm:"type:text;not null;column:title" validate:"required,min=1,max=255"`
	ArtistID    uuid.UUID  `json:"artist_id" gorm:"type:text;not null;column:artist_id" validate:"required"`
	ReleaseDate *time.Time `json:"release_date,omitempty" gorm:"type:datetime;column:release_date"`
	CreatedAt   time.Time  `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewAlbum creates a new Album with generated UUID and timestamp
func NewAlbum(title string, artistID uuid.UUID) *Album {
	return &Album{
		ID:        uuid.New(),
		Title:     title,
		ArtistID:  artistID,
		CreatedAt: time.Now().UTC(),
	}
}
