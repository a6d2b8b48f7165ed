package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Track represents a single playable track in the catalog
type Track struct {
	ID         uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	Title      string     `json:"title" gorm:"type:text;not null;column:title" validate:"required,min=1,max=255"`
	ArtistID   uuid.UUID  `json:"artist_id" gorm:"type:text;not null;column:artist_id" validate:"required"`
	AlbumID    *uuid.UUID `json:"album_id,omitempty" gorm:"type:text;column:album_id"`
	DurationMS int64      `json:"duration_ms" gorm:"type:integer;not null;column:duration_ms" validate:"required,gt=0"`
	CreatedAt  time.Time  `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewTrack creates a new Track with generated UUID and timestamp
func NewTrack(title string, artistID uuid.UUID, durationMS int64) *Track {
	return &Track{
		ID:         uuid.New(),
		Title:      title,
		ArtistID:   artistID,
		DurationMS: durationMS,
		CreatedAt:  time.Now().UTC(),
	}
}

// DurationString returns duration in MM:SS format
func (t *Track) DurationString() string {
	totalSeconds := t.DurationMS / 1000
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}
