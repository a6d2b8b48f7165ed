package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedTrack represents a track saved to a user's library.
// At most one row exists per (user, track) pair, enforced at save time.
type SavedTrack struct {
	ID      uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	UserID  uuid.UUID `json:"user_id" gorm:"type:text;not null;column:user_id" validate:"required"`
	TrackID uuid.UUID `json:"track_id" gorm:"type:text;not null;column:track_id" validate:"required"`
	AddedAt time.Time `json:"added_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:added_at"`

	// Populated by joins, not stored in database
	Track *Track `json:"track,omitempty" gorm:"-"`
}

// NewSavedTrack creates a new SavedTrack with generated UUID and timestamp
func NewSavedTrack(userID, trackID uuid.UUID) *SavedTrack {
	return &SavedTrack{
		ID:      uuid.New(),
		UserID:  userID,
		TrackID: trackID,
		AddedAt: time.Now().UTC(),
	}
}

// SavedAlbum represents an album saved to a user's library
type SavedAlbum struct {
	ID      uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	UserID  uuid.UUID `json:"user_id" gorm:"type:text;not null;column:user_id" validate:"required"`
	AlbumID uuid.UUID `json:"album_id" gorm:"type:text;not null;column:album_id" validate:"required"`
	AddedAt time.Time `json:"added_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:added_at"`

	// Populated by joins, not stored in database
	Album *Album `json:"album,omitempty" gorm:"-"`
}

// NewSavedAlbum creates a new SavedAlbum with generated UUID and timestamp
func NewSavedAlbum(userID, albumID uuid.UUID) *SavedAlbum {
	return &SavedAlbum{
		ID:      uuid.New(),
		UserID:  userID,
		AlbumID: albumID,
		AddedAt: time.Now().UTC(),
	}
}
