package models

import (
	"time"

	"github.com/google/uuid"
)

// PlayHistory represents one track-play event. Rows are append-only: they are
// never mutated or deleted by normal operation and feed listen aggregation.
type PlayHistory struct {
	ID       uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:text;not null;column:user_id" validate:"required"`
	TrackID  uuid.UUID `json:"track_id" gorm:"type:text;not null;column:track_id" validate:"required"`
	PlayedAt time.Time `json:"played_at" gorm:"type:datetime;not null;column:played_at"`
	Context  *string   `json:"context,omitempty" gorm:"type:text;column:context"`

	// Populated by joins, not stored in database
	Track *Track `json:"track,omitempty" gorm:"-"`
}

// TableName overrides gorm's pluralized default
func (PlayHistory) TableName() string {
	return "play_history"
}

// NewPlayHistory creates a new PlayHistory record with generated UUID
func NewPlayHistory(userID, trackID uuid.UUID, context *string) *PlayHistory {
	return &PlayHistory{
		ID:       uuid.New(),
		UserID:   userID,
		TrackID:  trackID,
		PlayedAt: time.Now().UTC(),
		Context:  context,
	}
}
