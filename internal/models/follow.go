package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow target type constants
const (
	FollowTargetUser   = "user"
	FollowTargetArtist = "artist"
)

// Follow represents a directed follow edge from one user to a user or artist
type Follow struct {
	ID         uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	FollowerID uuid.UUID `json:"follower_id" gorm:"type:text;not null;column:follower_id" validate:"required"`
	TargetID   uuid.UUID `json:"target_id" gorm:"type:text;not null;column:target_id" validate:"required"`
	TargetType string    `json:"target_type" gorm:"type:text;not null;column:target_type" validate:"required,oneof=user artist"`
	CreatedAt  time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewFollow creates a new Follow edge with generated UUID and timestamp
func NewFollow(followerID, targetID uuid.UUID, targetType string) *Follow {
	return &Follow{
		ID:         uuid.New(),
		FollowerID: followerID,
		TargetID:   targetID,
		TargetType: targetType,
		CreatedAt:  time.Now().UTC(),
	}
}

// FollowedPlaylist represents a user following a playlist.
// At most one row exists per (user, playlist) pair.
type FollowedPlaylist struct {
	ID         uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:text;not null;column:user_id" validate:"required"`
	PlaylistID uuid.UUID `json:"playlist_id" gorm:"type:text;not null;column:playlist_id" validate:"required"`
	Public     bool      `json:"public" gorm:"type:integer;not null;default:1;column:public"`
	CreatedAt  time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewFollowedPlaylist creates a new FollowedPlaylist with generated UUID and timestamp
func NewFollowedPlaylist(userID, playlistID uuid.UUID, public bool) *FollowedPlaylist {
	return &FollowedPlaylist{
		ID:         uuid.New(),
		UserID:     userID,
		PlaylistID: playlistID,
		Public:     public,
		CreatedAt:  time.Now().UTC(),
	}
}
