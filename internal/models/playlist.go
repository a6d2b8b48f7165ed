package models

import (
	"time"

	"github.com/google/uuid"
)

// Playlist represents a named, ordered collection of track references owned by a user.
// Revision is bumped on every track-sequence write and guards against lost updates.
type Playlist struct {
	ID            uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	OwnerID       uuid.UUID `json:"owner_id" gorm:"type:text;not null;column:owner_id" validate:"required"`
	Name          string    `json:"name" gorm:"type:text;not null;column:name" validate:"required,min=1,max=255"`
	Description   *string   `json:"description,omitempty" gorm:"type:text;column:description"`
	Public        bool      `json:"public" gorm:"type:integer;not null;default:0;column:public"`
	Collaborative bool      `json:"collaborative" gorm:"type:integer;not null;default:0;column:collaborative"`
	FollowerCount int64     `json:"follower_count" gorm:"type:integer;not null;default:0;column:follower_count"`
	Revision      int64     `json:"-" gorm:"type:integer;not null;default:0;column:revision"`
	CreatedAt     time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`

	// Populated by joins, not stored in database
	Collaborators []uuid.UUID `json:"collaborators,omitempty" gorm:"-"`
}

// NewPlaylist creates a new Playlist with generated UUID and timestamps
func NewPlaylist(ownerID uuid.UUID, name string) *Playlist {
	now := time.Now().UTC()
	return &Playlist{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsCollaborator reports whether the given user is in the collaborator set
func (p *Playlist) IsCollaborator(userID uuid.UUID) bool {
	for _, id := range p.Collaborators {
		if id == userID {
			return true
		}
	}
	return false
}

// PlaylistCollaborator represents membership in a playlist's collaborator set
type PlaylistCollaborator struct {
	PlaylistID uuid.UUID `json:"playlist_id" gorm:"type:text;not null;primaryKey;column:playlist_id"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:text;not null;primaryKey;column:user_id"`
	CreatedAt  time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// PlaylistTrack represents one positional entry in a playlist's track sequence.
// Identity is positional: the same track may appear at multiple positions.
type PlaylistTrack struct {
	ID         uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	PlaylistID uuid.UUID `json:"playlist_id" gorm:"type:text;not null;column:playlist_id" validate:"required"`
	TrackID    uuid.UUID `json:"track_id" gorm:"type:text;not null;column:track_id" validate:"required"`
	Position   int       `json:"position" gorm:"type:integer;not null;column:position" validate:"gte=0"`
	AddedBy    uuid.UUID `json:"added_by" gorm:"type:text;not null;column:added_by"`
	IsLocal    bool      `json:"is_local" gorm:"type:integer;not null;default:0;column:is_local"`
	AddedAt    time.Time `json:"added_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:added_at"`

	// Populated by joins, not stored in database
	Track *Track `json:"track,omitempty" gorm:"-"`
}

// NewPlaylistTrack creates a new PlaylistTrack with generated UUID and timestamp
func NewPlaylistTrack(playlistID, trackID, addedBy uuid.UUID, position int) *PlaylistTrack {
	return &PlaylistTrack{
		ID:         uuid.New(),
		PlaylistID: playlistID,
		TrackID:    trackID,
		Position:   position,
		AddedBy:    addedBy,
		AddedAt:    time.Now().UTC(),
	}
}
