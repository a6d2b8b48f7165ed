package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/models"
	"gorm.io/gorm"
)

// PlaylistRepository handles database operations for playlists and their track sequences
type PlaylistRepository struct {
	db *DB
}

// NewPlaylistRepository creates a new playlist repository
func NewPlaylistRepository(db *DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist into the database
func (r *PlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	result := r.db.WithContext(ctx).Create(playlist)
	if result.Error != nil {
		return fmt.Errorf("failed to create playlist: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a playlist by its UUID with its collaborator set populated
func (r *PlaylistRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	var playlist models.Playlist
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&playlist)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}

	var collaborators []models.PlaylistCollaborator
	result = r.db.WithContext(ctx).Where("playlist_id = ?", id.String()).Find(&collaborators)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load playlist collaborators: %w", MapGormError(result.Error))
	}
	playlist.Collaborators = make([]uuid.UUID, len(collaborators))
	for i, c := range collaborators {
		playlist.Collaborators[i] = c.UserID
	}

	return &playlist, nil
}

// ListByOwner retrieves all playlists owned by a user, newest first
func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Playlist, error) {
	var playlists []*models.Playlist
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID.String()).
		Order("created_at DESC").
		Find(&playlists)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", MapGormError(result.Error))
	}
	return playlists, nil
}

// Update updates a playlist's details
func (r *PlaylistRepository) Update(ctx context.Context, playlist *models.Playlist) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", playlist.ID.String()).
		Select("name", "description", "public", "collaborative", "updated_at").
		Updates(playlist)
	if result.Error != nil {
		return fmt.Errorf("failed to update playlist: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a playlist by its UUID (cascade delete to tracks and collaborators)
func (r *PlaylistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Playlist{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete playlist: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddCollaborator adds a user to a playlist's collaborator set
func (r *PlaylistRepository) AddCollaborator(ctx context.Context, playlistID, userID uuid.UUID) error {
	collaborator := &models.PlaylistCollaborator{
		PlaylistID: playlistID,
		UserID:     userID,
	}
	result := r.db.WithContext(ctx).Create(collaborator)
	if result.Error != nil {
		return fmt.Errorf("failed to add collaborator: %w", MapGormError(result.Error))
	}
	return nil
}

// RemoveCollaborator removes a user from a playlist's collaborator set
func (r *PlaylistRepository) RemoveCollaborator(ctx context.Context, playlistID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("playlist_id = ? AND user_id = ?", playlistID.String(), userID.String()).
		Delete(&models.PlaylistCollaborator{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove collaborator: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTracks retrieves the full track sequence for a playlist ordered by position
func (r *PlaylistRepository) GetTracks(ctx context.Context, playlistID uuid.UUID) ([]*models.PlaylistTrack, error) {
	var entries []*models.PlaylistTrack
	result := r.db.WithContext(ctx).
		Where("playlist_id = ?", playlistID.String()).
		Order("position ASC").
		Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get playlist tracks: %w", MapGormError(result.Error))
	}
	return entries, nil
}

// CountTracks returns the number of entries in a playlist's track sequence
func (r *PlaylistRepository) CountTracks(ctx context.Context, playlistID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.PlaylistTrack{}).
		Where("playlist_id = ?", playlistID.String()).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count playlist tracks: %w", MapGormError(result.Error))
	}
	return count, nil
}

// ReplaceTracks writes back a playlist's full track sequence in a single
// transaction. The write is conditioned on the playlist revision being
// unchanged since the sequence was loaded: if another writer got there first
// the transaction rolls back with ErrRevisionConflict and nothing is
// modified. Entries are renumbered 0..n-1 in slice order before insertion.
func (r *PlaylistRepository) ReplaceTracks(ctx context.Context, playlistID uuid.UUID, revision int64, entries []*models.PlaylistTrack) error {
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		// Bump the revision only if nobody else has; zero rows affected
		// means a concurrent writer already replaced the sequence.
		result := tx.Model(&models.Playlist{}).
			Where("id = ? AND revision = ?", playlistID.String(), revision).
			Update("revision", revision+1)
		if result.Error != nil {
			return fmt.Errorf("failed to bump playlist revision: %w", MapGormError(result.Error))
		}
		if result.RowsAffected == 0 {
			return ErrRevisionConflict
		}

		result = tx.Where("playlist_id = ?", playlistID.String()).Delete(&models.PlaylistTrack{})
		if result.Error != nil {
			return fmt.Errorf("failed to clear playlist tracks: %w", MapGormError(result.Error))
		}

		if len(entries) == 0 {
			return nil
		}

		for i, entry := range entries {
			entry.Position = i
		}
		// Batched to stay under sqlite's bind-variable limit on large sequences
		if err := tx.CreateInBatches(&entries, 500).Error; err != nil {
			return fmt.Errorf("failed to write playlist tracks: %w", MapGormError(err))
		}
		return nil
	})
}

// IncrementFollowerCount adjusts a playlist's denormalized follower counter by delta
func (r *PlaylistRepository) IncrementFollowerCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int64) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	result := tx.Model(&models.Playlist{}).
		Where("id = ?", id.String()).
		Update("follower_count", gorm.Expr("follower_count + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to update playlist follower count: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
