package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/models"
	"gorm.io/gorm"
)

// FollowRepository handles database operations for the follow graph
type FollowRepository struct {
	db *DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create inserts a follow edge, optionally inside an enclosing transaction
func (r *FollowRepository) Create(ctx context.Context, tx *gorm.DB, follow *models.Follow) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	if err := tx.Create(follow).Error; err != nil {
		return fmt.Errorf("failed to create follow edge: %w", MapGormError(err))
	}
	return nil
}

// Delete removes a follow edge, optionally inside an enclosing transaction.
// Returns the number of edges removed.
func (r *FollowRepository) Delete(ctx context.Context, tx *gorm.DB, followerID, targetID uuid.UUID) (int64, error) {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	result := tx.Where("follower_id = ? AND target_id = ?", followerID.String(), targetID.String()).
		Delete(&models.Follow{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete follow edge: %w", MapGormError(result.Error))
	}
	return result.RowsAffected, nil
}

// Following returns the set of target IDs the user currently follows,
// restricted to the given candidates
func (r *FollowRepository) Following(ctx context.Context, followerID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]*models.Follow, error) {
	following := make(map[uuid.UUID]*models.Follow, len(targetIDs))
	if len(targetIDs) == 0 {
		return following, nil
	}

	idStrings := make([]string, len(targetIDs))
	for i, id := range targetIDs {
		idStrings[i] = id.String()
	}

	var rows []*models.Follow
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND target_id IN ?", followerID.String(), idStrings).
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query follow edges: %w", MapGormError(result.Error))
	}

	for _, f := range rows {
		following[f.TargetID] = f
	}
	return following, nil
}

// ListFollowing returns all edges from the given follower, newest first
func (r *FollowRepository) ListFollowing(ctx context.Context, followerID uuid.UUID) ([]*models.Follow, error) {
	var rows []*models.Follow
	result := r.db.WithContext(ctx).
		Where("follower_id = ?", followerID.String()).
		Order("created_at DESC").
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list follow edges: %w", MapGormError(result.Error))
	}
	return rows, nil
}

// FollowedPlaylistRepository handles database operations for playlist follows
type FollowedPlaylistRepository struct {
	db *DB
}

// NewFollowedPlaylistRepository creates a new followed playlist repository
func NewFollowedPlaylistRepository(db *DB) *FollowedPlaylistRepository {
	return &FollowedPlaylistRepository{db: db}
}

// Get retrieves the follow entry for a (user, playlist) pair
func (r *FollowedPlaylistRepository) Get(ctx context.Context, userID, playlistID uuid.UUID) (*models.FollowedPlaylist, error) {
	var entry models.FollowedPlaylist
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND playlist_id = ?", userID.String(), playlistID.String()).
		First(&entry)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &entry, nil
}

// Create inserts a followed-playlist entry, optionally inside an enclosing transaction
func (r *FollowedPlaylistRepository) Create(ctx context.Context, tx *gorm.DB, entry *models.FollowedPlaylist) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create followed playlist: %w", MapGormError(err))
	}
	return nil
}

// Delete removes a followed-playlist entry, optionally inside an enclosing
// transaction. Returns the number of entries removed.
func (r *FollowedPlaylistRepository) Delete(ctx context.Context, tx *gorm.DB, userID, playlistID uuid.UUID) (int64, error) {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	result := tx.Where("user_id = ? AND playlist_id = ?", userID.String(), playlistID.String()).
		Delete(&models.FollowedPlaylist{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete followed playlist: %w", MapGormError(result.Error))
	}
	return result.RowsAffected, nil
}

// ListByUser returns the playlists a user follows, newest first
func (r *FollowedPlaylistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.FollowedPlaylist, error) {
	var rows []*models.FollowedPlaylist
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("created_at DESC").
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list followed playlists: %w", MapGormError(result.Error))
	}
	return rows, nil
}
