package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/models"
)

// SavedTrackRepository handles database operations for a user's saved tracks
type SavedTrackRepository struct {
	db *DB
}

// NewSavedTrackRepository creates a new saved track repository
func NewSavedTrackRepository(db *DB) *SavedTrackRepository {
	return &SavedTrackRepository{db: db}
}

// CreateBatch inserts a batch of saved tracks
func (r *SavedTrackRepository) CreateBatch(ctx context.Context, items []*models.SavedTrack) error {
	if len(items) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).CreateInBatches(&items, 500)
	if result.Error != nil {
		return fmt.Errorf("failed to create saved tracks: %w", MapGormError(result.Error))
	}
	return nil
}

// CountByUser returns the number of tracks a user has saved
func (r *SavedTrackRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.SavedTrack{}).
		Where("user_id = ?", userID.String()).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count saved tracks: %w", MapGormError(result.Error))
	}
	return count, nil
}

// SavedIDs returns which of the given track IDs the user has already saved
func (r *SavedTrackRepository) SavedIDs(ctx context.Context, userID uuid.UUID, trackIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	saved := make(map[uuid.UUID]bool, len(trackIDs))
	if len(trackIDs) == 0 {
		return saved, nil
	}

	idStrings := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		idStrings[i] = id.String()
		saved[id] = false
	}

	var rows []models.SavedTrack
	result := r.db.WithContext(ctx).
		Select("track_id").
		Where("user_id = ? AND track_id IN ?", userID.String(), idStrings).
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to check saved tracks: %w", MapGormError(result.Error))
	}

	for i := range rows {
		saved[rows[i].TrackID] = true
	}
	return saved, nil
}

// ListByUser retrieves a page of a user's saved tracks in natural store order
func (r *SavedTrackRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.SavedTrack, error) {
	var items []*models.SavedTrack
	query := r.db.WithContext(ctx).Where("user_id = ?", userID.String())
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	result := query.Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list saved tracks: %w", MapGormError(result.Error))
	}
	return items, nil
}

// DeleteByUser deletes the user's saved rows for the given track IDs and
// returns the number of rows removed
func (r *SavedTrackRepository) DeleteByUser(ctx context.Context, userID uuid.UUID, trackIDs []uuid.UUID) (int64, error) {
	if len(trackIDs) == 0 {
		return 0, nil
	}
	idStrings := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		idStrings[i] = id.String()
	}
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND track_id IN ?", userID.String(), idStrings).
		Delete(&models.SavedTrack{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete saved tracks: %w", MapGormError(result.Error))
	}
	return result.RowsAffected, nil
}

// SavedAlbumRepository handles database operations for a user's saved albums
type SavedAlbumRepository struct {
	db *DB
}

// NewSavedAlbumRepository creates a new saved album repository
func NewSavedAlbumRepository(db *DB) *SavedAlbumRepository {
	return &SavedAlbumRepository{db: db}
}

// CreateBatch inserts a batch of saved albums
func (r *SavedAlbumRepository) CreateBatch(ctx context.Context, items []*models.SavedAlbum) error {
	if len(items) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).CreateInBatches(&items, 500)
	if result.Error != nil {
		return fmt.Errorf("failed to create saved albums: %w", MapGormError(result.Error))
	}
	return nil
}

// CountByUser returns the number of albums a user has saved
func (r *SavedAlbumRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.SavedAlbum{}).
		Where("user_id = ?", userID.String()).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count saved albums: %w", MapGormError(result.Error))
	}
	return count, nil
}

// SavedIDs returns which of the given album IDs the user has already saved
func (r *SavedAlbumRepository) SavedIDs(ctx context.Context, userID uuid.UUID, albumIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	saved := make(map[uuid.UUID]bool, len(albumIDs))
	if len(albumIDs) == 0 {
		return saved, nil
	}

	idStrings := make([]string, len(albumIDs))
	for i, id := range albumIDs {
		idStrings[i] = id.String()
		saved[id] = false
	}

	var rows []models.SavedAlbum
	result := r.db.WithContext(ctx).
		Select("album_id").
		Where("user_id = ? AND album_id IN ?", userID.String(), idStrings).
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to check saved albums: %w", MapGormError(result.Error))
	}

	for i := range rows {
		saved[rows[i].AlbumID] = true
	}
	return saved, nil
}

// ListByUser retrieves a page of a user's saved albums in natural store order
func (r *SavedAlbumRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.SavedAlbum, error) {
	var items []*models.SavedAlbum
	query := r.db.WithContext(ctx).Where("user_id = ?", userID.String())
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	result := query.Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list saved albums: %w", MapGormError(result.Error))
	}
	return items, nil
}

// DeleteByUser deletes the user's saved rows for the given album IDs and
// returns the number of rows removed
func (r *SavedAlbumRepository) DeleteByUser(ctx context.Context, userID uuid.UUID, albumIDs []uuid.UUID) (int64, error) {
	if len(albumIDs) == 0 {
		return 0, nil
	}
	idStrings := make([]string, len(albumIDs))
	for i, id := range albumIDs {
		idStrings[i] = id.String()
	}
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND album_id IN ?", userID.String(), idStrings).
		Delete(&models.SavedAlbum{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete saved albums: %w", MapGormError(result.Error))
	}
	return result.RowsAffected, nil
}

// SaveEventsInWindow returns track save events for the given targets with
// added_at in [start, end)
func (r *SavedTrackRepository) SaveEventsInWindow(ctx context.Context, trackIDs []uuid.UUID, start, end time.Time) ([]*models.SavedTrack, error) {
	if len(trackIDs) == 0 {
		return nil, nil
	}
	idStrings := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		idStrings[i] = id.String()
	}
	var rows []*models.SavedTrack
	result := r.db.WithContext(ctx).
		Where("track_id IN ? AND added_at >= ? AND added_at < ?", idStrings, start, end).
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query save events: %w", MapGormError(result.Error))
	}
	return rows, nil
}

// SaveEventsInWindow returns album save events for the given targets with
// added_at in [start, end)
func (r *SavedAlbumRepository) SaveEventsInWindow(ctx context.Context, albumIDs []uuid.UUID, start, end time.Time) ([]*models.SavedAlbum, error) {
	if len(albumIDs) == 0 {
		return nil, nil
	}
	idStrings := make([]string, len(albumIDs))
	for i, id := range albumIDs {
		idStrings[i] = id.String()
	}
	var rows []*models.SavedAlbum
	result := r.db.WithContext(ctx).
		Where("album_id IN ? AND added_at >= ? AND added_at < ?", idStrings, start, end).
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query album save events: %w", MapGormError(result.Error))
	}
	return rows, nil
}
