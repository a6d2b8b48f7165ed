package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/models"
)

// PlayHistoryRepository handles database operations for the play-history log.
// The log is append-only: there is no update or delete path.
type PlayHistoryRepository struct {
	db *DB
}

// NewPlayHistoryRepository creates a new play history repository
func NewPlayHistoryRepository(db *DB) *PlayHistoryRepository {
	return &PlayHistoryRepository{db: db}
}

// Create appends a new play record to the log
func (r *PlayHistoryRepository) Create(ctx context.Context, record *models.PlayHistory) error {
	result := r.db.WithContext(ctx).Create(record)
	if result.Error != nil {
		return fmt.Errorf("failed to record play: %w", MapGormError(result.Error))
	}
	return nil
}

// ListByUser retrieves a user's play records newest first, optionally only
// those played strictly before the given instant
func (r *PlayHistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int, before *time.Time) ([]*models.PlayHistory, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID.String())
	if before != nil {
		query = query.Where("played_at < ?", *before)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []*models.PlayHistory
	result := query.Order("played_at DESC").Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list play history: %w", MapGormError(result.Error))
	}
	return records, nil
}

// PlayEventsInWindow returns play events for the given tracks with
// played_at in [start, end)
func (r *PlayHistoryRepository) PlayEventsInWindow(ctx context.Context, trackIDs []uuid.UUID, start, end time.Time) ([]*models.PlayHistory, error) {
	if len(trackIDs) == 0 {
		return nil, nil
	}
	idStrings := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		idStrings[i] = id.String()
	}

	var rows []*models.PlayHistory
	result := r.db.WithContext(ctx).
		Where("track_id IN ? AND played_at >= ? AND played_at < ?", idStrings, start, end).
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query play events: %w", MapGormError(result.Error))
	}
	return rows, nil
}

// AlbumPlayEvent is a play event resolved track-to-album
type AlbumPlayEvent struct {
	AlbumID  uuid.UUID `gorm:"column:album_id"`
	PlayedAt time.Time `gorm:"column:played_at"`
}

// PlayEventsForAlbumsInWindow returns play events in [start, end) joined
// track-to-album, restricted to tracks belonging to the given albums
func (r *PlayHistoryRepository) PlayEventsForAlbumsInWindow(ctx context.Context, albumIDs []uuid.UUID, start, end time.Time) ([]AlbumPlayEvent, error) {
	if len(albumIDs) == 0 {
		return nil, nil
	}
	idStrings := make([]string, len(albumIDs))
	for i, id := range albumIDs {
		idStrings[i] = id.String()
	}

	var rows []AlbumPlayEvent
	result := r.db.WithContext(ctx).
		Table("play_history").
		Select("tracks.album_id AS album_id, play_history.played_at AS played_at").
		Joins("JOIN tracks ON tracks.id = play_history.track_id").
		Where("tracks.album_id IN ? AND play_history.played_at >= ? AND play_history.played_at < ?", idStrings, start, end).
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query album play events: %w", MapGormError(result.Error))
	}
	return rows, nil
}
