package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/models"
	"gorm.io/gorm"
)

// TrackRepository handles database operations for catalog tracks
type TrackRepository struct {
	db *DB
}

// NewTrackRepository creates a new track repository
func NewTrackRepository(db *DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Create inserts a new track into the database
func (r *TrackRepository) Create(ctx context.Context, track *models.Track) error {
	result := r.db.WithContext(ctx).Create(track)
	if result.Error != nil {
		return fmt.Errorf("failed to create track: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a track by its UUID
func (r *TrackRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Track, error) {
	var track models.Track
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&track)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &track, nil
}

// GetByIDs retrieves all tracks matching the given IDs, keyed by ID.
// IDs with no matching track are absent from the returned map.
func (r *TrackRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Track, error) {
	tracks := make(map[uuid.UUID]*models.Track, len(ids))
	if len(ids) == 0 {
		return tracks, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	var rows []*models.Track
	result := r.db.WithContext(ctx).Where("id IN ?", idStrings).Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get tracks by ids: %w", MapGormError(result.Error))
	}

	for _, t := range rows {
		tracks[t.ID] = t
	}
	return tracks, nil
}

// ExistsByIDs checks which track IDs exist in the database
func (r *TrackRepository) ExistsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	return existsByIDs[models.Track](ctx, r.db, ids, "failed to check track existence")
}

// AlbumIDsByTrack resolves track IDs to their containing album IDs.
// Tracks without an album are absent from the returned map.
func (r *TrackRepository) AlbumIDsByTrack(ctx context.Context, trackIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	albums := make(map[uuid.UUID]uuid.UUID, len(trackIDs))
	if len(trackIDs) == 0 {
		return albums, nil
	}

	idStrings := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		idStrings[i] = id.String()
	}

	var rows []struct {
		ID      uuid.UUID  `gorm:"column:id"`
		AlbumID *uuid.UUID `gorm:"column:album_id"`
	}
	result := r.db.WithContext(ctx).Model(&models.Track{}).
		Select("id", "album_id").
		Where("id IN ?", idStrings).
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to resolve track albums: %w", MapGormError(result.Error))
	}

	for _, row := range rows {
		if row.AlbumID != nil {
			albums[row.ID] = *row.AlbumID
		}
	}
	return albums, nil
}

// AlbumRepository handles database operations for catalog albums
type AlbumRepository struct {
	db *DB
}

// NewAlbumRepository creates a new album repository
func NewAlbumRepository(db *DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

// Create inserts a new album into the database
func (r *AlbumRepository) Create(ctx context.Context, album *models.Album) error {
	result := r.db.WithContext(ctx).Create(album)
	if result.Error != nil {
		return fmt.Errorf("failed to create album: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves an album by its UUID
func (r *AlbumRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Album, error) {
	var album models.Album
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&album)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &album, nil
}

// GetByIDs retrieves all albums matching the given IDs, keyed by ID
func (r *AlbumRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Album, error) {
	albums := make(map[uuid.UUID]*models.Album, len(ids))
	if len(ids) == 0 {
		return albums, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	var rows []*models.Album
	result := r.db.WithContext(ctx).Where("id IN ?", idStrings).Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get albums by ids: %w", MapGormError(result.Error))
	}

	for _, a := range rows {
		albums[a.ID] = a
	}
	return albums, nil
}

// ExistsByIDs checks which album IDs exist in the database
func (r *AlbumRepository) ExistsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	return existsByIDs[models.Album](ctx, r.db, ids, "failed to check album existence")
}

// ArtistRepository handles database operations for catalog artists
type ArtistRepository struct {
	db *DB
}

// NewArtistRepository creates a new artist repository
func NewArtistRepository(db *DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// Create inserts a new artist into the database
func (r *ArtistRepository) Create(ctx context.Context, artist *models.Artist) error {
	result := r.db.WithContext(ctx).Create(artist)
	if result.Error != nil {
		return fmt.Errorf("failed to create artist: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves an artist by its UUID
func (r *ArtistRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Artist, error) {
	var artist models.Artist
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&artist)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &artist, nil
}

// ExistsByIDs checks which artist IDs exist in the database
func (r *ArtistRepository) ExistsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	return existsByIDs[models.Artist](ctx, r.db, ids, "failed to check artist existence")
}

// IncrementFollowers adjusts an artist's denormalized follower counter by delta
func (r *ArtistRepository) IncrementFollowers(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int64) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	result := tx.Model(&models.Artist{}).
		Where("id = ?", id.String()).
		Update("followers", gorm.Expr("followers + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to update artist followers: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
