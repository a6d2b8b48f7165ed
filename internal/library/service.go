// Package library implements the per-user saved-items store: a deduplicated,
// size-bounded set of track and album references with save/unsave, membership
// checks and pagination.
package library

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/db"
	"github.com/soundhaven/soundhaven/internal/logger"
	"github.com/soundhaven/soundhaven/internal/models"
)

const (
	// MaxItems is the saved-item cap per user per kind
	MaxItems = 10_000

	// DefaultPageLimit is the page size when the caller does not give one
	DefaultPageLimit = 20
)

// Item is one saved library entry, unified across kinds. Exactly one of
// Track or Album is populated, matching the kind it was loaded for.
type Item struct {
	ID      uuid.UUID     `json:"id"`
	UserID  uuid.UUID     `json:"user_id"`
	ItemID  uuid.UUID     `json:"item_id"`
	AddedAt time.Time     `json:"added_at"`
	Track   *models.Track `json:"track,omitempty"`
	Album   *models.Album `json:"album,omitempty"`
}

// Page is one page of a user's library with navigation offsets.
// Next is nil once offset+limit passes the total; Previous is nil when
// offset-limit would be negative.
type Page struct {
	Items    []*Item `json:"items"`
	Total    int64   `json:"total"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Next     *int    `json:"next"`
	Previous *int    `json:"previous"`
}

// Service handles business logic for the saved-items library
type Service struct {
	repos *db.Repositories
}

// NewService creates a new library service instance
func NewService(repos *db.Repositories) *Service {
	return &Service{repos: repos}
}

// Save adds the given items to the user's library. Items that do not resolve
// against the catalog are dropped; items already saved are silently skipped.
// Only the newly created entries are returned, so the result may be shorter
// than the input.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, kind Kind, itemIDs []uuid.UUID) ([]*Item, error) {
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("%w: no item ids given", ErrInvalidInput)
	}

	count, err := s.count(ctx, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to save items: %w", err)
	}
	if count >= MaxItems {
		logger.Log.Warn().
			Str("user_id", userID.String()).
			Str("kind", kind.String()).
			Int64("count", count).
			Msg("Save rejected: library size limit")
		return nil, fmt.Errorf("failed to save items: %w", ErrLimitExceeded)
	}

	resolved, err := s.resolve(ctx, kind, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to save items: %w", err)
	}
	if len(resolved) == 0 {
		return nil, fmt.Errorf("failed to save items: %w", ErrItemNotFound)
	}

	saved, err := s.savedIDs(ctx, userID, kind, resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to save items: %w", err)
	}

	var netNew []uuid.UUID
	for _, id := range resolved {
		if !saved[id] {
			netNew = append(netNew, id)
		}
	}
	if len(netNew) == 0 {
		return []*Item{}, nil
	}

	items, err := s.create(ctx, userID, kind, netNew)
	if err != nil {
		return nil, fmt.Errorf("failed to save items: %w", err)
	}

	logger.Log.Info().
		Str("user_id", userID.String()).
		Str("kind", kind.String()).
		Int("created", len(items)).
		Int("requested", len(itemIDs)).
		Msg("Items saved to library")

	return items, nil
}

// Remove deletes the given items from the user's library. Removing items
// that were never saved is a not-found error only when nothing at all was
// removed.
func (s *Service) Remove(ctx context.Context, userID uuid.UUID, kind Kind, itemIDs []uuid.UUID) error {
	if len(itemIDs) == 0 {
		return fmt.Errorf("%w: no item ids given", ErrInvalidInput)
	}

	var removed int64
	var err error
	switch kind {
	case KindTrack:
		removed, err = s.repos.SavedTracks.DeleteByUser(ctx, userID, itemIDs)
	case KindAlbum:
		removed, err = s.repos.SavedAlbums.DeleteByUser(ctx, userID, itemIDs)
	}
	if err != nil {
		return fmt.Errorf("failed to remove items: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("failed to remove items: %w", ErrItemNotFound)
	}

	logger.Log.Info().
		Str("user_id", userID.String()).
		Str("kind", kind.String()).
		Int64("removed", removed).
		Msg("Items removed from library")

	return nil
}

// Contains reports, per input id and in input order, whether the user has
// that item saved
func (s *Service) Contains(ctx context.Context, userID uuid.UUID, kind Kind, itemIDs []uuid.UUID) ([]bool, error) {
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("%w: no item ids given", ErrInvalidInput)
	}

	saved, err := s.savedIDs(ctx, userID, kind, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check items: %w", err)
	}

	result := make([]bool, len(itemIDs))
	for i, id := range itemIDs {
		result[i] = saved[id]
	}
	return result, nil
}

// List retrieves one page of the user's library in natural store order with
// the referenced tracks or albums joined in
func (s *Service) List(ctx context.Context, userID uuid.UUID, kind Kind, limit, offset int) (*Page, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	total, err := s.count(ctx, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list library: %w", err)
	}

	items, err := s.list(ctx, userID, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list library: %w", err)
	}

	page := &Page{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	if int64(offset+limit) <= total {
		next := offset + limit
		page.Next = &next
	}
	if offset-limit >= 0 {
		previous := offset - limit
		page.Previous = &previous
	}
	return page, nil
}

func (s *Service) count(ctx context.Context, userID uuid.UUID, kind Kind) (int64, error) {
	switch kind {
	case KindAlbum:
		return s.repos.SavedAlbums.CountByUser(ctx, userID)
	default:
		return s.repos.SavedTracks.CountByUser(ctx, userID)
	}
}

// resolve filters itemIDs down to those present in the catalog, preserving order
func (s *Service) resolve(ctx context.Context, kind Kind, itemIDs []uuid.UUID) ([]uuid.UUID, error) {
	var existsMap map[uuid.UUID]bool
	var err error
	switch kind {
	case KindAlbum:
		existsMap, err = s.repos.Albums.ExistsByIDs(ctx, itemIDs)
	default:
		existsMap, err = s.repos.Tracks.ExistsByIDs(ctx, itemIDs)
	}
	if err != nil {
		return nil, err
	}

	var resolved []uuid.UUID
	for _, id := range itemIDs {
		if existsMap[id] {
			resolved = append(resolved, id)
		}
	}
	return resolved, nil
}

func (s *Service) savedIDs(ctx context.Context, userID uuid.UUID, kind Kind, itemIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	switch kind {
	case KindAlbum:
		return s.repos.SavedAlbums.SavedIDs(ctx, userID, itemIDs)
	default:
		return s.repos.SavedTracks.SavedIDs(ctx, userID, itemIDs)
	}
}

func (s *Service) create(ctx context.Context, userID uuid.UUID, kind Kind, itemIDs []uuid.UUID) ([]*Item, error) {
	switch kind {
	case KindAlbum:
		rows := make([]*models.SavedAlbum, len(itemIDs))
		for i, id := range itemIDs {
			rows[i] = models.NewSavedAlbum(userID, id)
		}
		if err := s.repos.SavedAlbums.CreateBatch(ctx, rows); err != nil {
			return nil, err
		}
		items := make([]*Item, len(rows))
		for i, row := range rows {
			items[i] = &Item{ID: row.ID, UserID: row.UserID, ItemID: row.AlbumID, AddedAt: row.AddedAt}
		}
		return items, nil
	default:
		rows := make([]*models.SavedTrack, len(itemIDs))
		for i, id := range itemIDs {
			rows[i] = models.NewSavedTrack(userID, id)
		}
		if err := s.repos.SavedTracks.CreateBatch(ctx, rows); err != nil {
			return nil, err
		}
		items := make([]*Item, len(rows))
		for i, row := range rows {
			items[i] = &Item{ID: row.ID, UserID: row.UserID, ItemID: row.TrackID, AddedAt: row.AddedAt}
		}
		return items, nil
	}
}

// list loads one page of saved rows and joins the referenced catalog entries
func (s *Service) list(ctx context.Context, userID uuid.UUID, kind Kind, limit, offset int) ([]*Item, error) {
	switch kind {
	case KindAlbum:
		rows, err := s.repos.SavedAlbums.ListByUser(ctx, userID, limit, offset)
		if err != nil {
			return nil, err
		}
		albumIDs := make([]uuid.UUID, len(rows))
		for i, row := range rows {
			albumIDs[i] = row.AlbumID
		}
		albums, err := s.repos.Albums.GetByIDs(ctx, albumIDs)
		if err != nil {
			return nil, err
		}
		items := make([]*Item, len(rows))
		for i, row := range rows {
			items[i] = &Item{ID: row.ID, UserID: row.UserID, ItemID: row.AlbumID, AddedAt: row.AddedAt, Album: albums[row.AlbumID]}
		}
		return items, nil
	default:
		rows, err := s.repos.SavedTracks.ListByUser(ctx, userID, limit, offset)
		if err != nil {
			return nil, err
		}
		trackIDs := make([]uuid.UUID, len(rows))
		for i, row := range rows {
			trackIDs[i] = row.TrackID
		}
		tracks, err := s.repos.Tracks.GetByIDs(ctx, trackIDs)
		if err != nil {
			return nil, err
		}
		items := make([]*Item, len(rows))
		for i, row := range rows {
			items[i] = &Item{ID: row.ID, UserID: row.UserID, ItemID: row.TrackID, AddedAt: row.AddedAt, Track: tracks[row.TrackID]}
		}
		return items, nil
	}
}
