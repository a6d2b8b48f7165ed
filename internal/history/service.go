// Package history records track-play events and serves the recently-played
// feed. The log is append-only and doubles as the listen-event source for
// aggregation.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/db"
	"github.com/soundhaven/soundhaven/internal/logger"
	"github.com/soundhaven/soundhaven/internal/models"
)

// DefaultPageLimit is the recently-played page size when the caller does not give one
const DefaultPageLimit = 20

// ErrTrackNotFound indicates the played track does not exist
var ErrTrackNotFound = errors.New("track not found")

// Service handles play-history recording and retrieval
type Service struct {
	repos *db.Repositories
}

// NewService creates a new history service instance
func NewService(repos *db.Repositories) *Service {
	return &Service{repos: repos}
}

// Record appends a play event for the given user and track
func (s *Service) Record(ctx context.Context, userID, trackID uuid.UUID, playContext *string) (*models.PlayHistory, error) {
	if _, err := s.repos.Tracks.GetByID(ctx, trackID); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("failed to record play: %w", err)
	}

	record := models.NewPlayHistory(userID, trackID, playContext)
	if err := s.repos.PlayHistory.Create(ctx, record); err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("track_id", trackID.String()).
			Msg("Failed to record play")
		return nil, fmt.Errorf("failed to record play: %w", err)
	}

	logger.Log.Debug().
		Str("user_id", userID.String()).
		Str("track_id", trackID.String()).
		Msg("Play recorded")

	return record, nil
}

// RecentlyPlayed returns the user's newest play records, optionally only
// those strictly before the given instant, with track details joined in
func (s *Service) RecentlyPlayed(ctx context.Context, userID uuid.UUID, limit int, before *time.Time) ([]*models.PlayHistory, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	records, err := s.repos.PlayHistory.ListByUser(ctx, userID, limit, before)
	if err != nil {
		return nil, fmt.Errorf("failed to get recently played: %w", err)
	}

	if len(records) > 0 {
		trackIDs := make([]uuid.UUID, len(records))
		for i, record := range records {
			trackIDs[i] = record.TrackID
		}
		tracks, err := s.repos.Tracks.GetByIDs(ctx, trackIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to get recently played: %w", err)
		}
		for _, record := range records {
			record.Track = tracks[record.TrackID]
		}
	}

	return records, nil
}
