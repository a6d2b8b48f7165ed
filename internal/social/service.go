// Package social implements the follow graph: user-to-user and
// user-to-artist follow edges, playlist follows, and their denormalized
// follower counters. Edge writes and counter updates happen in one
// transaction so the counters cannot drift from the edge count.
package social

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/db"
	"github.com/soundhaven/soundhaven/internal/logger"
	"github.com/soundhaven/soundhaven/internal/models"
	"gorm.io/gorm"
)

// Service handles business logic for follow operations
type Service struct {
	database *db.DB
	repos    *db.Repositories
}

// NewService creates a new social service instance
func NewService(database *db.DB, repos *db.Repositories) *Service {
	return &Service{
		database: database,
		repos:    repos,
	}
}

// Follow adds follow edges from userID to the given targets. Targets already
// followed are skipped; if typeFilter is non-empty, targets whose entity type
// does not match are skipped as well. Each new edge increments the target's
// follower counter inside the same transaction. Returns the target ids
// actually followed.
func (s *Service) Follow(ctx context.Context, userID uuid.UUID, targetIDs []uuid.UUID, typeFilter string) ([]uuid.UUID, error) {
	targets, err := s.classify(ctx, userID, targetIDs, typeFilter)
	if err != nil {
		return nil, err
	}

	existing, err := s.repos.Follows.Following(ctx, userID, targetIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to follow: %w", err)
	}

	var followed []uuid.UUID
	err = s.database.WithTransaction(ctx, func(tx *gorm.DB) error {
		for targetID, targetType := range targets {
			if existing[targetID] != nil {
				continue
			}
			if err := s.repos.Follows.Create(ctx, tx, models.NewFollow(userID, targetID, targetType)); err != nil {
				return err
			}
			if err := s.incrementFollowers(ctx, tx, targetID, targetType, 1); err != nil {
				return err
			}
			followed = append(followed, targetID)
		}
		return nil
	})
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to create follow edges")
		return nil, fmt.Errorf("failed to follow: %w", err)
	}

	logger.Log.Info().
		Str("user_id", userID.String()).
		Int("followed", len(followed)).
		Int("requested", len(targetIDs)).
		Msg("Follow edges created")

	return followed, nil
}

// Unfollow removes follow edges from userID to the given targets. Targets
// not currently followed are skipped. Each removed edge decrements the
// target's follower counter inside the same transaction. Returns the target
// ids actually unfollowed.
func (s *Service) Unfollow(ctx context.Context, userID uuid.UUID, targetIDs []uuid.UUID, typeFilter string) ([]uuid.UUID, error) {
	if len(targetIDs) == 0 {
		return nil, fmt.Errorf("%w: no target ids given", ErrInvalidInput)
	}

	existing, err := s.repos.Follows.Following(ctx, userID, targetIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to unfollow: %w", err)
	}

	var unfollowed []uuid.UUID
	err = s.database.WithTransaction(ctx, func(tx *gorm.DB) error {
		for _, targetID := range targetIDs {
			edge := existing[targetID]
			if edge == nil {
				continue
			}
			if typeFilter != "" && edge.TargetType != typeFilter {
				continue
			}
			removed, err := s.repos.Follows.Delete(ctx, tx, userID, targetID)
			if err != nil {
				return err
			}
			if removed == 0 {
				continue
			}
			if err := s.incrementFollowers(ctx, tx, targetID, edge.TargetType, -1); err != nil {
				return err
			}
			unfollowed = append(unfollowed, targetID)
		}
		return nil
	})
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to remove follow edges")
		return nil, fmt.Errorf("failed to unfollow: %w", err)
	}

	logger.Log.Info().
		Str("user_id", userID.String()).
		Int("unfollowed", len(unfollowed)).
		Int("requested", len(targetIDs)).
		Msg("Follow edges removed")

	return unfollowed, nil
}

// ListFollowing returns all follow edges from the given user
func (s *Service) ListFollowing(ctx context.Context, userID uuid.UUID) ([]*models.Follow, error) {
	edges, err := s.repos.Follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return edges, nil
}

// FollowPlaylist records userID following the playlist. The follower-count
// increment and the entry insert are one transaction; following a playlist
// twice is a conflict.
func (s *Service) FollowPlaylist(ctx context.Context, userID, playlistID uuid.UUID, public bool) error {
	if _, err := s.repos.Playlists.GetByID(ctx, playlistID); err != nil {
		if db.IsNotFound(err) {
			return ErrPlaylistNotFound
		}
		return fmt.Errorf("failed to follow playlist: %w", err)
	}

	if _, err := s.repos.FollowedPlaylists.Get(ctx, userID, playlistID); err == nil {
		return ErrAlreadyFollowing
	} else if !db.IsNotFound(err) {
		return fmt.Errorf("failed to follow playlist: %w", err)
	}

	err := s.database.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.repos.Playlists.IncrementFollowerCount(ctx, tx, playlistID, 1); err != nil {
			return err
		}
		return s.repos.FollowedPlaylists.Create(ctx, tx, models.NewFollowedPlaylist(userID, playlistID, public))
	})
	if err != nil {
		if db.IsDuplicate(err) {
			return ErrAlreadyFollowing
		}
		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("playlist_id", playlistID.String()).
			Msg("Failed to follow playlist")
		return fmt.Errorf("failed to follow playlist: %w", err)
	}

	logger.Log.Info().
		Str("user_id", userID.String()).
		Str("playlist_id", playlistID.String()).
		Msg("Playlist followed")

	return nil
}

// UnfollowPlaylist removes userID's follow of the playlist. The
// follower-count decrement and the entry removal are one transaction;
// unfollowing a playlist that is not followed is a conflict.
func (s *Service) UnfollowPlaylist(ctx context.Context, userID, playlistID uuid.UUID) error {
	if _, err := s.repos.FollowedPlaylists.Get(ctx, userID, playlistID); err != nil {
		if db.IsNotFound(err) {
			return ErrNotFollowing
		}
		return fmt.Errorf("failed to unfollow playlist: %w", err)
	}

	err := s.database.WithTransaction(ctx, func(tx *gorm.DB) error {
		removed, err := s.repos.FollowedPlaylists.Delete(ctx, tx, userID, playlistID)
		if err != nil {
			return err
		}
		if removed == 0 {
			return ErrNotFollowing
		}
		return s.repos.Playlists.IncrementFollowerCount(ctx, tx, playlistID, -1)
	})
	if err != nil {
		if IsNotFollowing(err) {
			return ErrNotFollowing
		}
		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("playlist_id", playlistID.String()).
			Msg("Failed to unfollow playlist")
		return fmt.Errorf("failed to unfollow playlist: %w", err)
	}

	logger.Log.Info().
		Str("user_id", userID.String()).
		Str("playlist_id", playlistID.String()).
		Msg("Playlist unfollowed")

	return nil
}

// ListFollowedPlaylists returns the playlists the user follows
func (s *Service) ListFollowedPlaylists(ctx context.Context, userID uuid.UUID) ([]*models.FollowedPlaylist, error) {
	entries, err := s.repos.FollowedPlaylists.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followed playlists: %w", err)
	}
	return entries, nil
}

// classify resolves each target id to its entity type (user or artist),
// dropping ids that resolve to neither and, when typeFilter is set, ids of
// the other type. Self-follows are dropped as well.
func (s *Service) classify(ctx context.Context, userID uuid.UUID, targetIDs []uuid.UUID, typeFilter string) (map[uuid.UUID]string, error) {
	if len(targetIDs) == 0 {
		return nil, fmt.Errorf("%w: no target ids given", ErrInvalidInput)
	}
	if typeFilter != "" && typeFilter != models.FollowTargetUser && typeFilter != models.FollowTargetArtist {
		return nil, fmt.Errorf("%w: type must be user or artist", ErrInvalidInput)
	}

	users, err := s.repos.Users.ExistsByIDs(ctx, targetIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve follow targets: %w", err)
	}
	artists, err := s.repos.Artists.ExistsByIDs(ctx, targetIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve follow targets: %w", err)
	}

	targets := make(map[uuid.UUID]string, len(targetIDs))
	for _, id := range targetIDs {
		if id == userID {
			continue
		}
		var targetType string
		switch {
		case users[id]:
			targetType = models.FollowTargetUser
		case artists[id]:
			targetType = models.FollowTargetArtist
		default:
			continue
		}
		if typeFilter != "" && targetType != typeFilter {
			continue
		}
		targets[id] = targetType
	}
	return targets, nil
}

// incrementFollowers routes the counter update to the target's entity table
func (s *Service) incrementFollowers(ctx context.Context, tx *gorm.DB, targetID uuid.UUID, targetType string, delta int64) error {
	if targetType == models.FollowTargetArtist {
		return s.repos.Artists.IncrementFollowers(ctx, tx, targetID, delta)
	}
	return s.repos.Users.IncrementFollowers(ctx, tx, targetID, delta)
}
