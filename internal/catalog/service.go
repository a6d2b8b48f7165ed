// Package catalog implements read and ingest operations for the track,
// album and artist catalog that playlists, libraries and stats resolve
// references against.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/db"
	"github.com/soundhaven/soundhaven/internal/logger"
	"github.com/soundhaven/soundhaven/internal/models"
)

// Custom catalog service errors
var (
	ErrTrackNotFound  = errors.New("track not found")
	ErrAlbumNotFound  = errors.New("album not found")
	ErrArtistNotFound = errors.New("artist not found")
	ErrInvalidInput   = errors.New("invalid input")
)

// Service handles catalog lookups and ingest
type Service struct {
	repos *db.Repositories
}

// NewService creates a new catalog service instance
func NewService(repos *db.Repositories) *Service {
	return &Service{repos: repos}
}

// CreateArtist adds an artist to the catalog
func (s *Service) CreateArtist(ctx context.Context, name string, genre *string) (*models.Artist, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: artist name is required", ErrInvalidInput)
	}

	artist := models.NewArtist(name)
	artist.Genre = genre
	if err := s.repos.Artists.Create(ctx, artist); err != nil {
		logger.Log.Error().Err(err).Str("name", name).Msg("Failed to create artist")
		return nil, fmt.Errorf("failed to create artist: %w", err)
	}
	return artist, nil
}

// CreateAlbum adds an album to the catalog; its artist must exist
func (s *Service) CreateAlbum(ctx context.Context, title string, artistID uuid.UUID) (*models.Album, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: album title is required", ErrInvalidInput)
	}
	if _, err := s.repos.Artists.GetByID(ctx, artistID); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("failed to create album: %w", err)
	}

	album := models.NewAlbum(title, artistID)
	if err := s.repos.Albums.Create(ctx, album); err != nil {
		logger.Log.Error().Err(err).Str("title", title).Msg("Failed to create album")
		return nil, fmt.Errorf("failed to create album: %w", err)
	}
	return album, nil
}

// CreateTrack adds a track to the catalog; its artist must exist and its
// album, when given, must exist
func (s *Service) CreateTrack(ctx context.Context, title string, artistID uuid.UUID, albumID *uuid.UUID, durationMS int64) (*models.Track, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: track title is required", ErrInvalidInput)
	}
	if durationMS <= 0 {
		return nil, fmt.Errorf("%w: track duration must be positive", ErrInvalidInput)
	}
	if _, err := s.repos.Artists.GetByID(ctx, artistID); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("failed to create track: %w", err)
	}
	if albumID != nil {
		if _, err := s.repos.Albums.GetByID(ctx, *albumID); err != nil {
			if db.IsNotFound(err) {
				return nil, ErrAlbumNotFound
			}
			return nil, fmt.Errorf("failed to create track: %w", err)
		}
	}

	track := models.NewTrack(title, artistID, durationMS)
	track.AlbumID = albumID
	if err := s.repos.Tracks.Create(ctx, track); err != nil {
		logger.Log.Error().Err(err).Str("title", title).Msg("Failed to create track")
		return nil, fmt.Errorf("failed to create track: %w", err)
	}
	return track, nil
}

// GetTrack retrieves a track by id
func (s *Service) GetTrack(ctx context.Context, id uuid.UUID) (*models.Track, error) {
	track, err := s.repos.Tracks.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	return track, nil
}

// GetAlbum retrieves an album by id
func (s *Service) GetAlbum(ctx context.Context, id uuid.UUID) (*models.Album, error) {
	album, err := s.repos.Albums.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrAlbumNotFound
		}
		return nil, fmt.Errorf("failed to get album: %w", err)
	}
	return album, nil
}

// GetArtist retrieves an artist by id
func (s *Service) GetArtist(ctx context.Context, id uuid.UUID) (*models.Artist, error) {
	artist, err := s.repos.Artists.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("failed to get artist: %w", err)
	}
	return artist, nil
}
