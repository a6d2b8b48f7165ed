// Package playlist implements playlists and their ordered track sequences:
// creation and detail edits, the access-control gate, and the positional
// insert/delete/reorder engine over the persisted sequence.
package playlist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/db"
	"github.com/soundhaven/soundhaven/internal/logger"
	"github.com/soundhaven/soundhaven/internal/models"
)

// Default page size for playlist track pagination
const DefaultTrackPageLimit = 100

// Service handles business logic for playlist operations
type Service struct {
	repos *db.Repositories
}

// NewService creates a new playlist service instance
func NewService(repos *db.Repositories) *Service {
	return &Service{repos: repos}
}

// TrackPage is one page of a playlist's track sequence
type TrackPage struct {
	Items  []*models.PlaylistTrack
	Total  int64
	Limit  int
	Offset int
}

// Create creates a new playlist owned by ownerID. A playlist may not be
// created both collaborative and public.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, name string, description *string, public, collaborative bool) (*models.Playlist, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", ErrInvalidInput)
	}
	if collaborative && public {
		return nil, fmt.Errorf("%w: a collaborative playlist cannot be public", ErrInvalidInput)
	}

	p := models.NewPlaylist(ownerID, name)
	p.Description = description
	p.Public = public
	p.Collaborative = collaborative

	if err := s.repos.Playlists.Create(ctx, p); err != nil {
		logger.Log.Error().
			Err(err).
			Str("owner_id", ownerID.String()).
			Msg("Failed to create playlist")
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	logger.Log.Info().
		Str("playlist_id", p.ID.String()).
		Str("owner_id", ownerID.String()).
		Msg("Playlist created")

	return p, nil
}

// Get retrieves a playlist, applying the read gate for the caller
func (s *Service) Get(ctx context.Context, playlistID, callerID uuid.UUID) (*models.Playlist, error) {
	return s.load(ctx, playlistID, callerID, IntentRead)
}

// UpdateDetails updates a playlist's name, description and flags (owner only).
// Turning collaboration off clears the collaborator set.
func (s *Service) UpdateDetails(ctx context.Context, playlistID, callerID uuid.UUID, name *string, description *string, public, collaborative *bool) (*models.Playlist, error) {
	p, err := s.load(ctx, playlistID, callerID, IntentWrite)
	if err != nil {
		return nil, err
	}

	if name != nil {
		if *name == "" {
			return nil, fmt.Errorf("%w: playlist name is required", ErrInvalidInput)
		}
		p.Name = *name
	}
	if description != nil {
		p.Description = description
	}
	if public != nil {
		p.Public = *public
	}
	if collaborative != nil {
		p.Collaborative = *collaborative
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.repos.Playlists.Update(ctx, p); err != nil {
		logger.Log.Error().
			Err(err).
			Str("playlist_id", playlistID.String()).
			Msg("Failed to update playlist")
		return nil, fmt.Errorf("failed to update playlist: %w", err)
	}

	if !p.Collaborative {
		for _, collaboratorID := range p.Collaborators {
			if err := s.repos.Playlists.RemoveCollaborator(ctx, playlistID, collaboratorID); err != nil && !db.IsNotFound(err) {
				logger.Log.Warn().
					Err(err).
					Str("playlist_id", playlistID.String()).
					Msg("Failed to clear collaborator after disabling collaboration")
			}
		}
		p.Collaborators = nil
	}

	return p, nil
}

// Delete destroys a playlist (owner only)
func (s *Service) Delete(ctx context.Context, playlistID, callerID uuid.UUID) error {
	if _, err := s.load(ctx, playlistID, callerID, IntentWrite); err != nil {
		return err
	}

	if err := s.repos.Playlists.Delete(ctx, playlistID); err != nil {
		logger.Log.Error().
			Err(err).
			Str("playlist_id", playlistID.String()).
			Msg("Failed to delete playlist")
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	logger.Log.Info().
		Str("playlist_id", playlistID.String()).
		Msg("Playlist deleted")

	return nil
}

// ListByOwner retrieves the caller's own playlists
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Playlist, error) {
	playlists, err := s.repos.Playlists.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	return playlists, nil
}

// AddCollaborator grants a user track-insertion rights on a collaborative
// playlist (owner only)
func (s *Service) AddCollaborator(ctx context.Context, playlistID, callerID, userID uuid.UUID) error {
	p, err := s.load(ctx, playlistID, callerID, IntentWrite)
	if err != nil {
		return err
	}
	if !p.Collaborative {
		return fmt.Errorf("%w: playlist is not collaborative", ErrInvalidInput)
	}
	if p.IsCollaborator(userID) {
		return nil
	}

	if err := s.repos.Playlists.AddCollaborator(ctx, playlistID, userID); err != nil {
		return fmt.Errorf("failed to add collaborator: %w", err)
	}
	return nil
}

// RemoveCollaborator revokes a user's collaborator membership (owner only)
func (s *Service) RemoveCollaborator(ctx context.Context, playlistID, callerID, userID uuid.UUID) error {
	if _, err := s.load(ctx, playlistID, callerID, IntentWrite); err != nil {
		return err
	}

	if err := s.repos.Playlists.RemoveCollaborator(ctx, playlistID, userID); err != nil {
		if db.IsNotFound(err) {
			return fmt.Errorf("%w: user is not a collaborator", ErrInvalidInput)
		}
		return fmt.Errorf("failed to remove collaborator: %w", err)
	}
	return nil
}

// GetTracks retrieves one page of a playlist's track sequence with track
// details joined in. An offset past the end yields an empty page, not an
// error.
func (s *Service) GetTracks(ctx context.Context, playlistID, callerID uuid.UUID, limit, offset int) (*TrackPage, error) {
	if _, err := s.load(ctx, playlistID, callerID, IntentRead); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultTrackPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.repos.Playlists.GetTracks(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist tracks: %w", err)
	}

	total := int64(len(entries))
	page := []*models.PlaylistTrack{}
	if offset < len(entries) {
		end := offset + limit
		if end > len(entries) {
			end = len(entries)
		}
		page = entries[offset:end]
	}

	if err := s.attachTracks(ctx, page); err != nil {
		return nil, err
	}

	return &TrackPage{
		Items:  page,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// InsertTracks splices new entries into the playlist's sequence. A nil
// position appends; a position at or beyond the end behaves as append. The
// resulting sequence may not exceed MaxTracks entries.
func (s *Service) InsertTracks(ctx context.Context, playlistID, callerID uuid.UUID, trackIDs []uuid.UUID, position *int) ([]*models.PlaylistTrack, error) {
	if len(trackIDs) == 0 {
		return nil, fmt.Errorf("%w: no track ids given", ErrInvalidInput)
	}
	if position != nil && *position < 0 {
		return nil, fmt.Errorf("%w: position must be non-negative", ErrInvalidInput)
	}

	p, err := s.load(ctx, playlistID, callerID, IntentInsert)
	if err != nil {
		return nil, err
	}

	existsMap, err := s.repos.Tracks.ExistsByIDs(ctx, trackIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tracks: %w", err)
	}
	for _, id := range trackIDs {
		if !existsMap[id] {
			return nil, fmt.Errorf("failed to insert tracks: %s: %w", id, ErrTrackNotFound)
		}
	}

	entries, err := s.repos.Playlists.GetTracks(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tracks: %w", err)
	}

	if len(entries)+len(trackIDs) > MaxTracks {
		logger.Log.Warn().
			Str("playlist_id", playlistID.String()).
			Int("current", len(entries)).
			Int("adding", len(trackIDs)).
			Msg("Insert rejected: playlist size limit")
		return nil, fmt.Errorf("failed to insert tracks: %w", ErrSizeExceeded)
	}

	newEntries := make([]*models.PlaylistTrack, len(trackIDs))
	for i, trackID := range trackIDs {
		newEntries[i] = models.NewPlaylistTrack(playlistID, trackID, callerID, 0)
	}

	result := spliceInsert(entries, newEntries, position)

	if err := s.writeSequence(ctx, p, result); err != nil {
		return nil, fmt.Errorf("failed to insert tracks: %w", err)
	}

	logger.Log.Info().
		Str("playlist_id", playlistID.String()).
		Int("added", len(newEntries)).
		Int("length", len(result)).
		Msg("Tracks inserted into playlist")

	return newEntries, nil
}

// DeleteTracks removes entries from the playlist's sequence by track id or by
// named positions. Validation runs against the in-memory sequence before
// anything is written, so a failed request leaves the stored sequence
// unchanged.
func (s *Service) DeleteTracks(ctx context.Context, playlistID, callerID uuid.UUID, reqs []DeleteRequest) error {
	p, err := s.load(ctx, playlistID, callerID, IntentWrite)
	if err != nil {
		return err
	}

	entries, err := s.repos.Playlists.GetTracks(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("failed to delete tracks: %w", err)
	}

	result, err := applyDeletes(entries, reqs)
	if err != nil {
		return fmt.Errorf("failed to delete tracks: %w", err)
	}

	if err := s.writeSequence(ctx, p, result); err != nil {
		return fmt.Errorf("failed to delete tracks: %w", err)
	}

	logger.Log.Info().
		Str("playlist_id", playlistID.String()).
		Int("removed", len(entries)-len(result)).
		Int("length", len(result)).
		Msg("Tracks deleted from playlist")

	return nil
}

// ReorderTracks moves a contiguous block of rangeLength entries starting at
// rangeStart to just before insertBefore in the remaining sequence
func (s *Service) ReorderTracks(ctx context.Context, playlistID, callerID uuid.UUID, rangeStart, rangeLength, insertBefore int) error {
	p, err := s.load(ctx, playlistID, callerID, IntentWrite)
	if err != nil {
		return err
	}

	entries, err := s.repos.Playlists.GetTracks(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("failed to reorder tracks: %w", err)
	}

	result, err := applyReorder(entries, rangeStart, rangeLength, insertBefore)
	if err != nil {
		return fmt.Errorf("failed to reorder tracks: %w", err)
	}
	if rangeLength == 0 {
		return nil
	}

	if err := s.writeSequence(ctx, p, result); err != nil {
		return fmt.Errorf("failed to reorder tracks: %w", err)
	}

	logger.Log.Info().
		Str("playlist_id", playlistID.String()).
		Int("range_start", rangeStart).
		Int("range_length", rangeLength).
		Int("insert_before", insertBefore).
		Msg("Playlist reordered")

	return nil
}

// load fetches a playlist and applies the access gate for the caller
func (s *Service) load(ctx context.Context, playlistID, callerID uuid.UUID, intent Intent) (*models.Playlist, error) {
	p, err := s.repos.Playlists.GetByID(ctx, playlistID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrPlaylistNotFound
		}
		logger.Log.Error().
			Err(err).
			Str("playlist_id", playlistID.String()).
			Msg("Failed to load playlist")
		return nil, fmt.Errorf("failed to load playlist: %w", err)
	}

	if err := authorize(p, callerID, intent); err != nil {
		logger.Log.Debug().
			Str("playlist_id", playlistID.String()).
			Str("caller_id", callerID.String()).
			Int("intent", int(intent)).
			Msg("Playlist access denied")
		return nil, err
	}
	return p, nil
}

// writeSequence writes the full new sequence back, translating a revision
// conflict into ErrConflict
func (s *Service) writeSequence(ctx context.Context, p *models.Playlist, entries []*models.PlaylistTrack) error {
	err := s.repos.Playlists.ReplaceTracks(ctx, p.ID, p.Revision, entries)
	if err != nil {
		if db.IsRevisionConflict(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// attachTracks populates the Track field of each entry via a batched lookup
func (s *Service) attachTracks(ctx context.Context, entries []*models.PlaylistTrack) error {
	if len(entries) == 0 {
		return nil
	}
	trackIDs := make([]uuid.UUID, len(entries))
	for i, entry := range entries {
		trackIDs[i] = entry.TrackID
	}
	tracks, err := s.repos.Tracks.GetByIDs(ctx, trackIDs)
	if err != nil {
		return fmt.Errorf("failed to load tracks for playlist page: %w", err)
	}
	for _, entry := range entries {
		entry.Track = tracks[entry.TrackID]
	}
	return nil
}
