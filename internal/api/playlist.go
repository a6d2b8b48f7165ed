package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/logger"
	"github.com/soundhaven/soundhaven/internal/models"
	"github.com/soundhaven/soundhaven/internal/playlist"
	"github.com/soundhaven/soundhaven/internal/social"
)

// Request/Response DTOs

// CreatePlaylistRequest represents a request to create a new playlist
type CreatePlaylistRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   *string `json:"description,omitempty"`
	Public        bool    `json:"public"`
	Collaborative bool    `json:"collaborative"`
}

// UpdatePlaylistRequest represents a request to update playlist details (partial update)
type UpdatePlaylistRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	Public        *bool   `json:"public,omitempty"`
	Collaborative *bool   `json:"collaborative,omitempty"`
}

// InsertTracksRequest represents a request to splice tracks into a playlist
type InsertTracksRequest struct {
	IDs      []string `json:"ids" binding:"required,min=1"`
	Position *int     `json:"position,omitempty"`
}

// DeleteTrackItem names one track to remove, optionally pinned to positions
type DeleteTrackItem struct {
	ID        string `json:"id"`
	Positions []int  `json:"positions,omitempty"`
}

// DeleteTracksRequest represents a request to remove tracks from a playlist
type DeleteTracksRequest struct {
	Tracks []DeleteTrackItem `json:"tracks"`
}

// ReorderTracksRequest represents a request to move a block of playlist entries
type ReorderTracksRequest struct {
	RangeStart   int  `json:"range_start"`
	RangeLength  *int `json:"range_length,omitempty"`
	InsertBefore int  `json:"insert_before"`
}

// FollowPlaylistRequest represents a request to follow a playlist
type FollowPlaylistRequest struct {
	Public *bool `json:"public,omitempty"`
}

// PlaylistResponse represents a playlist in API responses
type PlaylistResponse struct {
	ID            string             `json:"id"`
	OwnerID       string             `json:"owner_id"`
	Name          string             `json:"name"`
	Description   *string            `json:"description,omitempty"`
	Public        bool               `json:"public"`
	Collaborative bool               `json:"collaborative"`
	FollowerCount int64              `json:"follower_count"`
	Collaborators []string           `json:"collaborators,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Tracks        *TrackPageResponse `json:"tracks,omitempty"`
}

// PlaylistListResponse represents a list of playlists
type PlaylistListResponse struct {
	Playlists []*PlaylistResponse `json:"playlists"`
}

// TrackPageResponse represents one page of a playlist's track sequence
type TrackPageResponse struct {
	Items    []*models.PlaylistTrack `json:"items"`
	Total    int64                   `json:"total"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
	Next     *int                    `json:"next"`
	Previous *int                    `json:"previous"`
}

// PlaylistHandler handles playlist-related API requests
type PlaylistHandler struct {
	playlistService *playlist.Service
	socialService   *social.Service
}

// NewPlaylistHandler creates a new playlist handler instance
func NewPlaylistHandler(playlistService *playlist.Service, socialService *social.Service) *PlaylistHandler {
	return &PlaylistHandler{
		playlistService: playlistService,
		socialService:   socialService,
	}
}

// toPlaylistResponse converts a playlist model to API response format
func toPlaylistResponse(p *models.Playlist) *PlaylistResponse {
	resp := &PlaylistResponse{
		ID:            p.ID.String(),
		OwnerID:       p.OwnerID.String(),
		Name:          p.Name,
		Description:   p.Description,
		Public:        p.Public,
		Collaborative: p.Collaborative,
		FollowerCount: p.FollowerCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	for _, id := range p.Collaborators {
		resp.Collaborators = append(resp.Collaborators, id.String())
	}
	return resp
}

// toTrackPageResponse converts a service track page to API response format
// with next/previous offsets
func toTrackPageResponse(page *playlist.TrackPage) *TrackPageResponse {
	resp := &TrackPageResponse{
		Items:  page.Items,
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if int64(page.Offset+page.Limit) <= page.Total {
		next := page.Offset + page.Limit
		resp.Next = &next
	}
	if page.Offset-page.Limit >= 0 {
		previous := page.Offset - page.Limit
		resp.Previous = &previous
	}
	return resp
}

// respondPlaylistError maps playlist service errors to HTTP responses
func respondPlaylistError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, playlist.ErrPlaylistNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Playlist not found",
		})
	case errors.Is(err, playlist.ErrTrackNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "track_not_found",
			Message: "One or more tracks do not exist",
		})
	case errors.Is(err, playlist.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "You do not have access to this playlist",
		})
	case errors.Is(err, playlist.ErrSizeExceeded):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "size_exceeded",
			Message: "Playlist track limit reached",
		})
	case errors.Is(err, playlist.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: "Playlist was modified concurrently, retry the request",
		})
	case errors.Is(err, playlist.ErrInvalidInput),
		errors.Is(err, playlist.ErrInvalidPosition),
		errors.Is(err, playlist.ErrInvalidRange),
		errors.Is(err, playlist.ErrEmptyPlaylist):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Playlist operation failed",
		})
	}
}

// CreatePlaylist handles POST /api/playlists
func (h *PlaylistHandler) CreatePlaylist(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	var req CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.playlistService.Create(ctx, caller, req.Name, req.Description, req.Public, req.Collaborative)
	if err != nil {
		respondPlaylistError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toPlaylistResponse(p))
}

// GetPlaylist handles GET /api/playlists/:id, embedding the first tracks page
func (h *PlaylistHandler) GetPlaylist(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.playlistService.Get(ctx, id, caller)
	if err != nil {
		respondPlaylistError(c, err)
		return
	}

	page, err := h.playlistService.GetTracks(ctx, id, caller, 0, 0)
	if err != nil {
		respondPlaylistError(c, err)
		return
	}

	resp := toPlaylistResponse(p)
	resp.Tracks = toTrackPageResponse(page)
	c.JSON(http.StatusOK, resp)
}

// ListMyPlaylists handles GET /api/me/playlists
func (h *PlaylistHandler) ListMyPlaylists(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	playlists, err := h.playlistService.ListByOwner(ctx, caller)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list playlists")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve playlists",
		})
		return
	}

	responses := make([]*PlaylistResponse, len(playlists))
	for i, p := range playlists {
		responses[i] = toPlaylistResponse(p)
	}
	c.JSON(http.StatusOK, PlaylistListResponse{Playlists: responses})
}

// UpdatePlaylist handles PUT /api/playlists/:id
func (h *PlaylistHandler) UpdatePlaylist(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.playlistService.UpdateDetails(ctx, id, caller, req.Name, req.Description, req.Public, req.Collaborative)
	if err != nil {
		respondPlaylistError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPlaylistResponse(p))
}

// DeletePlaylist handles DELETE /api/playlists/:id
func (h *PlaylistHandler) DeletePlaylist(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.playlistService.Delete(ctx, id, caller); err != nil {
		respondPlaylistError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Playlist deleted"})
}

// GetTracks handles GET /api/playlists/:id/tracks
func (h *PlaylistHandler) GetTracks(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, err := h.playlistService.GetTracks(ctx, id, caller, limit, offset)
	if err != nil {
		respondPlaylistError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTrackPageResponse(page))
}

// InsertTracks handles POST /api/playlists/:id/tracks
func (h *PlaylistHandler) InsertTracks(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req InsertTracksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	trackIDs, ok := parseUUIDs(c, req.IDs)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.playlistService.InsertTracks(ctx, id, caller, trackIDs, req.Position)
	if err != nil {
		respondPlaylistError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"items": entries})
}

// DeleteTracks handles DELETE /api/playlists/:id/tracks. The body is decoded
// strictly: unrecognized keys are rejected rather than ignored, so typoed
// removal requests fail instead of deleting the wrong entries.
func (h *PlaylistHandler) DeleteTracks(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req DeleteTracksRequest
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	reqs := make([]playlist.DeleteRequest, len(req.Tracks))
	for i, item := range req.Tracks {
		trackID, err := uuid.Parse(item.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_id",
				Message: "Invalid track id: " + item.ID,
			})
			return
		}
		reqs[i] = playlist.DeleteRequest{TrackID: trackID, Positions: item.Positions}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.playlistService.DeleteTracks(ctx, id, caller, reqs); err != nil {
		respondPlaylistError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Tracks removed"})
}

// ReorderTracks handles PUT /api/playlists/:id/tracks/reorder
func (h *PlaylistHandler) ReorderTracks(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReorderTracksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	// Omitted range_length moves a single entry
	rangeLength := 1
	if req.RangeLength != nil {
		rangeLength = *req.RangeLength
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.playlistService.ReorderTracks(ctx, id, caller, req.RangeStart, rangeLength, req.InsertBefore); err != nil {
		respondPlaylistError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Playlist reordered"})
}

// AddCollaborator handles PUT /api/playlists/:id/collaborators/:user_id
func (h *PlaylistHandler) AddCollaborator(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.playlistService.AddCollaborator(ctx, id, caller, userID); err != nil {
		respondPlaylistError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Collaborator added"})
}

// RemoveCollaborator handles DELETE /api/playlists/:id/collaborators/:user_id
func (h *PlaylistHandler) RemoveCollaborator(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.playlistService.RemoveCollaborator(ctx, id, caller, userID); err != nil {
		respondPlaylistError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Collaborator removed"})
}

// FollowPlaylist handles PUT /api/playlists/:id/followers
func (h *PlaylistHandler) FollowPlaylist(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req FollowPlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	// Followed playlists show up on the follower's profile unless hidden
	public := true
	if req.Public != nil {
		public = *req.Public
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.socialService.FollowPlaylist(ctx, caller, id, public); err != nil {
		respondSocialError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Playlist followed"})
}

// UnfollowPlaylist handles DELETE /api/playlists/:id/followers
func (h *PlaylistHandler) UnfollowPlaylist(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.socialService.UnfollowPlaylist(ctx, caller, id); err != nil {
		respondSocialError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Playlist unfollowed"})
}

// SetupPlaylistRoutes registers playlist routes
func SetupPlaylistRoutes(apiGroup *gin.RouterGroup, playlistService *playlist.Service, socialService *social.Service) {
	handler := NewPlaylistHandler(playlistService, socialService)

	// Playlist CRUD endpoints
	apiGroup.POST("/playlists", handler.CreatePlaylist)
	apiGroup.GET("/playlists/:id", handler.GetPlaylist)
	apiGroup.PUT("/playlists/:id", handler.UpdatePlaylist)
	apiGroup.DELETE("/playlists/:id", handler.DeletePlaylist)
	apiGroup.GET("/me/playlists", handler.ListMyPlaylists)

	// Track sequence endpoints
	apiGroup.GET("/playlists/:id/tracks", handler.GetTracks)
	apiGroup.POST("/playlists/:id/tracks", handler.InsertTracks)
	apiGroup.DELETE("/playlists/:id/tracks", handler.DeleteTracks)
	apiGroup.PUT("/playlists/:id/tracks/reorder", handler.ReorderTracks)

	// Collaborator endpoints
	apiGroup.PUT("/playlists/:id/collaborators/:user_id", handler.AddCollaborator)
	apiGroup.DELETE("/playlists/:id/collaborators/:user_id", handler.RemoveCollaborator)

	// Follower endpoints
	apiGroup.PUT("/playlists/:id/followers", handler.FollowPlaylist)
	apiGroup.DELETE("/playlists/:id/followers", handler.UnfollowPlaylist)
}
