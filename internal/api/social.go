package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/models"
	"github.com/soundhaven/soundhaven/internal/social"
)

// FollowResponse lists the target ids a follow or unfollow request touched
type FollowResponse struct {
	IDs []string `json:"ids"`
}

// FollowingResponse lists the caller's follow edges
type FollowingResponse struct {
	Following []*models.Follow `json:"following"`
}

// FollowedPlaylistsResponse lists the playlists the caller follows
type FollowedPlaylistsResponse struct {
	Playlists []*models.FollowedPlaylist `json:"playlists"`
}

// SocialHandler handles follow-graph API requests
type SocialHandler struct {
	socialService *social.Service
}

// NewSocialHandler creates a new social handler instance
func NewSocialHandler(socialService *social.Service) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

// respondSocialError maps social service errors to HTTP responses
func respondSocialError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, social.ErrPlaylistNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Playlist not found",
		})
	case errors.Is(err, social.ErrAlreadyFollowing):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "already_following",
			Message: "Playlist is already followed",
		})
	case errors.Is(err, social.ErrNotFollowing):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "not_following",
			Message: "Playlist is not followed",
		})
	case errors.Is(err, social.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Follow operation failed",
		})
	}
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// Follow handles PUT /api/me/following
func (h *SocialHandler) Follow(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	ids, ok := parseIDsQuery(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	followed, err := h.socialService.Follow(ctx, caller, ids, c.Query("type"))
	if err != nil {
		respondSocialError(c, err)
		return
	}

	c.JSON(http.StatusOK, FollowResponse{IDs: idStrings(followed)})
}

// Unfollow handles DELETE /api/me/following
func (h *SocialHandler) Unfollow(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	ids, ok := parseIDsQuery(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	unfollowed, err := h.socialService.Unfollow(ctx, caller, ids, c.Query("type"))
	if err != nil {
		respondSocialError(c, err)
		return
	}

	c.JSON(http.StatusOK, FollowResponse{IDs: idStrings(unfollowed)})
}

// ListFollowing handles GET /api/me/following
func (h *SocialHandler) ListFollowing(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	edges, err := h.socialService.ListFollowing(ctx, caller)
	if err != nil {
		respondSocialError(c, err)
		return
	}

	c.JSON(http.StatusOK, FollowingResponse{Following: edges})
}

// ListFollowedPlaylists handles GET /api/me/following/playlists
func (h *SocialHandler) ListFollowedPlaylists(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.socialService.ListFollowedPlaylists(ctx, caller)
	if err != nil {
		respondSocialError(c, err)
		return
	}

	c.JSON(http.StatusOK, FollowedPlaylistsResponse{Playlists: entries})
}

// SetupSocialRoutes registers follow-graph routes
func SetupSocialRoutes(apiGroup *gin.RouterGroup, socialService *social.Service) {
	handler := NewSocialHandler(socialService)

	apiGroup.PUT("/me/following", handler.Follow)
	apiGroup.DELETE("/me/following", handler.Unfollow)
	apiGroup.GET("/me/following", handler.ListFollowing)
	apiGroup.GET("/me/following/playlists", handler.ListFollowedPlaylists)
}
