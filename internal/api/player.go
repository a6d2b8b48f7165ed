package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/history"
	"github.com/soundhaven/soundhaven/internal/models"
)

// RecordPlayRequest represents a track-play event report
type RecordPlayRequest struct {
	TrackID string  `json:"track_id" binding:"required"`
	Context *string `json:"context,omitempty"`
}

// RecentlyPlayedResponse carries a page of the caller's play history
type RecentlyPlayedResponse struct {
	Items []*models.PlayHistory `json:"items"`
}

// PlayerHandler handles play-history API requests
type PlayerHandler struct {
	historyService *history.Service
}

// NewPlayerHandler creates a new player handler instance
func NewPlayerHandler(historyService *history.Service) *PlayerHandler {
	return &PlayerHandler{historyService: historyService}
}

// RecordPlay handles POST /api/me/player/plays
func (h *PlayerHandler) RecordPlay(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	var req RecordPlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	trackID, err := uuid.Parse(req.TrackID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid track id: " + req.TrackID,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	record, err := h.historyService.Record(ctx, caller, trackID, req.Context)
	if err != nil {
		if errors.Is(err, history.ErrTrackNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "track_not_found",
				Message: "Track does not exist",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to record play",
		})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// RecentlyPlayed handles GET /api/me/player/recently-played
func (h *PlayerHandler) RecentlyPlayed(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	limit, _, ok := parsePagination(c)
	if !ok {
		return
	}

	var before *time.Time
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "before must be an RFC 3339 timestamp",
			})
			return
		}
		before = &t
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	records, err := h.historyService.RecentlyPlayed(ctx, caller, limit, before)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to retrieve play history",
		})
		return
	}

	c.JSON(http.StatusOK, RecentlyPlayedResponse{Items: records})
}

// SetupPlayerRoutes registers play-history routes
func SetupPlayerRoutes(apiGroup *gin.RouterGroup, historyService *history.Service) {
	handler := NewPlayerHandler(historyService)

	apiGroup.POST("/me/player/plays", handler.RecordPlay)
	apiGroup.GET("/me/player/recently-played", handler.RecentlyPlayed)
}
