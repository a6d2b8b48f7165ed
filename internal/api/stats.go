package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soundhaven/soundhaven/internal/stats"
)

// AggregateRequest represents a listen or like aggregation query
type AggregateRequest struct {
	IDs        []string  `json:"ids" binding:"required,min=1"`
	TargetType string    `json:"target_type" binding:"required"`
	Period     string    `json:"period" binding:"required"`
	StartDate  time.Time `json:"start_date" binding:"required"`
	EndDate    time.Time `json:"end_date" binding:"required"`
}

// AggregateResponse carries the computed aggregation buckets
type AggregateResponse struct {
	Groups []stats.Group `json:"groups"`
}

// StatsHandler handles aggregation API requests
type StatsHandler struct {
	statsService *stats.Service
}

// NewStatsHandler creates a new stats handler instance
func NewStatsHandler(statsService *stats.Service) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// aggregate handles POST /api/stats/listens and POST /api/stats/likes
func (h *StatsHandler) aggregate(kind stats.EventKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := callerID(c); !ok {
			return
		}

		var req AggregateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "Invalid request body: " + err.Error(),
			})
			return
		}

		var targetType stats.TargetType
		switch req.TargetType {
		case "track":
			targetType = stats.TargetTrack
		case "album":
			targetType = stats.TargetAlbum
		default:
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "target_type must be track or album",
			})
			return
		}

		period, err := stats.ParsePeriod(req.Period)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: err.Error(),
			})
			return
		}

		ids, ok := parseUUIDs(c, req.IDs)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		groups, err := h.statsService.Aggregate(ctx, kind, targetType, ids, period, req.StartDate, req.EndDate)
		if err != nil {
			if errors.Is(err, stats.ErrInvalidInput) {
				c.JSON(http.StatusBadRequest, ErrorResponse{
					Error:   "invalid_request",
					Message: err.Error(),
				})
				return
			}
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "internal_error",
				Message: "Aggregation failed",
			})
			return
		}

		c.JSON(http.StatusOK, AggregateResponse{Groups: groups})
	}
}

// SetupStatsRoutes registers aggregation routes
func SetupStatsRoutes(apiGroup *gin.RouterGroup, statsService *stats.Service) {
	handler := NewStatsHandler(statsService)

	apiGroup.POST("/stats/listens", handler.aggregate(stats.KindListen))
	apiGroup.POST("/stats/likes", handler.aggregate(stats.KindLike))
}
