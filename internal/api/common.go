package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/middleware"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MessageResponse represents a simple confirmation response
type MessageResponse struct {
	Message string `json:"message"`
}

// callerID extracts the authenticated user id placed in the context by the
// auth middleware, writing a 401 response when it is missing
func callerID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Missing caller identity",
		})
		return uuid.Nil, false
	}
	return id, true
}

// parseIDParam parses the named path parameter as a UUID
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid " + name + " format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// parseIDsQuery parses the required comma-separated ids query parameter
func parseIDsQuery(c *gin.Context) ([]uuid.UUID, bool) {
	raw := c.Query("ids")
	if raw == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Query parameter ids is required",
		})
		return nil, false
	}

	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_id",
				Message: "Invalid id in ids list: " + part,
			})
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// parseUUIDs converts a slice of string ids from a request body
func parseUUIDs(c *gin.Context, raw []string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_id",
				Message: "Invalid id: " + s,
			})
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}

// parsePagination reads limit and offset query parameters. Absent parameters
// are left at zero so services apply their own defaults.
func parsePagination(c *gin.Context) (limit, offset int, ok bool) {
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "limit must be a non-negative integer",
			})
			return 0, 0, false
		}
		limit = n
	}
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "offset must be a non-negative integer",
			})
			return 0, 0, false
		}
		offset = n
	}
	return limit, offset, true
}
