package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soundhaven/soundhaven/internal/library"
)

// SaveItemsResponse lists the library entries a save request actually created
type SaveItemsResponse struct {
	Items []*library.Item `json:"items"`
}

// ContainsResponse reports saved-state per requested id, in request order
type ContainsResponse struct {
	Contains []bool `json:"contains"`
}

// LibraryHandler handles saved-items API requests for both kinds
type LibraryHandler struct {
	libraryService *library.Service
}

// NewLibraryHandler creates a new library handler instance
func NewLibraryHandler(libraryService *library.Service) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService}
}

// respondLibraryError maps library service errors to HTTP responses
func respondLibraryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, library.ErrItemNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "No matching items found",
		})
	case errors.Is(err, library.ErrLimitExceeded):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "limit_exceeded",
			Message: "Library size limit reached",
		})
	case errors.Is(err, library.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Library operation failed",
		})
	}
}

// save handles PUT /api/me/tracks and PUT /api/me/albums
func (h *LibraryHandler) save(kind library.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		items, err := h.libraryService.Save(ctx, caller, kind, ids)
		if err != nil {
			respondLibraryError(c, err)
			return
		}

		c.JSON(http.StatusOK, SaveItemsResponse{Items: items})
	}
}

// remove handles DELETE /api/me/tracks and DELETE /api/me/albums
func (h *LibraryHandler) remove(kind library.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		if err := h.libraryService.Remove(ctx, caller, kind, ids); err != nil {
			respondLibraryError(c, err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "Items removed"})
	}
}

// contains handles GET /api/me/tracks/contains and GET /api/me/albums/contains
func (h *LibraryHandler) contains(kind library.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		result, err := h.libraryService.Contains(ctx, caller, kind, ids)
		if err != nil {
			respondLibraryError(c, err)
			return
		}

		c.JSON(http.StatusOK, ContainsResponse{Contains: result})
	}
}

// list handles GET /api/me/tracks and GET /api/me/albums
func (h *LibraryHandler) list(kind library.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerID(c)
		if !ok {
			return
		}
		limit, offset, ok := parsePagination(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		page, err := h.libraryService.List(ctx, caller, kind, limit, offset)
		if err != nil {
			respondLibraryError(c, err)
			return
		}

		c.JSON(http.StatusOK, page)
	}
}

// SetupLibraryRoutes registers saved-items routes
func SetupLibraryRoutes(apiGroup *gin.RouterGroup, libraryService *library.Service) {
	handler := NewLibraryHandler(libraryService)

	apiGroup.PUT("/me/tracks", handler.save(library.KindTrack))
	apiGroup.DELETE("/me/tracks", handler.remove(library.KindTrack))
	apiGroup.GET("/me/tracks", handler.list(library.KindTrack))
	apiGroup.GET("/me/tracks/contains", handler.contains(library.KindTrack))

	apiGroup.PUT("/me/albums", handler.save(library.KindAlbum))
	apiGroup.DELETE("/me/albums", handler.remove(library.KindAlbum))
	apiGroup.GET("/me/albums", handler.list(library.KindAlbum))
	apiGroup.GET("/me/albums/contains", handler.contains(library.KindAlbum))
}
