package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/soundhaven/soundhaven/internal/catalog"
)

// CreateArtistRequest represents a request to add an artist to the catalog
type CreateArtistRequest struct {
	Name  string  `json:"name" binding:"required"`
	Genre *string `json:"genre,omitempty"`
}

// CreateAlbumRequest represents a request to add an album to the catalog
type CreateAlbumRequest struct {
	Title    string `json:"title" binding:"required"`
	ArtistID string `json:"artist_id" binding:"required"`
}

// CreateTrackRequest represents a request to add a track to the catalog
type CreateTrackRequest struct {
	Title      string  `json:"title" binding:"required"`
	ArtistID   string  `json:"artist_id" binding:"required"`
	AlbumID    *string `json:"album_id,omitempty"`
	DurationMS int64   `json:"duration_ms" binding:"required,gt=0"`
}

// CatalogHandler handles catalog API requests
type CatalogHandler struct {
	catalogService *catalog.Service
}

// NewCatalogHandler creates a new catalog handler instance
func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// respondCatalogError maps catalog service errors to HTTP responses
func respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrTrackNotFound),
		errors.Is(err, catalog.ErrAlbumNotFound),
		errors.Is(err, catalog.ErrArtistNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, catalog.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Catalog operation failed",
		})
	}
}

// CreateArtist handles POST /api/artists
func (h *CatalogHandler) CreateArtist(c *gin.Context) {
	var req CreateArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	artist, err := h.catalogService.CreateArtist(ctx, req.Name, req.Genre)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, artist)
}

// CreateAlbum handles POST /api/albums
func (h *CatalogHandler) CreateAlbum(c *gin.Context) {
	var req CreateAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	artistID, err := uuid.Parse(req.ArtistID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid artist id: " + req.ArtistID,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	album, err := h.catalogService.CreateAlbum(ctx, req.Title, artistID)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, album)
}

// CreateTrack handles POST /api/tracks
func (h *CatalogHandler) CreateTrack(c *gin.Context) {
	var req CreateTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	artistID, err := uuid.Parse(req.ArtistID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid artist id: " + req.ArtistID,
		})
		return
	}

	var albumID *uuid.UUID
	if req.AlbumID != nil {
		id, err := uuid.Parse(*req.AlbumID)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_id",
				Message: "Invalid album id: " + *req.AlbumID,
			})
			return
		}
		albumID = &id
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	track, err := h.catalogService.CreateTrack(ctx, req.Title, artistID, albumID, req.DurationMS)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, track)
}

// GetTrack handles GET /api/tracks/:id
func (h *CatalogHandler) GetTrack(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	track, err := h.catalogService.GetTrack(ctx, id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, track)
}

// GetAlbum handles GET /api/albums/:id
func (h *CatalogHandler) GetAlbum(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	album, err := h.catalogService.GetAlbum(ctx, id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, album)
}

// GetArtist handles GET /api/artists/:id
func (h *CatalogHandler) GetArtist(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	artist, err := h.catalogService.GetArtist(ctx, id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, artist)
}

// SetupCatalogRoutes registers catalog routes
func SetupCatalogRoutes(apiGroup *gin.RouterGroup, catalogService *catalog.Service) {
	handler := NewCatalogHandler(catalogService)

	apiGroup.POST("/artists", handler.CreateArtist)
	apiGroup.GET("/artists/:id", handler.GetArtist)
	apiGroup.POST("/albums", handler.CreateAlbum)
	apiGroup.GET("/albums/:id", handler.GetAlbum)
	apiGroup.POST("/tracks", handler.CreateTrack)
	apiGroup.GET("/tracks/:id", handler.GetTrack)
}
