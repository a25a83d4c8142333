package handler

import (
	"context"
	"net/http"

	"placemark-api/internal/models"

	"github.com/gin-gonic/gin"
)

// GeocodeHandler handles address preview requests for the add-place form.
type GeocodeHandler struct {
	service GeocodeService
}

// Service interface for dependency injection.
type GeocodeService interface {
	Search(context.Context, string) ([]models.GazetteerEntry, error)
}

// NewGeocodeHandler creates a new geocode handler.
func NewGeocodeHandler(svc GeocodeService) *GeocodeHandler {
	return &GeocodeHandler{service: svc}
}

// Geocode handles GET /geocode requests.
//
//	@Summary	Preview address matches
//	@Param		q	query	string	true	"address text"
//	@Produce	json
//	@Success	200	{array}	models.GazetteerEntry
//	@Router		/geocode [get]
func (h *GeocodeHandler) Geocode(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'q'"})
		return
	}

	entries, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if entries == nil {
		entries = []models.GazetteerEntry{}
	}
	c.JSON(http.StatusOK, entries)
}
