package handler

import (
	"net/http"
	"strconv"

	"placemark-api/internal/models"

	"github.com/gin-gonic/gin"
)

// PlacesHandler serves the saved-places list and detail views.
type PlacesHandler struct {
	places PlaceSource
}

// PlaceSource is the slice of the place store the read-side handlers need.
type PlaceSource interface {
	List() []models.Place
	Get(id int64) (models.Place, bool)
}

// NewPlacesHandler creates a new places handler.
func NewPlacesHandler(places PlaceSource) *PlacesHandler {
	return &PlacesHandler{places: places}
}

// List handles GET /places requests.
//
//	@Summary	List saved places
//	@Produce	json
//	@Success	200	{array}	models.Place
//	@Router		/places [get]
func (h *PlacesHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.places.List())
}

// Detail handles GET /places/:id requests.
//
//	@Summary	Show one saved place
//	@Param		id	path	int	true	"place id"
//	@Produce	json
//	@Success	200	{object}	models.Place
//	@Failure	404	{object}	map[string]string
//	@Router		/places/{id} [get]
func (h *PlacesHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid place id"})
		return
	}

	place, ok := h.places.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
		return
	}

	c.JSON(http.StatusOK, place)
}
