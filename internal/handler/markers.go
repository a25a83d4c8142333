package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"placemark-api/internal/models"
	"placemark-api/internal/service"

	"github.com/gin-gonic/gin"
)

// MarkersHandler renders the place set as map markers with live distance
// annotations.
type MarkersHandler struct {
	places   MarkerPlaceSource
	position PositionSource
}

// MarkerPlaceSource is the slice of the place store the marker views need.
type MarkerPlaceSource interface {
	List() []models.Place
	Subscribe() (<-chan struct{}, func())
}

// PositionSource reads the device position feed.
type PositionSource interface {
	CurrentPosition(ctx context.Context) (models.Coordinate, error)
	Watch(ctx context.Context) (<-chan models.Coordinate, func(), error)
}

// NewMarkersHandler creates a new markers handler.
func NewMarkersHandler(places MarkerPlaceSource, position PositionSource) *MarkersHandler {
	return &MarkersHandler{places: places, position: position}
}

// userLocation resolves the viewer position for a request: explicit lat/lon
// query parameters win, then the last known device position, then none
// (markers render without distance labels).
func (h *MarkersHandler) userLocation(c *gin.Context) (*models.Coordinate, bool) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr != "" || lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
			return nil, false
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
			return nil, false
		}
		coord := models.Coordinate{Latitude: lat, Longitude: lon}
		if !coord.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
			return nil, false
		}
		return &coord, true
	}

	if pos, err := h.position.CurrentPosition(c.Request.Context()); err == nil {
		return &pos, true
	}
	return nil, true
}

// List handles GET /markers requests.
//
//	@Summary	Project places as map markers
//	@Param		lat	query	number	false	"viewer latitude"
//	@Param		lon	query	number	false	"viewer longitude"
//	@Produce	json
//	@Success	200	{array}	models.MarkerView
//	@Router		/markers [get]
func (h *MarkersHandler) List(c *gin.Context) {
	user, ok := h.userLocation(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, service.Project(h.places.List(), user))
}

// Stream handles GET /markers/stream requests. Markers are re-projected and
// pushed as a server-sent event whenever the place set or the device
// position changes.
//
//	@Summary	Stream marker updates
//	@Produce	text/event-stream
//	@Success	200
//	@Router		/markers/stream [get]
func (h *MarkersHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()

	changes, unsubscribe := h.places.Subscribe()
	defer unsubscribe()

	positions, stopWatch, err := h.position.Watch(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	defer stopWatch()

	var user *models.Coordinate
	if pos, err := h.position.CurrentPosition(ctx); err == nil {
		user = &pos
	}

	c.Header("Cache-Control", "no-cache")

	// First frame immediately, then one frame per change.
	c.Stream(func(w io.Writer) bool {
		c.SSEvent("markers", service.Project(h.places.List(), user))

		select {
		case <-ctx.Done():
			return false
		case <-changes:
			return true
		case pos := <-positions:
			user = &pos
			return true
		}
	})
}
