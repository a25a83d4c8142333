package handler

import (
	"net/http"

	"placemark-api/internal/models"

	"github.com/gin-gonic/gin"
)

// PositionHandler accepts client-reported device positions, the fallback
// feed when no MQTT broker is configured.
type PositionHandler struct {
	reporter PositionReporter
}

// PositionReporter pushes a position update into the location provider.
type PositionReporter interface {
	Report(c models.Coordinate)
}

// NewPositionHandler creates a new position handler.
func NewPositionHandler(reporter PositionReporter) *PositionHandler {
	return &PositionHandler{reporter: reporter}
}

// Report handles POST /position requests.
//
//	@Summary	Report the device position
//	@Accept		json
//	@Success	204
//	@Router		/position [post]
func (h *PositionHandler) Report(c *gin.Context) {
	var coord models.Coordinate
	if err := c.ShouldBindJSON(&coord); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	if !coord.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	}

	h.reporter.Report(coord)
	c.Status(http.StatusNoContent)
}
