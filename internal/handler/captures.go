package handler

import (
	"net/http"

	"placemark-api/internal/models"
	"placemark-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CapturesHandler ingests camera-flow payloads. The payload is a one-shot
// message handed over from the camera screen; it is folded into the place
// store exactly once and never treated as shared state.
type CapturesHandler struct {
	flow *service.CaptureFlow
}

// NewCapturesHandler creates a new captures handler.
func NewCapturesHandler(flow *service.CaptureFlow) *CapturesHandler {
	return &CapturesHandler{flow: flow}
}

type captureRequest struct {
	ID         *int64             `json:"id"`
	PhotoRef   models.PhotoRef    `json:"photo_ref"`
	Coordinate *models.Coordinate `json:"coordinate"`
}

// Ingest handles POST /captures requests.
//
//	@Summary	Save a captured photo as a place
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	models.Place
//	@Router		/captures [post]
func (h *CapturesHandler) Ingest(c *gin.Context) {
	var req captureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	if req.PhotoRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo_ref is required"})
		return
	}

	place := h.flow.Ingest(c.Request.Context(), req.ID, req.PhotoRef, req.Coordinate)
	c.JSON(http.StatusCreated, place)
}
