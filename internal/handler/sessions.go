package handler

import (
	"context"
	"errors"
	"net/http"

	"placemark-api/internal/models"
	"placemark-api/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionsHandler exposes the add-place flow. Each session is one user flow;
// the client drives it through the endpoints below exactly as the form,
// picker dialogs and map taps would.
type SessionsHandler struct {
	sessions *service.Sessions
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(sessions *service.Sessions) *SessionsHandler {
	return &SessionsHandler{sessions: sessions}
}

type sessionResponse struct {
	ID    string               `json:"id"`
	State service.SessionState `json:"state"`
	Draft models.Draft         `json:"draft"`
}

type draftRequest struct {
	Name        *string `json:"name"`
	AddressText *string `json:"address_text"`
	UseCurrent  bool    `json:"use_current_location"`
}

type photosRequest struct {
	Refs  []models.PhotoRef `json:"refs"`
	Limit int               `json:"limit"`
}

type cameraRequest struct {
	Ref models.PhotoRef `json:"ref"`
}

type tapRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// postedPicker bridges a request body to the photo picker port: the refs the
// client posted are the result of its picker dialog. An empty body means the
// dialog was dismissed.
type postedPicker struct {
	refs []models.PhotoRef
}

func (p postedPicker) RequestPermission(ctx context.Context) (models.PermissionDecision, error) {
	return models.PermissionGranted, nil
}

func (p postedPicker) Pick(ctx context.Context, multiple bool, limit int) ([]models.PhotoRef, error) {
	if len(p.refs) == 0 {
		return nil, models.ErrUserCancelled
	}
	if limit > 0 && len(p.refs) > limit {
		return p.refs[:limit], nil
	}
	return p.refs, nil
}

// postedCamera bridges a request body to the camera port.
type postedCamera struct {
	ref models.PhotoRef
}

func (p postedCamera) RequestPermission(ctx context.Context) (models.PermissionDecision, error) {
	return models.PermissionGranted, nil
}

func (p postedCamera) Capture(ctx context.Context) (models.PhotoRef, error) {
	if p.ref == "" {
		return "", models.ErrUserCancelled
	}
	return p.ref, nil
}

// Start handles POST /sessions requests.
//
//	@Summary	Start an add-place session
//	@Produce	json
//	@Success	201	{object}	sessionResponse
//	@Router		/sessions [post]
func (h *SessionsHandler) Start(c *gin.Context) {
	id, s := h.sessions.Start()
	c.JSON(http.StatusCreated, sessionResponse{ID: id, State: s.State(), Draft: s.Draft()})
}

// Show handles GET /sessions/:id requests.
func (h *SessionsHandler) Show(c *gin.Context) {
	id, s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: id, State: s.State(), Draft: s.Draft()})
}

// UpdateDraft handles PUT /sessions/:id/draft requests. It sets the name
// and/or address text and optionally pins the draft to the device's current
// position.
func (h *SessionsHandler) UpdateDraft(c *gin.Context) {
	id, s, ok := h.session(c)
	if !ok {
		return
	}

	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	if req.Name != nil {
		if err := s.SetName(*req.Name); err != nil {
			writeSessionError(c, err)
			return
		}
	}
	if req.AddressText != nil {
		if err := s.SetAddressText(*req.AddressText); err != nil {
			writeSessionError(c, err)
			return
		}
	}
	if req.UseCurrent {
		if err := s.UseCurrentLocation(c.Request.Context()); err != nil {
			writeSessionError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, sessionResponse{ID: id, State: s.State(), Draft: s.Draft()})
}

// AttachPhotos handles POST /sessions/:id/photos requests.
func (h *SessionsHandler) AttachPhotos(c *gin.Context) {
	id, s, ok := h.session(c)
	if !ok {
		return
	}

	var req photosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	if err := s.AttachFromPicker(c.Request.Context(), postedPicker{refs: req.Refs}, req.Limit); err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse{ID: id, State: s.State(), Draft: s.Draft()})
}

// AttachCamera handles POST /sessions/:id/camera requests.
func (h *SessionsHandler) AttachCamera(c *gin.Context) {
	id, s, ok := h.session(c)
	if !ok {
		return
	}

	var req cameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	if err := s.AttachFromCamera(c.Request.Context(), postedCamera{ref: req.Ref}); err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse{ID: id, State: s.State(), Draft: s.Draft()})
}

// BeginPick handles POST /sessions/:id/pick requests.
func (h *SessionsHandler) BeginPick(c *gin.Context) {
	id, s, ok := h.session(c)
	if !ok {
		return
	}

	if err := s.BeginPickOnMap(); err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse{ID: id, State: s.State(), Draft: s.Draft()})
}

// Tap handles POST /sessions/:id/tap requests, delivering one map tap.
func (h *SessionsHandler) Tap(c *gin.Context) {
	id, s, ok := h.session(c)
	if !ok {
		return
	}

	var req tapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	coord := models.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	if !coord.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	}

	s.MapTap(coord)
	c.JSON(http.StatusOK, sessionResponse{ID: id, State: s.State(), Draft: s.Draft()})
}

// CancelPick handles DELETE /sessions/:id/pick requests.
func (h *SessionsHandler) CancelPick(c *gin.Context) {
	id, s, ok := h.session(c)
	if !ok {
		return
	}

	s.CancelPick()
	c.JSON(http.StatusOK, sessionResponse{ID: id, State: s.State(), Draft: s.Draft()})
}

// Commit handles POST /sessions/:id/commit requests.
//
//	@Summary	Commit the draft as one or more places
//	@Param		id	path	string	true	"session id"
//	@Produce	json
//	@Success	201	{array}		models.Place
//	@Failure	409	{object}	map[string]string
//	@Failure	422	{object}	map[string]string
//	@Router		/sessions/{id}/commit [post]
func (h *SessionsHandler) Commit(c *gin.Context) {
	_, s, ok := h.session(c)
	if !ok {
		return
	}

	batch, err := s.Commit(c.Request.Context())
	if err != nil {
		writeSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, batch)
}

// End handles DELETE /sessions/:id requests, abandoning the draft.
func (h *SessionsHandler) End(c *gin.Context) {
	id := c.Param("id")
	if err := h.sessions.End(id); err != nil {
		writeSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionsHandler) session(c *gin.Context) (string, *service.AddPlaceSession, bool) {
	id := c.Param("id")
	s, ok := h.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return "", nil, false
	}
	return id, s, true
}

func writeSessionError(c *gin.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Reason, "field": verr.Field})
	case errors.Is(err, models.ErrSaveInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "a commit is already in flight"})
	case errors.Is(err, models.ErrPermissionPermanentlyDenied):
		c.JSON(http.StatusForbidden, gin.H{
			"error":  "permission permanently denied",
			"action": "open system settings to grant access",
		})
	case errors.Is(err, models.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	case errors.Is(err, models.ErrPositionUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "position unavailable"})
	default:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	}
}
