package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"placemark-api/internal/location"
	"placemark-api/internal/models"
	"placemark-api/internal/service"
	"placemark-api/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFallback = models.Coordinate{Latitude: -34.6037, Longitude: -58.3816}

func newSessionsRouter(t *testing.T) (*gin.Engine, *store.PlaceStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	places := store.New()
	provider := location.New()
	resolver := service.NewGeoResolver(nil, provider, testFallback)
	sessions := service.NewSessions(resolver, provider, places)

	handler := NewSessionsHandler(sessions)
	r := gin.New()
	r.POST("/sessions", handler.Start)
	r.GET("/sessions/:id", handler.Show)
	r.PUT("/sessions/:id/draft", handler.UpdateDraft)
	r.POST("/sessions/:id/photos", handler.AttachPhotos)
	r.POST("/sessions/:id/camera", handler.AttachCamera)
	r.POST("/sessions/:id/pick", handler.BeginPick)
	r.POST("/sessions/:id/tap", handler.Tap)
	r.DELETE("/sessions/:id/pick", handler.CancelPick)
	r.POST("/sessions/:id/commit", handler.Commit)
	r.DELETE("/sessions/:id", handler.End)
	return r, places
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func startSession(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	require.Equal(t, "editing", resp.State)
	return resp.ID
}

func TestSessionsHandler_FullFlow(t *testing.T) {
	r, places := newSessionsRouter(t)
	id := startSession(t, r)

	w := doJSON(t, r, http.MethodPut, "/sessions/"+id+"/draft", gin.H{"name": "Plaza"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/photos", gin.H{
		"refs": []string{"file:///a.jpg", "file:///b.jpg"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/pick", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/tap", gin.H{
		"latitude":  -34.6096,
		"longitude": -58.4303,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/commit", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var batch []models.Place
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	require.Len(t, batch, 2)
	assert.Equal(t, "Plaza (1)", batch[0].Title)
	assert.Equal(t, "Plaza (2)", batch[1].Title)
	for _, p := range batch {
		assert.Equal(t, -34.6096, p.Coordinate.Latitude)
		assert.Equal(t, -58.4303, p.Coordinate.Longitude)
	}

	assert.Equal(t, 2, places.Len())
}

func TestSessionsHandler_CommitValidation(t *testing.T) {
	tests := []struct {
		name          string
		draft         gin.H
		photos        []string
		expectedField string
	}{
		{
			name:          "missing name",
			draft:         gin.H{"name": "   "},
			photos:        []string{"file:///a.jpg"},
			expectedField: "name",
		},
		{
			name:          "missing photos",
			draft:         gin.H{"name": "Plaza"},
			expectedField: "attachments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, places := newSessionsRouter(t)
			id := startSession(t, r)

			w := doJSON(t, r, http.MethodPut, "/sessions/"+id+"/draft", tt.draft)
			require.Equal(t, http.StatusOK, w.Code)

			if len(tt.photos) > 0 {
				w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/photos", gin.H{"refs": tt.photos})
				require.Equal(t, http.StatusOK, w.Code)
			}

			w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/commit", nil)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedField, resp["field"])
			assert.Equal(t, 0, places.Len())
		})
	}
}

func TestSessionsHandler_SinglePhotoKeepsBareTitle(t *testing.T) {
	r, _ := newSessionsRouter(t)
	id := startSession(t, r)

	w := doJSON(t, r, http.MethodPut, "/sessions/"+id+"/draft", gin.H{"name": "Kiosco"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/camera", gin.H{"ref": "file:///shot.jpg"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/commit", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var batch []models.Place
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	require.Len(t, batch, 1)
	assert.Equal(t, "Kiosco", batch[0].Title)
	assert.Equal(t, testFallback, batch[0].Coordinate)
}

func TestSessionsHandler_CancelPickKeepsDraft(t *testing.T) {
	r, _ := newSessionsRouter(t)
	id := startSession(t, r)

	w := doJSON(t, r, http.MethodPut, "/sessions/"+id+"/draft", gin.H{"name": "Plaza"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/pick", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/sessions/"+id+"/pick", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		State string `json:"state"`
		Draft struct {
			Name string `json:"name"`
		} `json:"draft"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "editing", resp.State)
	assert.Equal(t, "Plaza", resp.Draft.Name)
}

func TestSessionsHandler_DismissedPickerIsAbsorbed(t *testing.T) {
	r, _ := newSessionsRouter(t)
	id := startSession(t, r)

	w := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/photos", gin.H{"refs": []string{}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Draft struct {
			Attachments []string `json:"attachments"`
		} `json:"draft"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Draft.Attachments)
}

func TestSessionsHandler_UnknownSession(t *testing.T) {
	r, _ := newSessionsRouter(t)

	w := doJSON(t, r, http.MethodGet, "/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/sessions/nope/commit", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionsHandler_TapOutOfRange(t *testing.T) {
	r, _ := newSessionsRouter(t)
	id := startSession(t, r)

	w := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/pick", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/tap", gin.H{
		"latitude":  123.0,
		"longitude": -58.4303,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionsHandler_End(t *testing.T) {
	r, _ := newSessionsRouter(t)
	id := startSession(t, r)

	w := doJSON(t, r, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
