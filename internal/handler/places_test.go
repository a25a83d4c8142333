package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"placemark-api/internal/models"
	"placemark-api/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlacesRouter(t *testing.T) (*gin.Engine, *store.PlaceStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	places := store.New()
	places.Seed(store.DefaultPlaces())

	handler := NewPlacesHandler(places)
	r := gin.New()
	r.GET("/places", handler.List)
	r.GET("/places/:id", handler.Detail)
	return r, places
}

func TestPlacesHandler_List(t *testing.T) {
	r, _ := newPlacesRouter(t)

	w := doJSON(t, r, http.MethodGet, "/places", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var places []models.Place
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &places))
	require.Len(t, places, 2)
	assert.Equal(t, "Kiosco", places[0].Title)
	assert.Equal(t, "Casa de Torcha", places[1].Title)
}

func TestPlacesHandler_Detail(t *testing.T) {
	r, places := newPlacesRouter(t)
	seeded := places.List()

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{
			name:           "existing place",
			path:           fmt.Sprintf("/places/%d", seeded[0].ID),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown id",
			path:           "/places/999999",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "malformed id",
			path:           "/places/abc",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var place models.Place
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &place))
				assert.Equal(t, seeded[0], place)
			}
		})
	}
}
