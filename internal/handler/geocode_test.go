package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"placemark-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockGeocodeService is a mock implementation of the GeocodeService interface.
type MockGeocodeService struct {
	mock.Mock
}

func (m *MockGeocodeService) Search(ctx context.Context, address string) ([]models.GazetteerEntry, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GazetteerEntry), args.Error(1)
}

func TestGeocodeHandler_Geocode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		query          string
		mockEntries    []models.GazetteerEntry
		mockError      error
		expectedStatus int
		expectedBody   interface{}
	}{
		{
			name:           "missing query parameter",
			query:          "",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "missing required query parameter 'q'"},
		},
		{
			name:  "successful lookup with results",
			query: "Mitre",
			mockEntries: []models.GazetteerEntry{
				{
					ID:        1,
					Name:      "Kiosco",
					Address:   "Río de Janeiro y Mitre",
					Latitude:  -34.6096,
					Longitude: -58.4303,
				},
			},
			expectedStatus: http.StatusOK,
			expectedBody: []models.GazetteerEntry{
				{
					ID:        1,
					Name:      "Kiosco",
					Address:   "Río de Janeiro y Mitre",
					Latitude:  -34.6096,
					Longitude: -58.4303,
				},
			},
		},
		{
			name:           "successful lookup with no results",
			query:          "nonexistent address",
			mockEntries:    []models.GazetteerEntry{},
			expectedStatus: http.StatusOK,
			expectedBody:   []models.GazetteerEntry{},
		},
		{
			name:           "service error",
			query:          "Mitre",
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   gin.H{"error": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockGeocodeService)
			handler := NewGeocodeHandler(mockSvc)

			if tt.query != "" {
				mockSvc.On("Search", mock.Anything, tt.query).Return(tt.mockEntries, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/geocode", nil)
			if tt.query != "" {
				q := req.URL.Query()
				q.Add("q", tt.query)
				req.URL.RawQuery = q.Encode()
			}
			w := httptest.NewRecorder()

			c, _ := gin.CreateTestContext(w)
			c.Request = req

			handler.Geocode(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var actualBody interface{}
			err := json.Unmarshal(w.Body.Bytes(), &actualBody)
			assert.NoError(t, err)

			expected, err := json.Marshal(tt.expectedBody)
			assert.NoError(t, err)
			var expectedAsInterface interface{}
			assert.NoError(t, json.Unmarshal(expected, &expectedAsInterface))
			assert.Equal(t, expectedAsInterface, actualBody)

			if tt.query != "" {
				mockSvc.AssertExpectations(t)
			}
		})
	}
}
