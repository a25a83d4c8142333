package service

import (
	"fmt"
	"math"

	"placemark-api/internal/models"
)

const earthRadiusMeters = 6371000

// Project renders places as map markers. When the user's position is known
// each marker carries a human-readable distance label; otherwise the label is
// empty. Project is pure and is re-evaluated whenever the place set or the
// user position changes.
func Project(places []models.Place, user *models.Coordinate) []models.MarkerView {
	markers := make([]models.MarkerView, 0, len(places))
	for _, p := range places {
		m := models.MarkerView{
			ID:         p.ID,
			Title:      p.Title,
			Coordinate: p.Coordinate,
			PhotoRef:   p.PhotoRef,
		}
		if user != nil {
			m.DistanceLabel = DistanceLabel(Haversine(*user, p.Coordinate))
		}
		markers = append(markers, m)
	}
	return markers
}

// Haversine returns the great-circle distance between two points in meters.
func Haversine(a, b models.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// DistanceLabel formats a distance in meters for display: whole meters under
// one kilometer, otherwise kilometers with one decimal place.
func DistanceLabel(meters float64) string {
	rounded := math.Round(meters)
	if rounded < 1000 {
		return fmt.Sprintf("%d m", int64(rounded))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}
