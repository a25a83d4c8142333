package models

// Coordinate represents a single WGS 84 point. Latitude is restricted to
// [-90, 90] and longitude to [-180, 180]. A coordinate attached to a Place
// never changes afterwards.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies inside the WGS 84 ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// PhotoRef is an opaque reference to image data held by the client, typically
// a local file URI. Image bytes are never embedded in a Place.
type PhotoRef string

// Place is a saved point of interest with a title, a coordinate and an
// optional photo. Places are immutable once created; the store never exposes
// an update or delete operation.
type Place struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Coordinate Coordinate `json:"coordinate"`
	PhotoRef   PhotoRef   `json:"photo_ref,omitempty"`
}

// MarkerView is the renderable projection of a Place on the map, annotated at
// render time with the distance from the user's current position.
type MarkerView struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Coordinate    Coordinate `json:"coordinate"`
	PhotoRef      PhotoRef   `json:"photo_ref,omitempty"`
	DistanceLabel string     `json:"distance_label,omitempty"`
}

// GazetteerEntry represents a single addressable row of the geocoding
// gazetteer, containing its display name, address text and precise
// geographic coordinates.
type GazetteerEntry struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinate returns the entry's position as a Coordinate.
func (e GazetteerEntry) Coordinate() Coordinate {
	return Coordinate{Latitude: e.Latitude, Longitude: e.Longitude}
}
