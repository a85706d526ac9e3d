package domain

import (
	"math"
	"strconv"
)

// Coordinate is a point on the Earth surface in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// NewCoordinate builds a coordinate from optional parts.
// It returns nil unless both parts are present and usable.
func NewCoordinate(lat, lon *float64) *Coordinate {
	if lat == nil || lon == nil {
		return nil
	}
	c := Coordinate{Lat: *lat, Lon: *lon}
	if !c.Valid() {
		return nil
	}
	return &c
}

// Valid reports whether both parts are finite and within range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// MapsURL returns a public map link pointing at the coordinate.
func (c Coordinate) MapsURL() string {
	return "https://maps.google.com/?q=" +
		strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(c.Lon, 'f', -1, 64)
}
