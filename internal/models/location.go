package models

import "errors"

// GeoJSONPoint is the only geometry type listings carry.
const GeoJSONPoint = "Point"

// GeoJSON represents a GeoJSON Point for MongoDB.
type GeoJSON struct {
	Type        string    `bson:"type" json:"type"`               // Should be "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// NewPoint builds a GeoJSON point from a latitude/longitude pair.
func NewPoint(lat, lng float64) *GeoJSON {
	return &GeoJSON{Type: GeoJSONPoint, Coordinates: []float64{lng, lat}}
}

// Validate checks the point has a type tag and a [lng, lat] pair.
func (g *GeoJSON) Validate() error {
	if g == nil {
		return errors.New("geometry is required")
	}
	if g.Type != GeoJSONPoint {
		return errors.New("geometry type must be Point")
	}
	if len(g.Coordinates) != 2 {
		return errors.New("geometry must have exactly two coordinates")
	}
	return nil
}

// Longitude returns the first coordinate, or 0 for an empty point.
func (g *GeoJSON) Longitude() float64 {
	if g == nil || len(g.Coordinates) != 2 {
		return 0
	}
	return g.Coordinates[0]
}

// Latitude returns the second coordinate, or 0 for an empty point.
func (g *GeoJSON) Latitude() float64 {
	if g == nil || len(g.Coordinates) != 2 {
		return 0
	}
	return g.Coordinates[1]
}
