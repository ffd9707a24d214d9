// Package geo holds coordinate types and the great-circle math shared by
// the driver matcher and the ride orchestrator.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const earthRadiusKm = 6371

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate is inside the WGS84 ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// HaversineKm returns the great-circle distance between two points in
// kilometers, rounded to two decimal places.
func HaversineKm(a, b Coordinate) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(earthRadiusKm*c*100) / 100
}

// HaversineMeters returns the great-circle distance in meters.
func HaversineMeters(a, b Coordinate) float64 {
	return HaversineKm(a, b) * 1000
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Location is the pickup/destination input shape accepted by every
// location-carrying endpoint.
type Location struct {
	Address     string     `json:"address"`
	Coordinates Coordinate `json:"coordinates"`
}

// ValidationError names the offending field so callers can surface it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ValidateLocation checks a pickup/destination payload: address must be a
// non-empty, non-purely-numeric string, and coordinates must carry
// in-range latitude and longitude. field is "pickup" or "destination".
func ValidateLocation(field string, loc Location) error {
	addr := strings.TrimSpace(loc.Address)
	if addr == "" {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s address is required", field)}
	}
	if _, err := strconv.ParseFloat(addr, 64); err == nil {
		return &ValidationError{Field: field, Message: fmt.Sprintf("Invalid %s address", field)}
	}
	if loc.Coordinates.Latitude == 0 && loc.Coordinates.Longitude == 0 {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s coordinates are required", field)}
	}
	if loc.Coordinates.Latitude < -90 || loc.Coordinates.Latitude > 90 {
		return &ValidationError{Field: field, Message: fmt.Sprintf("Invalid %s latitude", field)}
	}
	if loc.Coordinates.Longitude < -180 || loc.Coordinates.Longitude > 180 {
		return &ValidationError{Field: field, Message: fmt.Sprintf("Invalid %s longitude", field)}
	}
	return nil
}
