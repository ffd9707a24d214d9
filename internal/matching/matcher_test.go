package matching

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vezoh_backend/internal/geo"
	"vezoh_backend/internal/maps"
	"vezoh_backend/internal/models"
)

// fakeEstimator returns a canned result per origin, or an error when the
// origin is not in the table.
type fakeEstimator struct {
	results map[geo.Coordinate]maps.DistanceResult
}

func (f *fakeEstimator) Distance(_ context.Context, origin, _ geo.Coordinate, _ string) (*maps.DistanceResult, error) {
	if res, ok := f.results[origin]; ok {
		return &res, nil
	}
	return nil, fmt.Errorf("no route for %v", origin)
}

func driverAt(id uint, name string, lat, lng float64) models.Driver {
	now := time.Now()
	d := models.Driver{
		Name:              name,
		Latitude:          lat,
		Longitude:         lng,
		LocationUpdatedAt: &now,
		RatingAverage:     4.5,
	}
	d.ID = id
	return d
}

func TestFilterByRadius(t *testing.T) {
	center := geo.Coordinate{Latitude: 0, Longitude: 0}
	near := driverAt(1, "near", 0, 0.01)   // ~1.1 km
	far := driverAt(2, "far", 0, 0.1)      // ~11 km
	onEdge := driverAt(3, "edge", 0, 0.02) // ~2.2 km

	within := FilterByRadius([]models.Driver{near, far, onEdge}, center, 5000)
	require.Len(t, within, 2)
	assert.Equal(t, uint(1), within[0].ID)
	assert.Equal(t, uint(3), within[1].ID)

	assert.Empty(t, FilterByRadius([]models.Driver{far}, center, 5000))
	assert.Empty(t, FilterByRadius(nil, center, 5000))
}

func TestRankSortsByEstimatorDistance(t *testing.T) {
	center := geo.Coordinate{Latitude: 12.97, Longitude: 77.59}
	a := driverAt(1, "a", 12.98, 77.59)
	b := driverAt(2, "b", 12.96, 77.59)
	c := driverAt(3, "c", 12.97, 77.60)

	est := &fakeEstimator{results: map[geo.Coordinate]maps.DistanceResult{
		{Latitude: 12.98, Longitude: 77.59}: {DistanceText: "1.2 km", DistanceMeters: 1200, DurationText: "12 mins", DurationSeconds: 720},
		{Latitude: 12.96, Longitude: 77.59}: {DistanceText: "0.5 km", DistanceMeters: 500, DurationText: "5 mins", DurationSeconds: 300},
		{Latitude: 12.97, Longitude: 77.60}: {DistanceText: "2.0 km", DistanceMeters: 2000, DurationText: "20 mins", DurationSeconds: 1200},
	}}

	ranked := Rank(context.Background(), est, []models.Driver{a, b, c}, center)
	require.Len(t, ranked, 3)
	assert.Equal(t, []uint{2, 1, 3}, []uint{ranked[0].DriverID, ranked[1].DriverID, ranked[2].DriverID})

	assert.Equal(t, 500, ranked[0].Distance.Meters)
	assert.Equal(t, 0.5, ranked[0].Distance.Km)
	assert.Equal(t, 5, ranked[0].Arrival.Minutes)
	assert.Equal(t, "0.5 km", ranked[0].Distance.Text)
}

func TestRankFallsBackPerCandidate(t *testing.T) {
	center := geo.Coordinate{Latitude: 12.97, Longitude: 77.59}
	known := driverAt(1, "known", 12.98, 77.59)
	unknown := driverAt(2, "unknown", 12.99, 77.59) // estimator errors for this one

	est := &fakeEstimator{results: map[geo.Coordinate]maps.DistanceResult{
		{Latitude: 12.98, Longitude: 77.59}: {DistanceText: "1 km", DistanceMeters: 1000, DurationText: "10 mins", DurationSeconds: 600},
	}}

	ranked := Rank(context.Background(), est, []models.Driver{known, unknown}, center)
	require.Len(t, ranked, 2)

	// The failing candidate gets the standard per-candidate fallback and
	// sorts after the real 1 km estimate.
	assert.Equal(t, uint(1), ranked[0].DriverID)
	assert.Equal(t, uint(2), ranked[1].DriverID)
	assert.Equal(t, maps.CandidateFallback.DistanceMeters, ranked[1].Distance.Meters)
	assert.Equal(t, maps.CandidateFallback.DurationSeconds, ranked[1].Arrival.Seconds)
}

func TestRankPreservesDriverDetails(t *testing.T) {
	center := geo.Coordinate{Latitude: 0, Longitude: 0}
	d := driverAt(7, "Asha", 0.01, 0)
	d.Phone = "+919876543210"
	d.Vehicle = models.Vehicle{Type: "car", PlateNumber: "KA01AB1234"}
	d.RatingAverage = 4.8

	est := &fakeEstimator{results: map[geo.Coordinate]maps.DistanceResult{
		{Latitude: 0.01, Longitude: 0}: {DistanceText: "1.1 km", DistanceMeters: 1111, DurationText: "4 mins", DurationSeconds: 240},
	}}

	ranked := Rank(context.Background(), est, []models.Driver{d}, center)
	require.Len(t, ranked, 1)
	assert.Equal(t, "Asha", ranked[0].Name)
	assert.Equal(t, "+919876543210", ranked[0].Phone)
	assert.Equal(t, "KA01AB1234", ranked[0].Vehicle.PlateNumber)
	assert.Equal(t, 4.8, ranked[0].Rating)
	assert.Equal(t, 1.11, ranked[0].Distance.Km)
	assert.Equal(t, 4, ranked[0].Arrival.Minutes)
}
