package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	delhi := Coordinate{Latitude: 28.6139, Longitude: 77.2090}
	mumbai := Coordinate{Latitude: 19.0760, Longitude: 72.8777}

	assert.Equal(t, 0.0, HaversineKm(delhi, delhi))
	assert.InDelta(t, 1150, HaversineKm(delhi, mumbai), 25)

	// Distance is symmetric.
	assert.Equal(t, HaversineKm(delhi, mumbai), HaversineKm(mumbai, delhi))

	// One degree of longitude at the equator.
	a := Coordinate{Latitude: 0, Longitude: 0}
	b := Coordinate{Latitude: 0, Longitude: 1}
	assert.InDelta(t, 111.19, HaversineKm(a, b), 0.01)
}

func TestHaversineMeters(t *testing.T) {
	a := Coordinate{Latitude: 12.9716, Longitude: 77.5946}
	b := Coordinate{Latitude: 12.9816, Longitude: 77.5946}
	assert.Equal(t, HaversineKm(a, b)*1000, HaversineMeters(a, b))
}

func TestCoordinateValid(t *testing.T) {
	assert.True(t, Coordinate{Latitude: 28.6, Longitude: 77.2}.Valid())
	assert.True(t, Coordinate{Latitude: -90, Longitude: 180}.Valid())
	assert.False(t, Coordinate{Latitude: 91, Longitude: 0}.Valid())
	assert.False(t, Coordinate{Latitude: 0, Longitude: -181}.Valid())
}

func TestValidateLocation(t *testing.T) {
	valid := Location{
		Address:     "MG Road, Bengaluru",
		Coordinates: Coordinate{Latitude: 12.9716, Longitude: 77.5946},
	}
	assert.NoError(t, ValidateLocation("pickup", valid))

	tests := []struct {
		name string
		loc  Location
	}{
		{"empty address", Location{Coordinates: valid.Coordinates}},
		{"numeric address", Location{Address: "12345", Coordinates: valid.Coordinates}},
		{"missing coordinates", Location{Address: "MG Road"}},
		{"latitude out of range", Location{Address: "MG Road", Coordinates: Coordinate{Latitude: 95, Longitude: 77}}},
		{"longitude out of range", Location{Address: "MG Road", Coordinates: Coordinate{Latitude: 12, Longitude: 190}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLocation("pickup", tt.loc)
			assert.Error(t, err)

			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.Equal(t, "pickup", verr.Field)
		})
	}
}

func TestValidateLocationNamesTheField(t *testing.T) {
	err := ValidateLocation("destination", Location{})
	assert.EqualError(t, err, "destination address is required")
}
