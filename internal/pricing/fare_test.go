package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceKnownCombinations(t *testing.T) {
	tests := []struct {
		name        string
		distanceKm  float64
		serviceType string
		vehicleType string
		wantBase    float64
		wantTotal   float64
	}{
		{"ride car", 10, "ride", "car", 50, 200},
		{"ride bike", 5, "ride", "bike", 25, 65},
		{"ride auto", 2, "ride", "auto", 35, 59},
		{"delivery bike", 3, "delivery", "bike", 20, 38},
		{"freight truck", 12, "freight", "truck", 100, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fare := Price(tt.distanceKm, tt.serviceType, tt.vehicleType)
			assert.Equal(t, tt.wantBase, fare.Base)
			assert.Equal(t, tt.wantTotal, fare.Total)
		})
	}
}

func TestPriceUnknownCombinationUsesDefaults(t *testing.T) {
	fare := Price(2, "ride", "truck")
	assert.Equal(t, float64(DefaultBaseFare), fare.Base)
	assert.Equal(t, float64(50+2*10), fare.Total)

	fare = Price(4, "unknown", "unknown")
	assert.Equal(t, float64(DefaultBaseFare), fare.Base)
	assert.Equal(t, float64(50+4*10), fare.Total)
}

func TestPriceRoundsTotalOnce(t *testing.T) {
	// 3.3 km delivery on a bike: 20 base + 19.8 distance = 39.8 -> 40.
	fare := Price(3.3, "delivery", "bike")
	assert.Equal(t, float64(40), fare.Total)
}

func TestPriceIsDeterministic(t *testing.T) {
	first := Price(7.77, "ride", "auto")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Price(7.77, "ride", "auto"))
	}
}

func TestQuoteRide(t *testing.T) {
	tests := []struct {
		vehicleType string
		distanceKm  float64
		wantBase    float64
		wantTotal   float64
	}{
		{"bike", 5, 20, 60},
		{"auto", 5, 30, 90},
		{"car", 5, 50, 125},
		{"truck", 2, 50, 80}, // falls back to 50 base, 15/km
	}

	for _, tt := range tests {
		t.Run(tt.vehicleType, func(t *testing.T) {
			fare := QuoteRide(tt.distanceKm, tt.vehicleType)
			assert.Equal(t, tt.wantBase, fare.Base)
			assert.Equal(t, tt.wantTotal, fare.Total)
		})
	}
}

func TestRideBaseFare(t *testing.T) {
	assert.Equal(t, float64(20), RideBaseFare("bike"))
	assert.Equal(t, float64(30), RideBaseFare("auto"))
	assert.Equal(t, float64(50), RideBaseFare("car"))
	assert.Equal(t, float64(50), RideBaseFare("spaceship"))
}

func TestPriceDetailedBreakdown(t *testing.T) {
	// 10 km ride in a car: 50 + 150 = 200, fee 20, taxes 11, total 231.
	fare := PriceDetailed(10, "ride", "car")
	assert.Equal(t, float64(50), fare.BaseFare)
	assert.Equal(t, float64(150), fare.DistanceFare)
	assert.Equal(t, float64(20), fare.ServiceFee)
	assert.Equal(t, float64(11), fare.Taxes)
	assert.Equal(t, float64(231), fare.Total)
}
