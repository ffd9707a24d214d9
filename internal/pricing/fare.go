// Package pricing implements the fare tables. Everything here is pure:
// same inputs, same fare.
package pricing

import "math"

// Defaults used when a (serviceType, vehicleType) combination is not in
// the rate tables.
const (
	DefaultBaseFare  = 50
	DefaultPerKmRate = 10
)

var baseFares = map[string]map[string]float64{
	"ride":     {"bike": 25, "auto": 35, "car": 50},
	"delivery": {"bike": 20, "auto": 30, "car": 40},
	"freight":  {"truck": 100},
}

var perKmRates = map[string]map[string]float64{
	"ride":     {"bike": 8, "auto": 12, "car": 15},
	"delivery": {"bike": 6, "auto": 10, "car": 12},
	"freight":  {"truck": 25},
}

// Fare is the simple breakdown used when quoting a ride request.
type Fare struct {
	Base         float64 `json:"base"`
	DistanceFare float64 `json:"distance_fare"`
	Total        float64 `json:"total"`
}

// Price quotes a trip of distanceKm for the given service and vehicle
// type. Unknown combinations fall back to the documented defaults instead
// of erroring. The total is rounded half-up to whole currency units once,
// after the distance multiplication.
func Price(distanceKm float64, serviceType, vehicleType string) Fare {
	base := lookup(baseFares, serviceType, vehicleType, DefaultBaseFare)
	rate := lookup(perKmRates, serviceType, vehicleType, DefaultPerKmRate)

	distanceFare := distanceKm * rate
	return Fare{
		Base:         base,
		DistanceFare: math.Round(distanceFare),
		Total:        math.Round(base + distanceFare),
	}
}

// DetailedFare is the catalog-style breakdown with service fee and taxes.
type DetailedFare struct {
	BaseFare     float64 `json:"base_fare"`
	DistanceFare float64 `json:"distance_fare"`
	ServiceFee   float64 `json:"service_fee"`
	Taxes        float64 `json:"taxes"`
	Total        float64 `json:"total"`
}

// PriceDetailed adds the 10% service fee and 5% tax on top of the base
// fare computation.
func PriceDetailed(distanceKm float64, serviceType, vehicleType string) DetailedFare {
	base := lookup(baseFares, serviceType, vehicleType, DefaultBaseFare)
	rate := lookup(perKmRates, serviceType, vehicleType, DefaultPerKmRate)

	distanceFare := distanceKm * rate
	serviceFee := math.Round((base + distanceFare) * 0.10)
	taxes := math.Round((base + distanceFare + serviceFee) * 0.05)

	return DetailedFare{
		BaseFare:     base,
		DistanceFare: math.Round(distanceFare),
		ServiceFee:   serviceFee,
		Taxes:        taxes,
		Total:        math.Round(base + distanceFare + serviceFee + taxes),
	}
}

// Ride-request quoting uses flat per-vehicle constants rather than the
// service tables above.
var (
	rideBaseByVehicle  = map[string]float64{"bike": 20, "auto": 30, "car": 50}
	ridePerKmByVehicle = map[string]float64{"bike": 8, "auto": 12, "car": 15}
)

// RideBaseFare returns the flat base fare for a vehicle type (50 for
// anything not in the table, e.g. truck).
func RideBaseFare(vehicleType string) float64 {
	if base, ok := rideBaseByVehicle[vehicleType]; ok {
		return base
	}
	return 50
}

// QuoteRide prices a ride request for the given vehicle type.
func QuoteRide(distanceKm float64, vehicleType string) Fare {
	base := RideBaseFare(vehicleType)
	rate, ok := ridePerKmByVehicle[vehicleType]
	if !ok {
		rate = 15
	}
	distanceFare := distanceKm * rate
	return Fare{
		Base:         base,
		DistanceFare: math.Round(distanceFare),
		Total:        math.Round(base + distanceFare),
	}
}

func lookup(table map[string]map[string]float64, serviceType, vehicleType string, fallback float64) float64 {
	if byVehicle, ok := table[serviceType]; ok {
		if v, ok := byVehicle[vehicleType]; ok {
			return v
		}
	}
	return fallback
}
