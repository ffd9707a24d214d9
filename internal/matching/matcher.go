// Package matching selects and ranks nearby drivers for a rider request.
package matching

import (
	"context"
	"math"
	"sort"

	"gorm.io/gorm"

	"vezoh_backend/internal/geo"
	"vezoh_backend/internal/maps"
	"vezoh_backend/internal/models"
)

// MaxCandidates caps how many drivers a single search returns.
const MaxCandidates = 10

// Candidate is one eligible driver with the provider-reported distance
// and arrival estimate attached.
type Candidate struct {
	DriverID uint             `json:"driver_id"`
	Name     string           `json:"name"`
	Phone    string           `json:"phone"`
	Vehicle  models.Vehicle   `json:"vehicle"`
	Location geo.Coordinate   `json:"location"`
	Rating   float64          `json:"rating"`
	Distance CandidateMetric  `json:"distance"`
	Arrival  CandidateArrival `json:"estimated_arrival"`
}

type CandidateMetric struct {
	Text   string  `json:"text"`
	Meters int     `json:"value"`
	Km     float64 `json:"km"`
}

type CandidateArrival struct {
	Text    string `json:"text"`
	Seconds int    `json:"value"`
	Minutes int    `json:"minutes"`
}

// Query holds the rider's search parameters.
type Query struct {
	Center       geo.Coordinate
	ServiceType  string
	VehicleType  string // optional; empty matches any vehicle
	RadiusMeters float64
}

// Matcher finds eligible online drivers near a point.
type Matcher struct {
	DB        *gorm.DB
	Estimator maps.DistanceEstimator
}

func NewMatcher(db *gorm.DB, estimator maps.DistanceEstimator) *Matcher {
	return &Matcher{DB: db, Estimator: estimator}
}

// FindNearby returns up to MaxCandidates drivers ordered by the
// provider-reported driving distance. Estimator failures fall back per
// candidate, so matching never fails because the provider is down.
func (m *Matcher) FindNearby(ctx context.Context, q Query) ([]Candidate, error) {
	drivers, err := m.eligibleDrivers(q)
	if err != nil {
		return nil, err
	}

	within := FilterByRadius(drivers, q.Center, q.RadiusMeters)
	if len(within) > MaxCandidates {
		within = within[:MaxCandidates]
	}
	return Rank(ctx, m.Estimator, within, q.Center), nil
}

// eligibleDrivers applies the non-spatial filters in SQL: a recorded
// location, online status, availability and the requested service type
// (plus vehicle type when given).
func (m *Matcher) eligibleDrivers(q Query) ([]models.Driver, error) {
	tx := m.DB.
		Where("location_updated_at IS NOT NULL").
		Where("status = ?", models.StatusOnline).
		Where("is_available = ?", true).
		Where("? = ANY(services)", q.ServiceType)
	if q.VehicleType != "" {
		tx = tx.Where("vehicle_type = ?", q.VehicleType)
	}

	var drivers []models.Driver
	if err := tx.Find(&drivers).Error; err != nil {
		return nil, err
	}
	return drivers, nil
}

// FilterByRadius keeps drivers whose great-circle distance from center is
// within radiusMeters, preserving input order.
func FilterByRadius(drivers []models.Driver, center geo.Coordinate, radiusMeters float64) []models.Driver {
	within := make([]models.Driver, 0, len(drivers))
	for _, d := range drivers {
		loc := geo.Coordinate{Latitude: d.Latitude, Longitude: d.Longitude}
		if geo.HaversineMeters(loc, center) <= radiusMeters {
			within = append(within, d)
		}
	}
	return within
}

// Rank attaches a driving distance/ETA to each driver and sorts ascending
// by the estimator's distance value. The sort is stable: ties keep the
// incoming order.
func Rank(ctx context.Context, est maps.DistanceEstimator, drivers []models.Driver, center geo.Coordinate) []Candidate {
	candidates := make([]Candidate, 0, len(drivers))
	for _, d := range drivers {
		loc := geo.Coordinate{Latitude: d.Latitude, Longitude: d.Longitude}
		res := maps.EstimateOrFallback(ctx, est, loc, center, "driving", maps.CandidateFallback)

		candidates = append(candidates, Candidate{
			DriverID: d.ID,
			Name:     d.Name,
			Phone:    d.Phone,
			Vehicle:  d.Vehicle,
			Location: loc,
			Rating:   d.RatingAverage,
			Distance: CandidateMetric{
				Text:   res.DistanceText,
				Meters: res.DistanceMeters,
				Km:     math.Round(float64(res.DistanceMeters)/10) / 100,
			},
			Arrival: CandidateArrival{
				Text:    res.DurationText,
				Seconds: res.DurationSeconds,
				Minutes: int(math.Ceil(float64(res.DurationSeconds) / 60)),
			},
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Distance.Meters < candidates[j].Distance.Meters
	})
	return candidates
}
