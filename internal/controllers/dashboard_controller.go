package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"vezoh_backend/internal/config"
	"vezoh_backend/internal/geo"
	"vezoh_backend/internal/helpers"
	"vezoh_backend/internal/maps"
	"vezoh_backend/internal/matching"
	"vezoh_backend/internal/middleware"
	"vezoh_backend/internal/models"
	"vezoh_backend/internal/pricing"
)

// DefaultSearchRadiusMeters bounds the nearby-driver search when the
// client does not pass a radius.
const DefaultSearchRadiusMeters = 5000

// DashboardController serves the rider-facing search, estimate and ride
// endpoints. The maps client and matcher are injected at startup.
type DashboardController struct {
	Maps    *maps.Client
	Matcher *matching.Matcher
}

func NewDashboardController(mapsClient *maps.Client, matcher *matching.Matcher) *DashboardController {
	return &DashboardController{Maps: mapsClient, Matcher: matcher}
}

// NearbyDrivers returns up to ten online drivers around a point, ordered
// by driving distance.
func (d *DashboardController) NearbyDrivers(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("latitude"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("longitude"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "latitude and longitude are required"})
		return
	}

	center := geo.Coordinate{Latitude: lat, Longitude: lng}
	if !center.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid coordinates"})
		return
	}

	radius := float64(DefaultSearchRadiusMeters)
	if raw := c.Query("radius"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			radius = parsed
		}
	}

	serviceType := c.DefaultQuery("service_type", "ride")
	if !allowedServices[serviceType] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid service type"})
		return
	}

	candidates, err := d.Matcher.FindNearby(c.Request.Context(), matching.Query{
		Center:       center,
		ServiceType:  serviceType,
		VehicleType:  c.Query("vehicle_type"),
		RadiusMeters: radius,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not search for drivers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"count":         len(candidates),
		"radius_meters": radius,
		"data":          candidates,
	})
}

type pointsInput struct {
	Origin      geo.Coordinate `json:"origin" binding:"required"`
	Destination geo.Coordinate `json:"destination" binding:"required"`
	Mode        string         `json:"mode"`
}

// Distance returns the driving distance and duration between two points.
// Provider failures degrade to the standard fallback estimate.
func (d *DashboardController) Distance(c *gin.Context) {
	var input pointsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if !input.Origin.Valid() || !input.Destination.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid coordinates"})
		return
	}
	mode := input.Mode
	if mode == "" {
		mode = "driving"
	}

	res, err := d.Maps.Distance(c.Request.Context(), input.Origin, input.Destination, mode)
	if err != nil {
		fallback := maps.RideFallback
		c.JSON(http.StatusOK, gin.H{"success": true, "estimated": true, "data": fallback})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "estimated": false, "data": res})
}

// Geocode resolves an address to coordinates, or coordinates to an
// address when latlng is given.
func (d *DashboardController) Geocode(c *gin.Context) {
	if address := c.Query("address"); address != "" {
		res, err := d.Maps.Geocode(c.Request.Context(), address)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Could not resolve address"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": res})
		return
	}

	lat, latErr := strconv.ParseFloat(c.Query("latitude"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("longitude"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "address or latitude/longitude is required"})
		return
	}

	res, err := d.Maps.ReverseGeocode(c.Request.Context(), geo.Coordinate{Latitude: lat, Longitude: lng})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Could not resolve coordinates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": res})
}

// Autocomplete returns place predictions for a partial address input.
func (d *DashboardController) Autocomplete(c *gin.Context) {
	input := c.Query("input")
	if len(input) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "input must be at least 2 characters"})
		return
	}

	var near *geo.Coordinate
	lat, latErr := strconv.ParseFloat(c.Query("latitude"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("longitude"), 64)
	if latErr == nil && lngErr == nil {
		near = &geo.Coordinate{Latitude: lat, Longitude: lng}
	}

	suggestions, err := d.Maps.Autocomplete(c.Request.Context(), input, near)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "Could not fetch suggestions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(suggestions), "data": suggestions})
}

type fareEstimateInput struct {
	Pickup      geo.Location `json:"pickup" binding:"required"`
	Destination geo.Location `json:"destination" binding:"required"`
	ServiceType string       `json:"service_type"`
	VehicleType string       `json:"vehicle_type" binding:"required"`
}

// FareEstimate quotes a trip with the full breakdown: base fare,
// distance fare, service fee and taxes.
func (d *DashboardController) FareEstimate(c *gin.Context) {
	var input fareEstimateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if err := geo.ValidateLocation("pickup", input.Pickup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if err := geo.ValidateLocation("destination", input.Destination); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	serviceType := input.ServiceType
	if serviceType == "" {
		serviceType = "ride"
	}

	est := maps.EstimateOrFallback(c.Request.Context(), d.Maps,
		input.Pickup.Coordinates, input.Destination.Coordinates, "driving", maps.RideFallback)
	distanceKm := float64(est.DistanceMeters) / 1000

	fare := pricing.PriceDetailed(distanceKm, serviceType, input.VehicleType)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"distance": est,
			"fare":     fare,
		},
	})
}

type rideRequestInput struct {
	Pickup        geo.Location `json:"pickup" binding:"required"`
	Destination   geo.Location `json:"destination" binding:"required"`
	ServiceType   string       `json:"service_type"`
	VehicleType   string       `json:"vehicle_type" binding:"required"`
	Seats         int          `json:"seats"`
	PaymentMethod string       `json:"payment_method"`
	OfferedFare   float64      `json:"offered_fare"`
}

// RequestRide creates a ride in the "requested" state with a fare quote
// attached. The provider estimate degrades to the standard fallback so
// a request never fails because the mapping provider is down.
func (d *DashboardController) RequestRide(c *gin.Context) {
	var input rideRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if err := geo.ValidateLocation("pickup", input.Pickup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if err := geo.ValidateLocation("destination", input.Destination); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	serviceType := input.ServiceType
	if serviceType == "" {
		serviceType = "ride"
	}
	if !allowedServices[serviceType] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid service type"})
		return
	}
	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	est := maps.EstimateOrFallback(c.Request.Context(), d.Maps,
		input.Pickup.Coordinates, input.Destination.Coordinates, "driving", maps.RideFallback)
	distanceKm := float64(est.DistanceMeters) / 1000

	var fare pricing.Fare
	if serviceType == "ride" {
		fare = pricing.QuoteRide(distanceKm, input.VehicleType)
	} else {
		fare = pricing.Price(distanceKm, serviceType, input.VehicleType)
	}

	offered := fare.Total
	if input.OfferedFare > 0 {
		offered = input.OfferedFare
	}

	ride := models.Ride{
		BookingRef: helpers.GenerateBookingRef(),
		UserID:     middleware.AccountID(c),
		Pickup: models.RideLocation{
			Address:   input.Pickup.Address,
			Latitude:  input.Pickup.Coordinates.Latitude,
			Longitude: input.Pickup.Coordinates.Longitude,
		},
		Destination: models.RideLocation{
			Address:   input.Destination.Address,
			Latitude:  input.Destination.Coordinates.Latitude,
			Longitude: input.Destination.Coordinates.Longitude,
		},
		ServiceType:          serviceType,
		VehicleType:          input.VehicleType,
		Seats:                input.Seats,
		FareEstimated:        fare.Total,
		FareOffered:          offered,
		DistanceEstimatedKm:  math.Round(distanceKm*100) / 100,
		DistanceMeters:       est.DistanceMeters,
		DistanceText:         est.DistanceText,
		DurationEstimatedMin: int(math.Ceil(float64(est.DurationSeconds) / 60)),
		DurationSeconds:      est.DurationSeconds,
		DurationText:         est.DurationText,
		Status:               models.RideRequested,
		PaymentMethod:        paymentMethod,
		Timeline:             models.RideTimeline{RequestedAt: time.Now()},
	}

	if err := config.DB.Create(&ride).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not create ride request"})
		return
	}

	logrus.WithFields(logrus.Fields{
		"booking_ref":  ride.BookingRef,
		"user_id":      ride.UserID,
		"service_type": ride.ServiceType,
		"vehicle_type": ride.VehicleType,
		"fare":         ride.FareEstimated,
	}).Info("Ride requested")

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Ride requested. Looking for nearby drivers",
		"data":    ride,
	})
}

var activeRideStatuses = []string{
	models.RideRequested,
	models.RideAccepted,
	models.RideDriverAssigned,
	models.RidePickup,
	models.RideInProgress,
}

// ActiveRides lists the rider's rides that have not finished yet.
func (d *DashboardController) ActiveRides(c *gin.Context) {
	var rides []models.Ride
	if err := config.DB.
		Where("user_id = ? AND status IN ?", middleware.AccountID(c), activeRideStatuses).
		Order("created_at desc").
		Find(&rides).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not list rides"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(rides), "data": rides})
}

// GetRide returns one of the rider's rides by booking reference.
func (d *DashboardController) GetRide(c *gin.Context) {
	var ride models.Ride
	err := config.DB.
		Where("booking_ref = ? AND user_id = ?", c.Param("ref"), middleware.AccountID(c)).
		First(&ride).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Ride not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": ride})
}

// CancelRide cancels one of the rider's rides while it is still active.
func (d *DashboardController) CancelRide(c *gin.Context) {
	var ride models.Ride
	err := config.DB.
		Where("booking_ref = ? AND user_id = ?", c.Param("ref"), middleware.AccountID(c)).
		First(&ride).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Ride not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	switch ride.Status {
	case models.RideCompleted, models.RideCancelled:
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Ride is already " + ride.Status})
		return
	}

	now := time.Now()
	ride.Status = models.RideCancelled
	ride.Timeline.CancelledAt = &now
	if err := config.DB.Save(&ride).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not cancel ride"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Ride cancelled", "data": ride})
}
