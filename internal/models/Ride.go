// internal/models/ride.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Ride lifecycle statuses.
const (
	RideRequested      = "requested"
	RideAccepted       = "accepted"
	RideDriverAssigned = "driver_assigned"
	RidePickup         = "pickup"
	RideInProgress     = "in_progress"
	RideCompleted      = "completed"
	RideCancelled      = "cancelled"
)

// RideLocation is a validated pickup or destination point.
type RideLocation struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RideTimeline records when each status transition happened. Only
// RequestedAt is set at creation; the rest are filled as the ride moves
// through its lifecycle.
type RideTimeline struct {
	RequestedAt      time.Time  `json:"requested"`
	AcceptedAt       *time.Time `json:"accepted"`
	DriverAssignedAt *time.Time `json:"driver_assigned"`
	PickupAt         *time.Time `json:"pickup"`
	StartedAt        *time.Time `json:"started"`
	CompletedAt      *time.Time `json:"completed"`
	CancelledAt      *time.Time `json:"cancelled"`
}

type Ride struct {
	gorm.Model
	BookingRef string `json:"booking_ref" gorm:"uniqueIndex"`

	UserID   uint  `json:"user_id" gorm:"index"`
	DriverID *uint `json:"driver_id" gorm:"index"` // nil until a driver is assigned

	Pickup      RideLocation `json:"pickup" gorm:"embedded;embeddedPrefix:pickup_"`
	Destination RideLocation `json:"destination" gorm:"embedded;embeddedPrefix:destination_"`

	ServiceType string `json:"service_type" gorm:"default:ride"` // "ride", "delivery", "freight"
	VehicleType string `json:"vehicle_type"`                     // "bike", "auto", "car", "truck"
	Seats       int    `json:"seats"`

	FareEstimated float64 `json:"fare_estimated"`
	FareOffered   float64 `json:"fare_offered"`
	FareFinal     float64 `json:"fare_final"`

	DistanceEstimatedKm float64 `json:"distance_estimated_km"`
	DistanceMeters      int     `json:"distance_meters"`
	DistanceText        string  `json:"distance_text"`
	DistanceActualKm    float64 `json:"distance_actual_km"`

	DurationEstimatedMin int    `json:"duration_estimated_min"`
	DurationSeconds      int    `json:"duration_seconds"`
	DurationText         string `json:"duration_text"`
	DurationActualMin    int    `json:"duration_actual_min"`

	Status        string `json:"status" gorm:"default:requested;index"`
	PaymentMethod string `json:"payment_method" gorm:"default:cash"`   // "cash", "card", "wallet"
	PaymentStatus string `json:"payment_status" gorm:"default:pending"` // "pending", "paid", "failed"

	Timeline RideTimeline `json:"timeline" gorm:"embedded;embeddedPrefix:ts_"`
}
