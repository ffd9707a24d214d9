// internal/models/driver.go
package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Driver verification lifecycle. A driver only leaves "under_review"
// through an admin decision or the auto-approval sweep.
const (
	VerificationPending     = "pending"
	VerificationUnderReview = "under_review"
	VerificationApproved    = "approved"
	VerificationRejected    = "rejected"
)

// Registration progress, separate from the verification lifecycle.
const (
	StepBasicInfo        = "basic_info"
	StepServiceSelection = "service_selection"
	StepCompleted        = "completed"
)

// Operational status values reported by the driver app.
const (
	StatusOnline   = "online"
	StatusOffline  = "offline"
	StatusBusy     = "busy"
	StatusInactive = "inactive"
)

type Driver struct {
	gorm.Model
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	Phone        string `json:"phone" gorm:"uniqueIndex;not null"`
	Password     string `json:"-"`
	ProfileImage string `json:"profile_image"`

	IsVerified       bool       `json:"is_verified" gorm:"default:false"`
	VerificationCode string     `json:"-"`
	OtpExpiry        *time.Time `json:"-"`

	// Services the driver offers: "ride", "delivery", "freight".
	Services pq.StringArray `json:"services" gorm:"type:text[]"`

	Vehicle   Vehicle         `json:"vehicle" gorm:"embedded;embeddedPrefix:vehicle_"`
	Documents DriverDocuments `json:"documents" gorm:"embedded;embeddedPrefix:doc_"`

	// Last known location, fed by the REST status update and the
	// WebSocket location feed. The matcher treats a driver without
	// LocationUpdatedAt as having no recorded location.
	Latitude          float64    `json:"latitude"`
	Longitude         float64    `json:"longitude"`
	LocationAddress   string     `json:"location_address"`
	LocationUpdatedAt *time.Time `json:"location_updated_at"`

	Status            string `json:"status" gorm:"default:offline;index"`
	IsAvailable       bool   `json:"is_available" gorm:"default:true"`
	WorkingHoursStart string `json:"working_hours_start"` // "09:00"
	WorkingHoursEnd   string `json:"working_hours_end"`   // "22:00"

	RatingAverage float64 `json:"rating_average" gorm:"default:5.0"`
	RatingCount   int     `json:"rating_count" gorm:"default:0"`

	VerificationStatus string `json:"verification_status" gorm:"default:pending;index"`
	RegistrationStep   string `json:"registration_step" gorm:"default:basic_info"`
}

// HasLocation reports whether the driver ever sent a location update.
func (d *Driver) HasLocation() bool {
	return d.LocationUpdatedAt != nil
}

// OffersService reports whether the driver offers the given service type.
func (d *Driver) OffersService(serviceType string) bool {
	for _, s := range d.Services {
		if s == serviceType {
			return true
		}
	}
	return false
}
