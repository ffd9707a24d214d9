// internal/models/service.go
package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Service is a catalog entry describing a bookable service tier. Reference
// data: seeded at boot, read by the catalog endpoints and the fare
// breakdown that includes service fee and taxes.
type Service struct {
	gorm.Model
	ServiceID   string `json:"service_id" gorm:"uniqueIndex;not null"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	Icon        string `json:"icon"`

	BasePrice  float64 `json:"base_price"`
	PricePerKm float64 `json:"price_per_km"`

	VehicleTypes pq.StringArray `json:"vehicle_types" gorm:"type:text[]"`
	Features     pq.StringArray `json:"features" gorm:"type:text[]"`

	Active        bool   `json:"active" gorm:"default:true;index"`
	EstimatedTime string `json:"estimated_time" gorm:"default:5-10 mins"`
	MaxDistanceKm int    `json:"max_distance_km" gorm:"default:50"`
	SortOrder     int    `json:"sort_order" gorm:"default:0;index"`
}
