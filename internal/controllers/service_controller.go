package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"vezoh_backend/internal/config"
	"vezoh_backend/internal/models"
)

// ListServices returns the active catalog entries in display order.
func ListServices(c *gin.Context) {
	var services []models.Service
	if err := config.DB.
		Where("active = ?", true).
		Order("sort_order asc").
		Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not list services"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(services), "data": services})
}

// GetService returns one catalog entry by its public id ("ride",
// "delivery", "freight").
func GetService(c *gin.Context) {
	var service models.Service
	if err := config.DB.Where("service_id = ?", c.Param("serviceId")).First(&service).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Service not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": service})
}

// SeedServices inserts the default catalog if it is missing. Existing
// rows are left untouched so ops can edit pricing in place.
func SeedServices(db *gorm.DB) {
	defaults := []models.Service{
		{
			ServiceID:     "ride",
			Name:          "Ride",
			Description:   "Quick rides across the city",
			Icon:          "ride",
			BasePrice:     50,
			PricePerKm:    10,
			VehicleTypes:  pq.StringArray{"bike", "auto", "car"},
			Features:      pq.StringArray{"live_tracking", "cash_payment"},
			Active:        true,
			EstimatedTime: "5-10 mins",
			MaxDistanceKm: 50,
			SortOrder:     1,
		},
		{
			ServiceID:     "delivery",
			Name:          "Delivery",
			Description:   "Parcels and packages, door to door",
			Icon:          "delivery",
			BasePrice:     40,
			PricePerKm:    8,
			VehicleTypes:  pq.StringArray{"bike", "auto"},
			Features:      pq.StringArray{"live_tracking", "proof_of_delivery"},
			Active:        true,
			EstimatedTime: "10-20 mins",
			MaxDistanceKm: 30,
			SortOrder:     2,
		},
		{
			ServiceID:     "freight",
			Name:          "Freight",
			Description:   "Trucks for heavy goods and moves",
			Icon:          "freight",
			BasePrice:     200,
			PricePerKm:    25,
			VehicleTypes:  pq.StringArray{"truck"},
			Features:      pq.StringArray{"live_tracking", "loading_help"},
			Active:        true,
			EstimatedTime: "30-60 mins",
			MaxDistanceKm: 100,
			SortOrder:     3,
		},
	}

	for _, svc := range defaults {
		if err := db.Where("service_id = ?", svc.ServiceID).FirstOrCreate(&svc).Error; err != nil {
			logrus.WithError(err).WithField("service_id", svc.ServiceID).Error("Failed to seed service")
		}
	}
}
