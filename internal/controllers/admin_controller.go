package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"vezoh_backend/internal/config"
	"vezoh_backend/internal/models"
	"vezoh_backend/internal/verification"
)

// ListDriversUnderReview returns the admin review queue, oldest
// submission first.
func ListDriversUnderReview(c *gin.Context) {
	var drivers []models.Driver
	if err := config.DB.
		Where("verification_status = ?", models.VerificationUnderReview).
		Order("updated_at asc").
		Find(&drivers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not list drivers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(drivers), "data": drivers})
}

// GetDriverApplication returns one driver's full application for review.
func GetDriverApplication(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid driver id"})
		return
	}

	var driver models.Driver
	if err := config.DB.First(&driver, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Driver not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      driver,
		"next_step": verification.NextStep(driver.RegistrationStep, driver.VerificationStatus),
	})
}

type reviewInput struct {
	Decision string `json:"decision" binding:"required"` // "approved" or "rejected"
	Reason   string `json:"reason"`
}

// ReviewDriver applies an approve/reject decision to a driver under
// review.
func ReviewDriver(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid driver id"})
		return
	}

	var input reviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	driver, err := verification.Review(config.DB, uint(id), input.Decision)
	if err != nil {
		if errors.Is(err, verification.ErrDriverNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	logrus.WithFields(logrus.Fields{
		"driver_id": driver.ID,
		"decision":  input.Decision,
		"reason":    input.Reason,
	}).Info("Driver application reviewed")

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Driver " + input.Decision,
		"data":      driver,
		"next_step": verification.NextStep(driver.RegistrationStep, driver.VerificationStatus),
	})
}
