package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"vezoh_backend/internal/config"
	"vezoh_backend/internal/middleware"
	"vezoh_backend/internal/models"
	"vezoh_backend/internal/upload"
	"vezoh_backend/internal/verification"
)

var allowedServices = map[string]bool{
	"ride":     true,
	"delivery": true,
	"freight":  true,
}

// DriverController serves the onboarding submission and the driver app's
// status endpoints.
type DriverController struct {
	Uploads *upload.Store
}

func NewDriverController(uploads *upload.Store) *DriverController {
	return &DriverController{Uploads: uploads}
}

// SubmitForVerification takes the full onboarding application as one
// multipart request: selected services, vehicle details, document
// numbers and the six document images. The email and state gates run
// before anything touches the form so a gated driver gets the gate
// error and never leaves uploaded files behind. Missing images are
// reported together so the driver app can highlight every gap at once.
func (d *DriverController) SubmitForVerification(c *gin.Context) {
	driverID := middleware.AccountID(c)

	var driver models.Driver
	if err := config.DB.First(&driver, driverID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": verification.ErrDriverNotFound.Error()})
		return
	}
	if err := verification.CheckSubmittable(&driver); err != nil {
		status, msg := submissionErrorResponse(err)
		c.JSON(status, gin.H{"success": false, "message": msg})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid multipart form"})
		return
	}

	services := parseServices(c)
	if len(services) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "At least one service must be selected"})
		return
	}
	for _, s := range services {
		if !allowedServices[s] {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid service type: " + s})
			return
		}
	}

	var missing []string
	for _, field := range verification.RequiredDocumentFields {
		if len(form.File[field]) == 0 {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":           false,
			"message":           (&verification.MissingDocumentsError{Fields: missing}).Error(),
			"missing_documents": missing,
		})
		return
	}

	saved, err := d.Uploads.SaveDocuments(c, driverID, verification.RequiredDocumentFields)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	sub := verification.Submission{
		Services: services,
		Vehicle: models.Vehicle{
			Type:              c.PostForm("vehicleType"),
			Make:              c.PostForm("vehicleMake"),
			VehicleModel:      c.PostForm("vehicleModel"),
			Year:              atoiOrZero(c.PostForm("vehicleYear")),
			Color:             c.PostForm("vehicleColor"),
			PlateNumber:       c.PostForm("plateNumber"),
			PassengerCapacity: atoiOrZero(c.PostForm("passengerCapacity")),
			WeightCapacity:    atoiOrZero(c.PostForm("weightCapacity")),
		},
		Documents: models.DriverDocuments{
			LicenseNumber:      c.PostForm("licenseNumber"),
			LicenseFront:       saved["drivingLicenseFront"],
			LicenseBack:        saved["drivingLicenseBack"],
			LicenseExpiry:      parseDate(c.PostForm("licenseExpiry")),
			RegistrationNumber: c.PostForm("registrationNumber"),
			RegistrationImage:  saved["vehicleRegistrationImage"],
			RegistrationExpiry: parseDate(c.PostForm("registrationExpiry")),
			InsuranceNumber:    c.PostForm("insuranceNumber"),
			InsuranceImage:     saved["insuranceImage"],
			InsuranceExpiry:    parseDate(c.PostForm("insuranceExpiry")),
			AadharNumber:       c.PostForm("aadharNumber"),
			AadharFront:        saved["aadharFront"],
			AadharBack:         saved["aadharBack"],
		},
	}

	updated, err := verification.Submit(config.DB, driverID, sub)
	if err != nil {
		status, msg := submissionErrorResponse(err)
		c.JSON(status, gin.H{"success": false, "message": msg})
		return
	}

	logrus.WithFields(logrus.Fields{
		"driver_id": updated.ID,
		"services":  updated.Services,
		"plate":     updated.Vehicle.PlateNumber,
	}).Info("Driver submitted for verification")

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Application submitted for verification. You will be notified once it is reviewed",
		"estimated_review": verification.EstimatedReviewWindow,
		"next_step":        verification.NextStep(updated.RegistrationStep, updated.VerificationStatus),
		"data":             updated,
	})
}

func submissionErrorResponse(err error) (int, string) {
	var missingErr *verification.MissingDocumentsError
	var plateErr *verification.DuplicatePlateError
	switch {
	case errors.Is(err, verification.ErrDriverNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, verification.ErrEmailUnverified):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, verification.ErrAlreadyUnderReview),
		errors.Is(err, verification.ErrAlreadyApproved):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, verification.ErrPlateRequired):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &plateErr):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &missingErr):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "Could not submit application"
}

// GetVerificationStatus reports where the driver sits in the onboarding
// state machine and what the app should show next.
func (d *DriverController) GetVerificationStatus(c *gin.Context) {
	var driver models.Driver
	if err := config.DB.First(&driver, middleware.AccountID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Driver not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"verification_status": driver.VerificationStatus,
		"registration_step":   driver.RegistrationStep,
		"next_step":           verification.NextStep(driver.RegistrationStep, driver.VerificationStatus),
		"estimated_review":    verification.EstimatedReviewWindow,
	})
}

type statusUpdateInput struct {
	Status      string   `json:"status" binding:"required"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Address     string   `json:"address"`
	IsAvailable *bool    `json:"is_available"`
}

// UpdateStatus sets the driver's operational status and, when the
// payload carries coordinates, records a new location.
func (d *DriverController) UpdateStatus(c *gin.Context) {
	var input statusUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	switch input.Status {
	case models.StatusOnline, models.StatusOffline, models.StatusBusy, models.StatusInactive:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status"})
		return
	}

	var driver models.Driver
	if err := config.DB.First(&driver, middleware.AccountID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Driver not found"})
		return
	}

	if input.Status == models.StatusOnline && driver.VerificationStatus != models.VerificationApproved {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Only approved drivers can go online"})
		return
	}

	driver.Status = input.Status
	if input.IsAvailable != nil {
		driver.IsAvailable = *input.IsAvailable
	}

	if input.Latitude != nil && input.Longitude != nil {
		now := time.Now()
		driver.Latitude = *input.Latitude
		driver.Longitude = *input.Longitude
		driver.LocationAddress = input.Address
		driver.LocationUpdatedAt = &now

		ping := models.NewLocationPing(driver.ID, *input.Latitude, *input.Longitude, 0, 0, 0, "status_update")
		if err := config.DB.Create(&ping).Error; err != nil {
			logrus.WithError(err).WithField("driver_id", driver.ID).Warn("Failed to record location ping")
		}
	}

	if err := config.DB.Save(&driver).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not update status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status updated", "data": driver})
}

func parseServices(c *gin.Context) []string {
	raw := c.PostFormArray("services")
	if len(raw) == 1 && strings.Contains(raw[0], ",") {
		raw = strings.Split(raw[0], ",")
	}
	services := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			services = append(services, s)
		}
	}
	return services
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
