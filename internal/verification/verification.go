// Package verification implements the driver onboarding state machine:
// pending -> under_review -> approved | rejected, with resubmission
// allowed from rejected and pending.
package verification

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"vezoh_backend/internal/models"
)

// EstimatedReviewWindow is informational only; nothing enforces it.
const EstimatedReviewWindow = "24-48 hours"

// RequiredDocumentFields are the six upload field names a submission must
// carry. Missing fields are reported together, not one at a time.
var RequiredDocumentFields = []string{
	"drivingLicenseFront",
	"drivingLicenseBack",
	"vehicleRegistrationImage",
	"insuranceImage",
	"aadharFront",
	"aadharBack",
}

var (
	// ErrEmailUnverified gates submission on a verified email address.
	ErrEmailUnverified = errors.New("please verify your email address first")
	// ErrAlreadyUnderReview rejects a second submission while one is pending review.
	ErrAlreadyUnderReview = errors.New("application is already under review")
	// ErrAlreadyApproved rejects submission for an approved driver.
	ErrAlreadyApproved = errors.New("driver is already approved")
	// ErrDriverNotFound means the authenticated driver record is gone.
	ErrDriverNotFound = errors.New("driver not found")
	// ErrPlateRequired rejects an empty plate number.
	ErrPlateRequired = errors.New("plate number is required")
)

// MissingDocumentsError lists every absent upload field.
type MissingDocumentsError struct {
	Fields []string
}

func (e *MissingDocumentsError) Error() string {
	return "missing required document images: " + strings.Join(e.Fields, ", ")
}

// DuplicatePlateError names the conflicting field for the client.
type DuplicatePlateError struct {
	PlateNumber string
}

func (e *DuplicatePlateError) Error() string {
	return fmt.Sprintf("vehicle with plate number %s is already registered", e.PlateNumber)
}

// MissingDocuments returns the required field names absent from the
// uploaded set.
func MissingDocuments(uploaded map[string]string) []string {
	var missing []string
	for _, field := range RequiredDocumentFields {
		if uploaded[field] == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// CheckSubmittable applies the submission gates to a loaded driver
// record: the email must be verified and the application must not
// already be under review or approved. Callers run it before touching
// uploads so a gated driver never leaves files behind.
func CheckSubmittable(d *models.Driver) error {
	if !d.IsVerified {
		return ErrEmailUnverified
	}
	switch d.VerificationStatus {
	case models.VerificationUnderReview:
		return ErrAlreadyUnderReview
	case models.VerificationApproved:
		return ErrAlreadyApproved
	}
	return nil
}

// uploadedDocumentFields projects the stored image paths back onto the
// upload field names so Submit can enforce completeness itself.
func uploadedDocumentFields(docs models.DriverDocuments) map[string]string {
	return map[string]string{
		"drivingLicenseFront":      docs.LicenseFront,
		"drivingLicenseBack":       docs.LicenseBack,
		"vehicleRegistrationImage": docs.RegistrationImage,
		"insuranceImage":           docs.InsuranceImage,
		"aadharFront":              docs.AadharFront,
		"aadharBack":               docs.AadharBack,
	}
}

// Submission is a complete verification application: the services the
// driver wants to offer, the vehicle details, and the stored document
// records (image paths already persisted by the upload handler).
type Submission struct {
	Services  []string
	Vehicle   models.Vehicle
	Documents models.DriverDocuments
}

// Submit runs the full submission transition for driverID and returns the
// updated record. The plate number is upper-cased before the uniqueness
// check; the partial unique index on the plate column backs that check
// against concurrent submissions, surfacing as a DuplicatePlateError.
func Submit(db *gorm.DB, driverID uint, sub Submission) (*models.Driver, error) {
	var driver models.Driver
	if err := db.First(&driver, driverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}

	if err := CheckSubmittable(&driver); err != nil {
		return nil, err
	}

	// The record must never reach under_review with a document slot
	// empty, no matter which handler built the submission.
	if missing := MissingDocuments(uploadedDocumentFields(sub.Documents)); len(missing) > 0 {
		return nil, &MissingDocumentsError{Fields: missing}
	}

	plate := strings.ToUpper(strings.TrimSpace(sub.Vehicle.PlateNumber))
	if plate == "" {
		return nil, ErrPlateRequired
	}
	sub.Vehicle.PlateNumber = plate

	// Uniqueness against all *other* drivers. The check-then-write race
	// is closed by the unique index; this early check just gives a clean
	// error on the common path.
	var count int64
	if err := db.Model(&models.Driver{}).
		Where("vehicle_plate_number = ? AND id <> ?", plate, driverID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &DuplicatePlateError{PlateNumber: plate}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		driver.Services = sub.Services
		driver.Vehicle = sub.Vehicle
		driver.Documents = sub.Documents
		driver.VerificationStatus = models.VerificationUnderReview
		driver.RegistrationStep = models.StepCompleted
		return tx.Save(&driver).Error
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, &DuplicatePlateError{PlateNumber: plate}
		}
		return nil, err
	}

	return &driver, nil
}

// Review applies an admin decision to a driver currently under review.
// Only "approved" and "rejected" are valid decisions.
func Review(db *gorm.DB, driverID uint, decision string) (*models.Driver, error) {
	if decision != models.VerificationApproved && decision != models.VerificationRejected {
		return nil, fmt.Errorf("invalid review decision %q", decision)
	}

	var driver models.Driver
	if err := db.First(&driver, driverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	if driver.VerificationStatus != models.VerificationUnderReview {
		return nil, fmt.Errorf("driver is not under review (status %s)", driver.VerificationStatus)
	}

	if err := db.Model(&driver).Update("verification_status", decision).Error; err != nil {
		return nil, err
	}
	driver.VerificationStatus = decision
	return &driver, nil
}

// NextStep projects (registrationStep, verificationStatus) onto the
// action the driver app should show next. Read-only; not a transition.
func NextStep(registrationStep, verificationStatus string) string {
	switch verificationStatus {
	case models.VerificationApproved:
		return "registration_complete"
	case models.VerificationRejected:
		return "resubmit_application"
	case models.VerificationUnderReview:
		return "wait_for_approval"
	}

	switch registrationStep {
	case models.StepBasicInfo, models.StepServiceSelection:
		return "submit_for_verification"
	case models.StepCompleted:
		return "wait_for_approval"
	default:
		return "submit_for_verification"
	}
}
