package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vezoh_backend/internal/models"
)

func TestNextStep(t *testing.T) {
	tests := []struct {
		name               string
		registrationStep   string
		verificationStatus string
		want               string
	}{
		{"approved wins over any step", models.StepBasicInfo, models.VerificationApproved, "registration_complete"},
		{"rejected asks for resubmission", models.StepCompleted, models.VerificationRejected, "resubmit_application"},
		{"under review waits", models.StepCompleted, models.VerificationUnderReview, "wait_for_approval"},
		{"pending at basic info", models.StepBasicInfo, models.VerificationPending, "submit_for_verification"},
		{"pending at service selection", models.StepServiceSelection, models.VerificationPending, "submit_for_verification"},
		{"pending but completed step", models.StepCompleted, models.VerificationPending, "wait_for_approval"},
		{"unknown step defaults to submission", "garbage", models.VerificationPending, "submit_for_verification"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStep(tt.registrationStep, tt.verificationStatus))
		})
	}
}

func TestMissingDocuments(t *testing.T) {
	assert.ElementsMatch(t, RequiredDocumentFields, MissingDocuments(nil))

	uploaded := map[string]string{
		"drivingLicenseFront":      "/uploads/1/front.jpg",
		"drivingLicenseBack":       "/uploads/1/back.jpg",
		"vehicleRegistrationImage": "/uploads/1/reg.jpg",
		"insuranceImage":           "/uploads/1/ins.jpg",
		"aadharFront":              "/uploads/1/af.jpg",
		"aadharBack":               "/uploads/1/ab.jpg",
	}
	assert.Empty(t, MissingDocuments(uploaded))

	delete(uploaded, "insuranceImage")
	uploaded["aadharBack"] = ""
	assert.ElementsMatch(t, []string{"insuranceImage", "aadharBack"}, MissingDocuments(uploaded))
}

func TestCheckSubmittable(t *testing.T) {
	tests := []struct {
		name    string
		driver  models.Driver
		wantErr error
	}{
		{"unverified email is gated first", models.Driver{IsVerified: false, VerificationStatus: models.VerificationPending}, ErrEmailUnverified},
		{"unverified email gated even when approved", models.Driver{IsVerified: false, VerificationStatus: models.VerificationApproved}, ErrEmailUnverified},
		{"under review blocks resubmission", models.Driver{IsVerified: true, VerificationStatus: models.VerificationUnderReview}, ErrAlreadyUnderReview},
		{"approved blocks resubmission", models.Driver{IsVerified: true, VerificationStatus: models.VerificationApproved}, ErrAlreadyApproved},
		{"pending may submit", models.Driver{IsVerified: true, VerificationStatus: models.VerificationPending}, nil},
		{"rejected may resubmit", models.Driver{IsVerified: true, VerificationStatus: models.VerificationRejected}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSubmittable(&tt.driver)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestUploadedDocumentFields(t *testing.T) {
	docs := models.DriverDocuments{
		LicenseFront:      "/uploads/7/lf.jpg",
		LicenseBack:       "/uploads/7/lb.jpg",
		RegistrationImage: "/uploads/7/reg.jpg",
		InsuranceImage:    "/uploads/7/ins.jpg",
		AadharFront:       "/uploads/7/af.jpg",
		AadharBack:        "/uploads/7/ab.jpg",
	}
	assert.Empty(t, MissingDocuments(uploadedDocumentFields(docs)))

	// Every required field name must be covered by a document slot, so a
	// submission with an empty slot can never slip into under_review.
	docs.InsuranceImage = ""
	docs.AadharBack = ""
	assert.ElementsMatch(t,
		[]string{"insuranceImage", "aadharBack"},
		MissingDocuments(uploadedDocumentFields(docs)))

	assert.ElementsMatch(t, RequiredDocumentFields,
		MissingDocuments(uploadedDocumentFields(models.DriverDocuments{})))
}

func TestMissingDocumentsErrorMessage(t *testing.T) {
	err := &MissingDocumentsError{Fields: []string{"aadharFront", "aadharBack"}}
	assert.Equal(t, "missing required document images: aadharFront, aadharBack", err.Error())
}

func TestDuplicatePlateErrorMessage(t *testing.T) {
	err := &DuplicatePlateError{PlateNumber: "KA01AB1234"}
	assert.Contains(t, err.Error(), "KA01AB1234")
}
