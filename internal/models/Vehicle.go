// internal/models/vehicle.go
package models

import "time"

// Vehicle is embedded into Driver. PlateNumber uniqueness is enforced by a
// partial unique index created in config.InitDB (empty plates are allowed
// while a driver has not submitted for verification yet).
type Vehicle struct {
	Type              string `json:"type"` // "bike", "auto", "car", "truck"
	Make              string `json:"make"`
	VehicleModel      string `json:"model" gorm:"column:model"`
	Year              int    `json:"year"`
	Color             string `json:"color"`
	PlateNumber       string `json:"plate_number"`
	PassengerCapacity int    `json:"passenger_capacity"`
	WeightCapacity    int    `json:"weight_capacity"` // in kg
}

// DriverDocuments groups the four required document records. Image fields
// hold stored upload paths; each record carries its own verification flag
// so admins can approve documents independently.
type DriverDocuments struct {
	LicenseNumber   string     `json:"driving_license_number"`
	LicenseFront    string     `json:"driving_license_front"`
	LicenseBack     string     `json:"driving_license_back"`
	LicenseExpiry   *time.Time `json:"driving_license_expiry"`
	LicenseVerified bool       `json:"driving_license_verified" gorm:"default:false"`

	RegistrationNumber   string     `json:"vehicle_registration_number"`
	RegistrationImage    string     `json:"vehicle_registration_image"`
	RegistrationExpiry   *time.Time `json:"vehicle_registration_expiry"`
	RegistrationVerified bool       `json:"vehicle_registration_verified" gorm:"default:false"`

	InsuranceNumber   string     `json:"insurance_number"`
	InsuranceImage    string     `json:"insurance_image"`
	InsuranceExpiry   *time.Time `json:"insurance_expiry"`
	InsuranceVerified bool       `json:"insurance_verified" gorm:"default:false"`

	AadharNumber   string `json:"aadhar_number"`
	AadharFront    string `json:"aadhar_front"`
	AadharBack     string `json:"aadhar_back"`
	AadharVerified bool   `json:"aadhar_verified" gorm:"default:false"`
}
