// internal/models/user.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a rider account. Email and phone are unique within the users
// table only; the same address may exist once more as a driver account.
type User struct {
	gorm.Model
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	Phone        string `json:"phone" gorm:"uniqueIndex;not null"`
	Password     string `json:"-"`
	ProfileImage string `json:"profile_image"`

	IsVerified       bool       `json:"is_verified" gorm:"default:false"`
	VerificationCode string     `json:"-"`
	OtpExpiry        *time.Time `json:"-"`

	Status string `json:"status" gorm:"default:active"` // "active", "inactive", "suspended"
}
