package models

import "time"

// Account is the shared auth surface of User and Driver records. The
// role string from a token or route resolves to a concrete record once,
// at the request boundary; every auth flow after that point works
// against this interface.
type Account interface {
	AccountID() uint
	AccountRole() string
	DisplayName() string
	EmailAddress() string
	PhoneNumber() string
	PasswordHash() string
	SetPasswordHash(hash string)
	EmailVerified() bool
	MarkEmailVerified()
	OTP() (code string, expiry *time.Time)
	SetOTP(code string, expiry *time.Time)
}

func (u *User) AccountID() uint             { return u.ID }
func (u *User) AccountRole() string         { return "user" }
func (u *User) DisplayName() string         { return u.Name }
func (u *User) EmailAddress() string        { return u.Email }
func (u *User) PhoneNumber() string         { return u.Phone }
func (u *User) PasswordHash() string        { return u.Password }
func (u *User) SetPasswordHash(hash string) { u.Password = hash }
func (u *User) EmailVerified() bool         { return u.IsVerified }
func (u *User) MarkEmailVerified()          { u.IsVerified = true }
func (u *User) OTP() (string, *time.Time)   { return u.VerificationCode, u.OtpExpiry }

func (u *User) SetOTP(code string, expiry *time.Time) {
	u.VerificationCode = code
	u.OtpExpiry = expiry
}

func (d *Driver) AccountID() uint             { return d.ID }
func (d *Driver) AccountRole() string         { return "driver" }
func (d *Driver) DisplayName() string         { return d.Name }
func (d *Driver) EmailAddress() string        { return d.Email }
func (d *Driver) PhoneNumber() string         { return d.Phone }
func (d *Driver) PasswordHash() string        { return d.Password }
func (d *Driver) SetPasswordHash(hash string) { d.Password = hash }
func (d *Driver) EmailVerified() bool         { return d.IsVerified }
func (d *Driver) MarkEmailVerified()          { d.IsVerified = true }
func (d *Driver) OTP() (string, *time.Time)   { return d.VerificationCode, d.OtpExpiry }

func (d *Driver) SetOTP(code string, expiry *time.Time) {
	d.VerificationCode = code
	d.OtpExpiry = expiry
}
