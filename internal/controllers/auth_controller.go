package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"vezoh_backend/internal/config"
	"vezoh_backend/internal/helpers"
	"vezoh_backend/internal/mailer"
	"vezoh_backend/internal/middleware"
	"vezoh_backend/internal/models"
	"vezoh_backend/internal/verification"
)

// AuthController serves registration, email verification and the
// password flows for both account types.
type AuthController struct {
	Mailer *mailer.Mailer
}

func NewAuthController(m *mailer.Mailer) *AuthController {
	return &AuthController{Mailer: m}
}

// accountForRole resolves a role string to an empty record of the right
// table. This is the only place the role string is branched on.
func accountForRole(role string) (models.Account, error) {
	switch role {
	case "user":
		return &models.User{}, nil
	case "driver":
		return &models.Driver{}, nil
	}
	return nil, fmt.Errorf("unknown account role %q", role)
}

type registerInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser creates a rider account and mails the verification OTP.
func (a *AuthController) RegisterUser(c *gin.Context) {
	a.register(c, "user")
}

// RegisterDriver creates a driver account. The driver stays in the
// "pending" verification state until the onboarding submission.
func (a *AuthController) RegisterDriver(c *gin.Context) {
	a.register(c, "driver")
}

func (a *AuthController) register(c *gin.Context, role string) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !helpers.IsValidEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please provide a valid email address"})
		return
	}
	if !helpers.IsValidPhone(input.Phone) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please provide a valid phone number"})
		return
	}
	phone := helpers.FormatPhoneNumber(input.Phone)
	if len(input.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password must be at least 6 characters long"})
		return
	}

	existing, _ := accountForRole(role)
	err := config.DB.Where("email = ? OR phone = ?", email, phone).First(existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "An account with this email or phone already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not hash password"})
		return
	}

	otp := helpers.GenerateOTP()
	expiry := time.Now().Add(config.OTPValidity())

	var account models.Account
	switch role {
	case "driver":
		account = &models.Driver{
			Name:             strings.TrimSpace(input.Name),
			Email:            email,
			Phone:            phone,
			Password:         string(hash),
			VerificationCode: otp,
			OtpExpiry:        &expiry,
		}
	default:
		account = &models.User{
			Name:             strings.TrimSpace(input.Name),
			Email:            email,
			Phone:            phone,
			Password:         string(hash),
			VerificationCode: otp,
			OtpExpiry:        &expiry,
		}
	}

	if err := config.DB.Create(account).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "An account with this email or phone already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not create account"})
		return
	}

	a.Mailer.SendVerificationOTP(email, otp, account.DisplayName())

	token, err := middleware.GenerateToken(account.AccountID(), role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": fmt.Sprintf("Registration successful. An OTP has been sent to %s", helpers.MaskEmail(email)),
		"token":   token,
		"data":    account,
	})
}

type otpInput struct {
	OTP string `json:"otp" binding:"required"`
}

type otpOutcome int

const (
	otpValid otpOutcome = iota
	otpMismatch
	otpExpired
)

// classifyOTP checks a submitted code against the stored one. A missing
// or non-matching code is a mismatch, so a consumed (cleared) code can
// never be replayed; a matching code past its expiry is expired.
func classifyOTP(stored string, expiry *time.Time, submitted string, now time.Time) otpOutcome {
	if stored == "" || stored != submitted {
		return otpMismatch
	}
	if expiry == nil || now.After(*expiry) {
		return otpExpired
	}
	return otpValid
}

type verifyDecision struct {
	status  int
	message string
	verify  bool // flip the verified flag
	clear   bool // clear the stored code and expiry
}

// decideEmailVerification maps one email-OTP attempt onto the response
// and the record mutations to apply. Re-verifying an already-verified
// account is a failure; expired codes are dead and get cleared.
func decideEmailVerification(verified bool, stored string, expiry *time.Time, submitted string, now time.Time) verifyDecision {
	if verified {
		return verifyDecision{status: http.StatusBadRequest, message: "Email is already verified"}
	}
	switch classifyOTP(stored, expiry, submitted, now) {
	case otpMismatch:
		return verifyDecision{status: http.StatusBadRequest, message: "Invalid OTP"}
	case otpExpired:
		return verifyDecision{status: http.StatusBadRequest, message: "OTP has expired. Please request a new one", clear: true}
	}
	return verifyDecision{status: http.StatusOK, message: "Email verified successfully", verify: true, clear: true}
}

// VerifyEmailOTP confirms the emailed code for the authenticated
// account. The account type comes from the token, not the request body.
func (a *AuthController) VerifyEmailOTP(c *gin.Context) {
	account, ok := a.loadAuthenticatedAccount(c)
	if !ok {
		return
	}

	var input otpInput
	if !account.EmailVerified() {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "OTP is required"})
			return
		}
	}

	code, expiry := account.OTP()
	decision := decideEmailVerification(account.EmailVerified(), code, expiry, input.OTP, time.Now())

	if decision.verify {
		account.MarkEmailVerified()
	}
	if decision.clear {
		account.SetOTP("", nil)
	}
	if decision.verify || decision.clear {
		if err := config.DB.Save(account).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not update account"})
			return
		}
	}

	if decision.status != http.StatusOK {
		c.JSON(decision.status, gin.H{"success": false, "message": decision.message})
		return
	}

	resp := gin.H{"success": true, "message": decision.message}
	if driver, isDriver := account.(*models.Driver); isDriver {
		resp["next_step"] = verification.NextStep(driver.RegistrationStep, driver.VerificationStatus)
	}
	c.JSON(http.StatusOK, resp)
}

// ResendEmailOTP issues a fresh code for an unverified account.
func (a *AuthController) ResendEmailOTP(c *gin.Context) {
	account, ok := a.loadAuthenticatedAccount(c)
	if !ok {
		return
	}

	if account.EmailVerified() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is already verified"})
		return
	}

	otp := helpers.GenerateOTP()
	expiry := time.Now().Add(config.OTPValidity())
	account.SetOTP(otp, &expiry)
	if err := config.DB.Save(account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not update account"})
		return
	}

	a.Mailer.SendVerificationOTP(account.EmailAddress(), otp, account.DisplayName())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("A new OTP has been sent to %s", helpers.MaskEmail(account.EmailAddress())),
	})
}

type loginInput struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

// LoginUser authenticates a rider by email.
func (a *AuthController) LoginUser(c *gin.Context) {
	a.login(c, "user")
}

// LoginDriver authenticates a driver by email or phone.
func (a *AuthController) LoginDriver(c *gin.Context) {
	a.login(c, "driver")
}

func (a *AuthController) login(c *gin.Context, role string) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if input.Email == "" && input.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email or phone is required"})
		return
	}

	account, _ := accountForRole(role)
	tx := config.DB
	if input.Email != "" {
		tx = tx.Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email)))
	} else {
		tx = tx.Where("phone = ?", helpers.FormatPhoneNumber(input.Phone))
	}
	if err := tx.First(account).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash()), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	token, err := middleware.GenerateToken(account.AccountID(), role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not generate token"})
		return
	}

	resp := gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"data":    account,
	}
	if driver, isDriver := account.(*models.Driver); isDriver {
		resp["next_step"] = verification.NextStep(driver.RegistrationStep, driver.VerificationStatus)
	}
	c.JSON(http.StatusOK, resp)
}

type forgotPasswordInput struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role"`
}

// ForgotPassword mails a password-reset OTP to the account's address.
func (a *AuthController) ForgotPassword(c *gin.Context) {
	var input forgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	role := input.Role
	if role == "" {
		role = "user"
	}

	account, err := accountForRole(role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid role"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := config.DB.Where("email = ?", email).First(account).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No account found with this email"})
		return
	}

	otp := helpers.GenerateOTP()
	expiry := time.Now().Add(config.OTPValidity())
	account.SetOTP(otp, &expiry)
	if err := config.DB.Save(account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not update account"})
		return
	}

	a.Mailer.SendPasswordResetOTP(email, otp, account.DisplayName())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("A password reset OTP has been sent to %s", helpers.MaskEmail(email)),
	})
}

type resetPasswordInput struct {
	Email       string `json:"email" binding:"required"`
	Role        string `json:"role"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPassword exchanges a valid reset OTP for a new password.
func (a *AuthController) ResetPassword(c *gin.Context) {
	var input resetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if len(input.NewPassword) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password must be at least 6 characters long"})
		return
	}
	role := input.Role
	if role == "" {
		role = "user"
	}

	account, err := accountForRole(role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid role"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := config.DB.Where("email = ?", email).First(account).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No account found with this email"})
		return
	}

	code, expiry := account.OTP()
	switch classifyOTP(code, expiry, input.OTP, time.Now()) {
	case otpMismatch:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid OTP"})
		return
	case otpExpired:
		account.SetOTP("", nil)
		config.DB.Save(account)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "OTP has expired. Please request a new one"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not hash password"})
		return
	}
	account.SetPasswordHash(string(hash))
	account.SetOTP("", nil)
	if err := config.DB.Save(account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not update account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully"})
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ChangePassword rotates the password for the authenticated account.
func (a *AuthController) ChangePassword(c *gin.Context) {
	account, ok := a.loadAuthenticatedAccount(c)
	if !ok {
		return
	}

	var input changePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if len(input.NewPassword) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password must be at least 6 characters long"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash()), []byte(input.CurrentPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Current password is incorrect"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not hash password"})
		return
	}
	account.SetPasswordHash(string(hash))
	if err := config.DB.Save(account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not update account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
}

// GetProfile returns the authenticated account.
func (a *AuthController) GetProfile(c *gin.Context) {
	account, ok := a.loadAuthenticatedAccount(c)
	if !ok {
		return
	}

	resp := gin.H{"success": true, "data": account}
	if driver, isDriver := account.(*models.Driver); isDriver {
		resp["next_step"] = verification.NextStep(driver.RegistrationStep, driver.VerificationStatus)
	}
	c.JSON(http.StatusOK, resp)
}

// Logout acknowledges the logout. Tokens are stateless; the client
// discards its copy.
func (a *AuthController) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// AdminLogin checks the configured admin credentials and issues an
// admin token for the review endpoints.
func (a *AuthController) AdminLogin(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	adminEmail := config.AdminEmail()
	adminPassword := config.AdminPassword()
	if adminEmail == "" || adminPassword == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Admin access is not configured"})
		return
	}
	if !strings.EqualFold(input.Email, adminEmail) || input.Password != adminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	token, err := middleware.GenerateToken(0, "admin")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful", "token": token})
}

// loadAuthenticatedAccount resolves the token's role and id to a stored
// record, writing the error response itself on failure.
func (a *AuthController) loadAuthenticatedAccount(c *gin.Context) (models.Account, bool) {
	account, err := accountForRole(middleware.Role(c))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "This endpoint is not available for your account type"})
		return nil, false
	}
	if err := config.DB.First(account, middleware.AccountID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Account not found"})
		return nil, false
	}
	return account, true
}
