package config

import (
	"os"
	"time"
)

// GetEnv reads an environment variable or returns the provided default.
func GetEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

// GetDuration parses an environment variable as a Go duration string
// (e.g. "1h", "30m"), falling back on missing or malformed values.
func GetDuration(key string, defaultValue time.Duration) time.Duration {
	v, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}

// ListenAddr is where the HTTP server binds.
func ListenAddr() string {
	return GetEnv("LISTEN_ADDR", "0.0.0.0:8080")
}

// JWTSecret signs and validates API tokens.
func JWTSecret() string {
	return GetEnv("JWT_SECRET", "supersecret")
}

// GoogleMapsAPIKey authenticates against the mapping provider.
func GoogleMapsAPIKey() string {
	return GetEnv("GOOGLE_MAPS_API_KEY", "")
}

// MapsTimeout bounds every mapping-provider call so a slow provider
// cannot stall request handling; fallback estimates cover the failure.
func MapsTimeout() time.Duration {
	return GetDuration("MAPS_TIMEOUT", 5*time.Second)
}

// SweepInterval is how often the auto-approval sweep runs.
func SweepInterval() time.Duration {
	return GetDuration("AUTO_APPROVE_INTERVAL", time.Hour)
}

// SweepThreshold is how long a driver may sit under review before the
// sweep approves them.
func SweepThreshold() time.Duration {
	return GetDuration("AUTO_APPROVE_THRESHOLD", 24*time.Hour)
}

// OTPValidity is how long an emailed one-time code stays usable.
func OTPValidity() time.Duration {
	return GetDuration("OTP_VALIDITY", 10*time.Minute)
}

// AdminEmail and AdminPassword gate the admin review endpoints. Admin
// login stays disabled until both are set.
func AdminEmail() string {
	return GetEnv("ADMIN_EMAIL", "")
}

func AdminPassword() string {
	return GetEnv("ADMIN_PASSWORD", "")
}

// UploadDir is where driver document images are stored.
func UploadDir() string {
	return GetEnv("UPLOAD_DIR", "./uploads")
}
