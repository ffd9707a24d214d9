// Package helpers carries the small account and booking utilities shared
// across controllers.
package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex    = regexp.MustCompile(`^(\+91|91)?[6-9]\d{9}$`)
	nonDigitRegex = regexp.MustCompile(`\D`)
)

// GenerateOTP returns a 6-digit one-time code.
func GenerateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// fall back to a time-derived code rather than blocking signup.
		return fmt.Sprintf("%06d", time.Now().UnixNano()%900000+100000)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// FormatPhoneNumber normalizes an Indian mobile number to E.164 (+91...).
// Inputs that do not look like a 10- or 12-digit number are returned
// unchanged so the validation step can reject them.
func FormatPhoneNumber(phone string) string {
	cleaned := nonDigitRegex.ReplaceAllString(phone, "")
	switch {
	case len(cleaned) == 10:
		return "+91" + cleaned
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, "91"):
		return "+" + cleaned
	}
	return phone
}

// IsValidEmail checks the basic shape of an email address.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPhone checks for an Indian mobile number with optional country code.
func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(strings.ReplaceAll(phone, " ", ""))
}

const refAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateBookingRef returns a reference like "VZ123456AB12CD".
func GenerateBookingRef() string {
	ts := fmt.Sprintf("%d", time.Now().UnixMilli())
	return "VZ" + ts[len(ts)-6:] + randomUpper(6)
}

func randomUpper(n int) string {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(refAlphabet))))
		if err != nil {
			b[i] = refAlphabet[time.Now().UnixNano()%int64(len(refAlphabet))]
			continue
		}
		b[i] = refAlphabet[idx.Int64()]
	}
	return string(b)
}

// MaskEmail hides the local part of an address: "jo***@example.com".
// Local parts of one or two characters are masked entirely so short
// addresses never come back verbatim.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	if at <= 2 {
		return "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
