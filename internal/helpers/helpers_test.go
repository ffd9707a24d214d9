package helpers

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOTP(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 50; i++ {
		otp := GenerateOTP()
		assert.Regexp(t, pattern, otp)
	}
}

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9876543210", "+919876543210"},
		{"919876543210", "+919876543210"},
		{"+91 98765 43210", "+919876543210"},
		{"98765-43210", "+919876543210"},
		{"12345", "12345"},            // too short, left for validation to reject
		{"001234567890123", "001234567890123"}, // wrong shape, unchanged
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPhoneNumber(tt.in), "input %q", tt.in)
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("rider@example.com"))
	assert.True(t, IsValidEmail("a.b+c@sub.domain.in"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("missing@domain"))
	assert.False(t, IsValidEmail("@example.com"))
	assert.False(t, IsValidEmail("space in@example.com"))
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("9876543210"))
	assert.True(t, IsValidPhone("+919876543210"))
	assert.True(t, IsValidPhone("919876543210"))
	assert.True(t, IsValidPhone("+91 98765 43210"))
	assert.False(t, IsValidPhone("1234567890"))  // must start with 6-9
	assert.False(t, IsValidPhone("98765"))       // too short
	assert.False(t, IsValidPhone("98765432101")) // too long
}

func TestGenerateBookingRef(t *testing.T) {
	ref := GenerateBookingRef()
	assert.True(t, strings.HasPrefix(ref, "VZ"))
	assert.Len(t, ref, 14)
	assert.Regexp(t, `^VZ\d{6}[0-9A-Z]{6}$`, ref)

	// References should not repeat across calls.
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		r := GenerateBookingRef()
		assert.False(t, seen[r], "duplicate booking ref %s", r)
		seen[r] = true
	}
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "jo***@example.com", MaskEmail("john@example.com"))
	assert.Equal(t, "ri***@vezoh.com", MaskEmail("rider42@vezoh.com"))

	// Short local parts are masked entirely, never echoed back.
	assert.Equal(t, "***@x.com", MaskEmail("a@x.com"))
	assert.Equal(t, "***@x.com", MaskEmail("ab@x.com"))
	assert.Equal(t, "not-an-email", MaskEmail("not-an-email"))
}
