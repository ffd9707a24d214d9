package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnconfiguredMailerLogsInsteadOfSending(t *testing.T) {
	m := New("", "587", "", "", "no-reply@vezoh.com")
	assert.False(t, m.SendVerificationOTP("rider@example.com", "123456", "Rider"))
	assert.False(t, m.SendPasswordResetOTP("rider@example.com", "654321", "Rider"))
}

func TestBodiesCarryNameAndOTP(t *testing.T) {
	body := verificationBody("Asha", "123456")
	assert.Contains(t, body, "Asha")
	assert.Contains(t, body, "123456")

	body = resetBody("Asha", "654321")
	assert.Contains(t, body, "Asha")
	assert.Contains(t, body, "654321")
}
