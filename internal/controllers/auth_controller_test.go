package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyOTP(t *testing.T) {
	now := time.Now()
	future := now.Add(5 * time.Minute)
	past := now.Add(-time.Minute)

	assert.Equal(t, otpValid, classifyOTP("123456", &future, "123456", now))
	assert.Equal(t, otpMismatch, classifyOTP("123456", &future, "654321", now))
	assert.Equal(t, otpMismatch, classifyOTP("", &future, "", now), "a cleared code never matches again")
	assert.Equal(t, otpExpired, classifyOTP("123456", &past, "123456", now))
	assert.Equal(t, otpExpired, classifyOTP("123456", nil, "123456", now))
}

func TestDecideEmailVerification(t *testing.T) {
	now := time.Now()
	future := now.Add(5 * time.Minute)
	past := now.Add(-time.Minute)

	t.Run("already verified fails", func(t *testing.T) {
		d := decideEmailVerification(true, "123456", &future, "123456", now)
		assert.Equal(t, http.StatusBadRequest, d.status)
		assert.Equal(t, "Email is already verified", d.message)
		assert.False(t, d.verify)
		assert.False(t, d.clear)
	})

	t.Run("valid code verifies and consumes", func(t *testing.T) {
		d := decideEmailVerification(false, "123456", &future, "123456", now)
		assert.Equal(t, http.StatusOK, d.status)
		assert.True(t, d.verify)
		assert.True(t, d.clear)
	})

	t.Run("expired code is cleared", func(t *testing.T) {
		d := decideEmailVerification(false, "123456", &past, "123456", now)
		assert.Equal(t, http.StatusBadRequest, d.status)
		assert.Equal(t, "OTP has expired. Please request a new one", d.message)
		assert.False(t, d.verify)
		assert.True(t, d.clear)
	})

	t.Run("wrong code leaves the record alone", func(t *testing.T) {
		d := decideEmailVerification(false, "123456", &future, "654321", now)
		assert.Equal(t, http.StatusBadRequest, d.status)
		assert.Equal(t, "Invalid OTP", d.message)
		assert.False(t, d.verify)
		assert.False(t, d.clear)
	})

	t.Run("consumed code cannot be replayed", func(t *testing.T) {
		d := decideEmailVerification(false, "", nil, "123456", now)
		assert.Equal(t, http.StatusBadRequest, d.status)
		assert.Equal(t, "Invalid OTP", d.message)
	})
}
