// Package mailer sends OTP mail over SMTP. Delivery is best-effort:
// when SMTP is unconfigured or fails, the code is logged so development
// and degraded environments still work, and the caller's operation
// succeeds either way.
package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/sirupsen/logrus"
)

type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func New(host, port, username, password, from string) *Mailer {
	return &Mailer{Host: host, Port: port, Username: username, Password: password, From: from}
}

func (m *Mailer) configured() bool {
	return m.Host != "" && m.Username != "" && m.Password != ""
}

// SendVerificationOTP mails the email-verification code. Returns whether
// delivery was attempted successfully; it never returns an error because
// registration must not fail on mail problems.
func (m *Mailer) SendVerificationOTP(email, otp, name string) bool {
	return m.send(email, "Vezoh - Email Verification OTP", verificationBody(name, otp), otp)
}

// SendPasswordResetOTP mails the password-reset code.
func (m *Mailer) SendPasswordResetOTP(email, otp, name string) bool {
	return m.send(email, "Vezoh - Password Reset OTP", resetBody(name, otp), otp)
}

func (m *Mailer) send(email, subject, body, otp string) bool {
	if !m.configured() {
		logrus.WithField("email", email).Warnf("Mailer not configured, OTP for %s: %s", email, otp)
		return false
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.From, email, subject, body)

	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	if err := smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{email}, []byte(msg)); err != nil {
		logrus.WithError(err).WithField("email", email).Errorf("Failed to send OTP mail, OTP for %s: %s", email, otp)
		return false
	}

	logrus.WithField("email", email).Info("OTP mail sent")
	return true
}

func verificationBody(name, otp string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Welcome to Vezoh!</h2>
  <p>Hello %s,</p>
  <p>Please verify your email address using the OTP below:</p>
  <div style="background-color: #f3f4f6; padding: 20px; text-align: center;"><h1>%s</h1></div>
  <p>This OTP will expire in 10 minutes.</p>
  <p>If you didn't create this account, please ignore this email.</p>
</div>`, name, otp)
}

func resetBody(name, otp string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Vezoh Password Reset</h2>
  <p>Hello %s,</p>
  <p>Use the following OTP to create a new password:</p>
  <div style="background-color: #fef2f2; padding: 20px; text-align: center;"><h1>%s</h1></div>
  <p>This OTP will expire in 10 minutes.</p>
  <p><strong>If you didn't request this reset, ignore this email.</strong></p>
</div>`, name, otp)
}
