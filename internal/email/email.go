// Package email delivers account emails. There is no real provider wired up;
// messages are logged so the verification and reset flows stay exercisable in
// development. Sends are fire-and-forget from the caller's point of view.
package email

import (
	"fmt"
	"log"
	"time"
)

const verificationTokenTTL = 24 * time.Hour

type Sender struct {
	frontendURL string
}

func NewSender(frontendURL string) *Sender {
	return &Sender{frontendURL: frontendURL}
}

// TokenExpiry returns the expiration time for a freshly issued verification
// or password-reset token.
func TokenExpiry() time.Time {
	return time.Now().Add(verificationTokenTTL)
}

func (s *Sender) SendVerification(to, token string) {
	url := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, token)
	s.logMail(to, "Verify your email", fmt.Sprintf(
		"Thank you for registering! Verify your email address within 24 hours:\n\n%s\n\nIf you didn't create this account, ignore this email.", url))
}

func (s *Sender) SendPasswordReset(to, token string) {
	url := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)
	s.logMail(to, "Password reset request", fmt.Sprintf(
		"We received a request to reset your password:\n\n%s\n\nIf you didn't request this, ignore this email; your password will not change.", url))
}

func (s *Sender) logMail(to, subject, body string) {
	log.Printf("EMAIL to=%s subject=%q\n%s", to, subject, body)
}
