package models

import "time"

type Purpose string

const (
	PurposeRegistration Purpose = "registration"
	PurposeRecovery     Purpose = "recovery"
)

func (p Purpose) Valid() bool {
	return p == PurposeRegistration || p == PurposeRecovery
}

// TokenRecord is the single outstanding token for one email address.
type TokenRecord struct {
	ID        string    `json:"-"`
	Email     string    `json:"-"`
	Token     string    `json:"token"`
	Purpose   Purpose   `json:"purpose"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (t *TokenRecord) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

type IssueTokenRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Purpose string `json:"purpose" validate:"required,oneof=registration recovery"`
}

type IssueTokenResponse struct {
	Token     string    `json:"token"`
	Purpose   Purpose   `json:"purpose"`
	Timestamp time.Time `json:"timestamp"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	Purpose   Purpose   `json:"purpose"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
