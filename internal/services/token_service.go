package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"tokenmail/internal/interfaces"
	"tokenmail/internal/metrics"
	"tokenmail/internal/models"
)

// TokenService owns the token lifecycle: it generates codes, hands them to
// the mail sender, and commits a record only after the send succeeded.
type TokenService struct {
	store  interfaces.TokenStore
	mailer EmailSender
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(store interfaces.TokenStore, mailer EmailSender, ttlMinutes int) *TokenService {
	if ttlMinutes <= 0 {
		ttlMinutes = 15
	}
	return &TokenService{
		store:  store,
		mailer: mailer,
		ttl:    time.Duration(ttlMinutes) * time.Minute,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source. Intended for tests.
func (s *TokenService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *TokenService) IssueToken(ctx context.Context, email string, purpose models.Purpose) (*models.IssueTokenResponse, error) {
	if email == "" {
		return nil, &interfaces.ValidationError{Field: "email", Reason: "required"}
	}
	if purpose == "" {
		return nil, &interfaces.ValidationError{Field: "purpose", Reason: "required"}
	}
	if !purpose.Valid() {
		return nil, &interfaces.ValidationError{Field: "purpose", Reason: "must be registration or recovery"}
	}

	token := GenerateToken()
	metrics.TokensGenerated.Inc()

	subject, body := s.composeMessage(token, purpose)
	if err := s.mailer.Send(email, subject, body); err != nil {
		metrics.DeliveryFailures.Inc()
		return nil, &interfaces.DeliveryError{Recipient: email, Cause: err}
	}

	now := s.now()
	record := &models.TokenRecord{
		ID:        uuid.NewString(),
		Email:     email,
		Token:     token,
		Purpose:   purpose,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Put(ctx, record); err != nil {
		return nil, err
	}
	metrics.TokensDelivered.Inc()
	log.Printf("committed token record %s (purpose=%s, expires=%s)", record.ID, record.Purpose, record.ExpiresAt.Format(time.RFC3339))

	return &models.IssueTokenResponse{
		Token:     token,
		Purpose:   purpose,
		Timestamp: now,
	}, nil
}

func (s *TokenService) LookupToken(ctx context.Context, email string) (*models.TokenRecord, error) {
	if email == "" {
		metrics.TokenLookups.WithLabelValues("invalid").Inc()
		return nil, &interfaces.ValidationError{Field: "email", Reason: "required"}
	}

	record, err := s.store.Get(ctx, email)
	if err != nil {
		switch err.(type) {
		case *interfaces.ExpiredError:
			metrics.TokenLookups.WithLabelValues("expired").Inc()
		default:
			metrics.TokenLookups.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	metrics.TokenLookups.WithLabelValues("ok").Inc()
	return record, nil
}

func (s *TokenService) composeMessage(token string, purpose models.Purpose) (subject string, body string) {
	minutes := int(s.ttl.Minutes())
	switch purpose {
	case models.PurposeRecovery:
		subject = "Recover your account"
		body = fmt.Sprintf(
			"<p>Your account recovery code is <strong>%s</strong>.</p><p>Enter it within %d minutes to regain access.</p>",
			token, minutes)
	default:
		subject = "Confirm your registration"
		body = fmt.Sprintf(
			"<p>Your registration code is <strong>%s</strong>.</p><p>Enter it within %d minutes to finish signing up.</p>",
			token, minutes)
	}
	return subject, body
}
