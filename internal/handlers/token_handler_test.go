package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"tokenmail/internal/models"
	"tokenmail/internal/repository"
	"tokenmail/internal/services"
)

type noopMailer struct{}

func (n *noopMailer) Send(to string, subject string, htmlBody string) error { return nil }

type brokenMailer struct{}

func (b *brokenMailer) Send(to string, subject string, htmlBody string) error {
	return errors.New("smtp: 550 mailbox unavailable")
}

func newTestRouter(mailer services.EmailSender, current *time.Time) *chi.Mux {
	store := repository.NewMemoryTokenStore()
	store.SetClock(func() time.Time { return *current })
	svc := services.NewTokenService(store, mailer, 15)
	svc.SetClock(func() time.Time { return *current })
	h := NewTokenHandler(svc)

	r := chi.NewRouter()
	r.Post("/api/v1/tokens", h.IssueToken)
	r.Get("/api/v1/tokens/{email}", h.GetToken)
	return r
}

func issueRequest(t *testing.T, r http.Handler, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tokens", bytes.NewReader(b))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIssueTokenReturnsCreated(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := newTestRouter(&noopMailer{}, &current)

	w := issueRequest(t, r, map[string]any{"email": "a@b.com", "purpose": "registration"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", w.Code, w.Body.String())
	}

	var resp models.IssueTokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Token) != 8 {
		t.Fatalf("expected 8-char token got %q", resp.Token)
	}
	if resp.Purpose != models.PurposeRegistration {
		t.Fatalf("expected registration purpose got %q", resp.Purpose)
	}
}

func TestIssueTokenRejectsUnknownPurpose(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := newTestRouter(&noopMailer{}, &current)

	w := issueRequest(t, r, map[string]any{"email": "a@b.com", "purpose": "verification"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "validation_error" {
		t.Fatalf("expected validation_error got %v", resp)
	}
}

func TestIssueTokenRejectsBadBody(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := newTestRouter(&noopMailer{}, &current)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tokens", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestIssueTokenDeliveryFailureReturns502(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := newTestRouter(&brokenMailer{}, &current)

	w := issueRequest(t, r, map[string]any{"email": "a@b.com", "purpose": "recovery"})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d (%s)", w.Code, w.Body.String())
	}

	// Nothing was committed, so a lookup misses.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tokens/a@b.com", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after failed delivery got %d (%s)", w.Code, w.Body.String())
	}
}

func TestGetTokenRoundTrip(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := newTestRouter(&noopMailer{}, &current)

	w := issueRequest(t, r, map[string]any{"email": "a@b.com", "purpose": "registration"})
	if w.Code != http.StatusCreated {
		t.Fatalf("issue: expected 201 got %d (%s)", w.Code, w.Body.String())
	}
	var issued models.IssueTokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &issued); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tokens/a@b.com", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	var resp models.TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != issued.Token {
		t.Fatalf("lookup token %q does not match issued %q", resp.Token, issued.Token)
	}
	if !resp.ExpiresAt.Equal(current.Add(15 * time.Minute)) {
		t.Fatalf("expected expiry 15m after issue got %v", resp.ExpiresAt)
	}
}

func TestGetTokenDecodesEscapedAddressOnce(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := newTestRouter(&noopMailer{}, &current)

	// Issued for an address with a literal percent sequence in it.
	w := issueRequest(t, r, map[string]any{"email": "a%40b@c.com", "purpose": "registration"})
	if w.Code != http.StatusCreated {
		t.Fatalf("issue: expected 201 got %d (%s)", w.Code, w.Body.String())
	}

	// %25 decodes to %, %40 to @: one decode pass yields the stored key.
	// A second decode would turn a%40b into a@b and miss.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tokens/a%2540b%40c.com", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestGetTokenUnknownAddressReturns404(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := newTestRouter(&noopMailer{}, &current)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tokens/nobody@example.com", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "token_not_found" {
		t.Fatalf("expected token_not_found got %v", resp)
	}
}

func TestGetTokenExpiredReturns410(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := t0
	r := newTestRouter(&noopMailer{}, &current)

	w := issueRequest(t, r, map[string]any{"email": "a@b.com", "purpose": "recovery"})
	if w.Code != http.StatusCreated {
		t.Fatalf("issue: expected 201 got %d (%s)", w.Code, w.Body.String())
	}

	current = t0.Add(16 * time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tokens/a@b.com", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusGone {
		t.Fatalf("expected 410 got %d (%s)", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "token_expired" {
		t.Fatalf("expected token_expired got %v", resp)
	}
}
