package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"tokenmail/internal/interfaces"
	"tokenmail/internal/models"
	"tokenmail/internal/services"
)

type TokenHandler struct {
	svc       *services.TokenService
	validator *validator.Validate
}

func NewTokenHandler(svc *services.TokenService) *TokenHandler {
	return &TokenHandler{
		svc:       svc,
		validator: validator.New(),
	}
}

// @Tags Tokens
// @Summary Issue a token
// @Description Generates a one-time token, emails it to the address, and stores it until expiry. Reissuing replaces any previous token for the address.
// @Accept json
// @Produce json
// @Param request body models.IssueTokenRequest true "Address and purpose"
// @Success 201 {object} models.IssueTokenResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/v1/tokens [post]
func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req models.IssueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	resp, err := h.svc.IssueToken(r.Context(), req.Email, models.Purpose(req.Purpose))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// @Tags Tokens
// @Summary Look up a token
// @Description Returns the live token for an address. Lookup is non-destructive; an expired token is reported once and removed.
// @Produce json
// @Param email path string true "Email address the token was issued to"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 410 {object} map[string]interface{}
// @Router /api/v1/tokens/{email} [get]
func (h *TokenHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	// chi matches on the raw path, so the param arrives still escaped
	// when the request URL carried %XX sequences. Decode it once.
	email := chi.URLParam(r, "email")
	if decoded, err := url.PathUnescape(email); err == nil {
		email = decoded
	}

	record, err := h.svc.LookupToken(r.Context(), email)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{
		Token:     record.Token,
		Purpose:   record.Purpose,
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.ExpiresAt,
	})
}

func (h *TokenHandler) writeServiceError(w http.ResponseWriter, err error) {
	var (
		validationErr *interfaces.ValidationError
		deliveryErr   *interfaces.DeliveryError
		notFoundErr   *interfaces.NotFoundError
		expiredErr    *interfaces.ExpiredError
	)
	switch {
	case errors.As(err, &validationErr):
		writeJSONError(w, http.StatusBadRequest, "validation_error", validationErr.Error())
	case errors.As(err, &deliveryErr):
		log.Printf("token email delivery failed: %v", deliveryErr)
		writeJSONError(w, http.StatusBadGateway, "delivery_failed", "Failed to send token email")
	case errors.As(err, &notFoundErr):
		writeJSONError(w, http.StatusNotFound, "token_not_found", "No token found for this address")
	case errors.As(err, &expiredErr):
		writeJSONError(w, http.StatusGone, "token_expired", "Token has expired")
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Unexpected error")
	}
}
