package interfaces

import (
	"context"

	"tokenmail/internal/models"
)

// TokenStore keeps at most one live TokenRecord per email address.
type TokenStore interface {
	// Put commits a record, replacing any existing record for the same
	// address.
	Put(ctx context.Context, record *models.TokenRecord) error
	// Get returns the live record for an address. It returns a
	// *NotFoundError when no record exists and an *ExpiredError when the
	// record is past its TTL; an expired record is removed as a side
	// effect of reporting it.
	Get(ctx context.Context, email string) (*models.TokenRecord, error)
	// Sweep removes every expired record and reports how many were
	// removed.
	Sweep(ctx context.Context) int
}
