package interfaces

import (
	"fmt"
	"time"
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DeliveryError reports a failed mail send. No record is committed when it
// occurs.
type DeliveryError struct {
	Recipient string
	Cause     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.Recipient, e.Cause)
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

type NotFoundError struct {
	Email string
}

func (e *NotFoundError) Error() string {
	return "no token found for " + e.Email
}

type ExpiredError struct {
	Email     string
	ExpiredAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("token for %s expired at %s", e.Email, e.ExpiredAt.Format(time.RFC3339))
}
