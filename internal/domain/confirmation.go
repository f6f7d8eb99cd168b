package domain

import (
	"context"
	"time"
)

// Confirmation is an issued, not yet used, approval to remove a participant.
type Confirmation struct {
	Activity  string    `json:"activity"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	Prompt    string    `json:"prompt"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ConfirmationIssuer issues and verifies removal confirmations bound to one
// (activity, email) pair.
type ConfirmationIssuer interface {
	Issue(activity, email string) (Confirmation, error)
	// Verify consumes token. It returns ErrConfirmationRequired for a
	// missing, expired, forged, mismatched or already used token.
	Verify(ctx context.Context, token, activity, email string) error
}
