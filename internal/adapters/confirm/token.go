package confirm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"activitysignup/internal/domain"
)

const audience = "unregister"

type confirmationClaims struct {
	jwt.RegisteredClaims
	Activity string `json:"activity"`
}

type jwtIssuer struct {
	secret []byte
	ttl    time.Duration
	ledger Ledger
	now    func() time.Time
}

// NewJWTIssuer returns a ConfirmationIssuer that signs HS256 tokens valid for
// ttl. Verified tokens are claimed in ledger so each one authorizes a single
// removal.
func NewJWTIssuer(secret string, ttl time.Duration, ledger Ledger) domain.ConfirmationIssuer {
	return &jwtIssuer{secret: []byte(secret), ttl: ttl, ledger: ledger, now: time.Now}
}

func (i *jwtIssuer) Issue(activity, email string) (domain.Confirmation, error) {
	if activity == "" || email == "" {
		return domain.Confirmation{}, fmt.Errorf("%w: activity and email are required", domain.ErrInvalidInput)
	}
	now := i.now()
	expires := now.Add(i.ttl)
	claims := confirmationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   email,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Activity: activity,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return domain.Confirmation{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return domain.Confirmation{
		Activity:  activity,
		Email:     email,
		Token:     token,
		Prompt:    fmt.Sprintf("Remove %s from %s?", email, activity),
		ExpiresAt: expires.UTC(),
	}, nil
}

func (i *jwtIssuer) Verify(ctx context.Context, token, activity, email string) error {
	if token == "" {
		return domain.ErrConfirmationRequired
	}
	var claims confirmationClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConfirmationRequired, err)
	}
	if claims.Activity != activity || claims.Subject != email {
		return fmt.Errorf("%w: %v", domain.ErrConfirmationRequired, errMismatch)
	}

	remaining := claims.ExpiresAt.Sub(i.now())
	if remaining < time.Millisecond {
		remaining = time.Millisecond
	}
	first, err := i.ledger.Claim(ctx, claims.ID, remaining)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConfirmationRequired, err)
	}
	if !first {
		return fmt.Errorf("%w: %v", domain.ErrConfirmationRequired, errSpent)
	}
	return nil
}

var (
	errMismatch = errors.New("token was issued for another participant")
	errSpent    = errors.New("token was already used")
)
