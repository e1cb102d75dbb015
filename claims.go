package spaces

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenClaims is the decoded payload of a bearer token. Alongside the
// registered claims it carries the alternate subject fields some backends
// emit ("id", "user_id") and the raw role claim.
type TokenClaims struct {
	jwt.RegisteredClaims
	ID        string `json:"id,omitempty"`
	AltUserID string `json:"user_id,omitempty"`
	RawRole   string `json:"role,omitempty"`
}

// UserID returns the token subject. Precedence follows the claim names the
// backend has been seen emitting: "sub" first, then "id", then "user_id".
func (c *TokenClaims) UserID() string {
	if c.RegisteredClaims.Subject != "" {
		return c.RegisteredClaims.Subject
	}
	if c.ID != "" {
		return c.ID
	}
	return c.AltUserID
}

// Role returns the normalized role, defaulting to RoleClient when the claim
// is absent or unrecognized.
func (c *TokenClaims) Role() Role {
	return NormalizeRole(c.RawRole)
}

// Expires returns the expiration time, zero when the claim is absent.
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time, zero when the claim is absent.
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Expired reports whether the token has an expiry claim in the past. Tokens
// without an expiry claim never expire.
func (c *TokenClaims) Expired(now time.Time) bool {
	if c.RegisteredClaims.ExpiresAt == nil {
		return false
	}
	return !c.RegisteredClaims.ExpiresAt.Time.After(now)
}

// DecodeToken parses a bearer token's payload without verifying its
// signature. Integrity was established by the backend at issue time; this
// is a local trust-on-read decode, and callers must treat any failure as
// "not authenticated" rather than fatal.
func DecodeToken(raw string) (*TokenClaims, error) {
	claims := &TokenClaims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	return claims, nil
}
