package spaces

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is the in-memory representation of the currently authenticated
// actor. It is created by a successful token decode, owned exclusively by
// the SessionManager, and destroyed on logout, decode failure, or expiry.
type Session struct {
	UserID    string     `json:"user_id,omitempty"`
	Role      Role       `json:"role,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// GetUserUUID parses the session subject as a UUID.
func (s *Session) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

// HasRole checks if the session carries a specific role
func (s *Session) HasRole(role Role) bool {
	return s.Role == role
}

// Expired reports whether the session's expiry, when present, has passed.
func (s *Session) Expired(now time.Time) bool {
	if s.ExpiresAt == nil {
		return false
	}
	return !s.ExpiresAt.After(now)
}

func (s Session) String() string {
	expiresAt := "<nil>"
	if s.ExpiresAt != nil {
		expiresAt = s.ExpiresAt.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"user=%s role=%s exp=%s",
		s.UserID,
		s.Role,
		expiresAt,
	)
}

// sessionFromClaims builds a Session from decoded token claims. The role is
// normalized here, at the trust boundary; downstream code only ever sees
// canonical role values.
func sessionFromClaims(claims *TokenClaims) (*Session, error) {
	if claims == nil {
		return nil, ErrUnableToParseClaims
	}

	userID := claims.UserID()
	if userID == "" {
		return nil, ErrUnableToParseClaims
	}

	session := &Session{
		UserID: userID,
		Role:   claims.Role(),
	}

	if issuedAt := claims.IssuedAt(); !issuedAt.IsZero() {
		session.IssuedAt = &issuedAt
	}
	if expires := claims.Expires(); !expires.IsZero() {
		session.ExpiresAt = &expires
	}

	return session, nil
}
