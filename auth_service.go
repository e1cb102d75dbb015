package spaces

import (
	"context"
)

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the backend's successful login response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Registration is the account creation payload.
type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone_number,omitempty"`
	Role      Role   `json:"role"`
}

// Normalized returns a copy with the email lowercased and the role clamped
// to the closed enumeration. Raw role spellings ("owner", "client") never
// cross the trust boundary.
func (r Registration) Normalized() Registration {
	r.Email = normalizeEmail(r.Email)
	r.Role = NormalizeRole(string(r.Role))
	return r
}

// UserProfile is the backend's representation of the authenticated user.
type UserProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone_number,omitempty"`
	Role      Role   `json:"role"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone_number,omitempty"`
}

var _ AuthAPI = (*AuthService)(nil)

// AuthService is the typed surface over the backend auth endpoints.
type AuthService struct {
	client *APIClient
}

// NewAuthService returns an AuthService backed by client.
func NewAuthService(client *APIClient) *AuthService {
	return &AuthService{client: client}
}

// Login exchanges credentials for a bearer token.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (TokenResponse, error) {
	var res TokenResponse
	if err := s.client.Post(ctx, "/auth/login", creds, &res); err != nil {
		return TokenResponse{}, err
	}
	return res, nil
}

// Register creates an account. It does not log the account in; the session
// manager chains Login after a successful registration.
func (s *AuthService) Register(ctx context.Context, input Registration) error {
	return s.client.Post(ctx, "/auth/register", input.Normalized(), nil)
}

// CurrentUser verifies the session server-side and returns the profile the
// backend associates with the presented token. The session manager does
// not call this; it exists for hosts that prefer the server-verified flow
// for sensitive screens.
func (s *AuthService) CurrentUser(ctx context.Context) (*UserProfile, error) {
	profile := &UserProfile{}
	if err := s.client.Get(ctx, "/auth/me", profile); err != nil {
		return nil, err
	}
	profile.Role = NormalizeRole(string(profile.Role))
	return profile, nil
}

// Profile fetches the authenticated user's profile.
func (s *AuthService) Profile(ctx context.Context) (*UserProfile, error) {
	profile := &UserProfile{}
	if err := s.client.Get(ctx, "/user/profile", profile); err != nil {
		return nil, err
	}
	profile.Role = NormalizeRole(string(profile.Role))
	return profile, nil
}

// UpdateProfile updates the editable profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, input ProfileUpdate) (*UserProfile, error) {
	profile := &UserProfile{}
	if err := s.client.Put(ctx, "/user/profile", input, profile); err != nil {
		return nil, err
	}
	profile.Role = NormalizeRole(string(profile.Role))
	return profile, nil
}
