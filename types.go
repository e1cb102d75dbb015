package spaces

import (
	"context"
	"fmt"
)

// Named navigation destinations exposed by the hosting application.
const (
	PathHome         = "/"
	PathLogin        = "/login"
	PathDashboard    = "/dashboard"
	PathBookings     = "/bookings"
	PathSpaces       = "/spaces"
	PathManageSpaces = "/manage-spaces"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Navigator receives navigation requests from the session manager and the
// API client (e.g. redirect to login after a 401). Implementations are
// expected to be cheap; heavy work belongs in the hosting application.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(path string) {
	if f == nil {
		return
	}
	f(path)
}

type noopNavigator struct{}

func (noopNavigator) Navigate(string) {}

func normalizeNavigator(n Navigator) Navigator {
	if n == nil {
		return noopNavigator{}
	}
	return n
}

// TokenStore persists a single bearer token in a fixed slot. At most one
// token exists at a time; Save replaces any previous value. Read returns
// ErrTokenNotFound when the slot is empty. No validation happens here.
type TokenStore interface {
	Save(ctx context.Context, token string) error
	Read(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// AuthAPI is the external auth collaborator the session manager drives.
// Credential verification and token issuance happen behind it.
type AuthAPI interface {
	Login(ctx context.Context, creds Credentials) (TokenResponse, error)
	Register(ctx context.Context, input Registration) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SPACES "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SPACES "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SPACES "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SPACES "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
