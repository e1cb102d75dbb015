package spaces

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultErrorMessage is the fallback shown when the backend error body has
// no usable message.
const DefaultErrorMessage = "Something went wrong"

// NetworkErrorMessage is the message attached to transport-level failures.
const NetworkErrorMessage = "Network error. Please check your connection."

// ErrTokenNotFound is returned when the token slot is empty
var ErrTokenNotFound = errors.New("token not found")

// ErrUnableToDecodeToken signals a malformed or unparseable bearer token
var ErrUnableToDecodeToken = errors.New("unable to decode token")

// ErrUnableToParseClaims signals decoded claims missing a usable subject
var ErrUnableToParseClaims = errors.New("unable to parse claims")

const (
	textCodeTokenExpired   = "TOKEN_EXPIRED"
	textCodeTokenMalformed = "TOKEN_MALFORMED"
	textCodeUnauthorized   = "UNAUTHORIZED"
	textCodeAPIError       = "API_ERROR"
	textCodeNetworkError   = "NETWORK_ERROR"
)

// ErrTokenExpired is returned when the token carries an expiry in the past.
var ErrTokenExpired = goerrors.New("authentication token expired", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token cannot be decoded at all.
var ErrTokenMalformed = goerrors.New("authentication token malformed", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenMalformed).
	WithCode(goerrors.CodeBadRequest)

// ErrUnauthorized is the normalized shape for 401 responses.
var ErrUnauthorized = goerrors.New("unauthorized", goerrors.CategoryAuth).
	WithTextCode(textCodeUnauthorized).
	WithCode(goerrors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == textCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == textCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsUnauthorizedError reports whether err represents a 401 response.
func IsUnauthorizedError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Code == goerrors.CodeUnauthorized
	}
	return false
}

// newAPIError normalizes a non-success HTTP status and its extracted message
// into the single error shape callers see. The original status travels in
// the metadata so handlers can branch without string matching.
func newAPIError(status int, message string) error {
	if message == "" {
		message = DefaultErrorMessage
	}

	category := goerrors.CategoryOperation
	code := goerrors.CodeInternal
	switch {
	case status == http.StatusUnauthorized:
		category, code = goerrors.CategoryAuth, goerrors.CodeUnauthorized
	case status == http.StatusConflict:
		category, code = goerrors.CategoryConflict, goerrors.CodeConflict
	case status >= 400 && status < 500:
		category, code = goerrors.CategoryValidation, goerrors.CodeBadRequest
	}

	return goerrors.New(message, category).
		WithTextCode(textCodeAPIError).
		WithCode(code).
		WithMetadata(map[string]any{"status": status})
}

// newNetworkError wraps a transport failure (request never completed).
func newNetworkError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, NetworkErrorMessage).
		WithTextCode(textCodeNetworkError)
}

// errorMessage extracts the human-readable message from a normalized error.
func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Message != "" {
		return richErr.Message
	}
	return err.Error()
}
