package myanimelist

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError reports a non-OK HTTP status returned by the remote service.
type StatusError struct {
	// Op names the remote operation, e.g. "token exchange" or "list status".
	Op string
	// StatusCode is the HTTP status returned by the remote.
	StatusCode int
	// Body is the (truncated) response body.
	Body string
}

// Error returns a string representation of the status error.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("myanimelist %s: request failed: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("myanimelist %s: request failed: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// IsStatusError checks if an error is a remote status error.
func IsStatusError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr)
}

// IsUnauthorized reports whether the remote rejected the bearer token.
func IsUnauthorized(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode == http.StatusUnauthorized
}

// OAuthError represents an OAuth error returned through the redirect.
type OAuthError struct {
	// Code is the OAuth error code.
	Code string `json:"error"`
	// Description is a human-readable description of the error.
	Description string `json:"error_description,omitempty"`
	// StatusCode is the HTTP status code associated with the error.
	StatusCode int `json:"-"`
}

// Error returns a string representation of the OAuth error.
func (e *OAuthError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("OAuth error %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("OAuth error: %s", e.Code)
}

// NewOAuthError creates a new OAuth error with the specified code, description, and status code.
func NewOAuthError(code, description string, statusCode int) *OAuthError {
	return &OAuthError{
		Code:        code,
		Description: description,
		StatusCode:  statusCode,
	}
}

// AuthenticationError represents authentication-related errors.
type AuthenticationError struct {
	// Type is the type of authentication error.
	Type string `json:"type"`
	// Message is a human-readable message describing the error.
	Message string `json:"message"`
	// Code is the HTTP status code associated with the error.
	Code int `json:"code"`
	// Cause is the underlying error that caused this authentication error.
	Cause error `json:"-"`
}

// Error returns a string representation of the authentication error.
func (e *AuthenticationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *AuthenticationError) Unwrap() error {
	return e.Cause
}

// Common authentication error types.
var (
	// ErrCodeExchangeFailed represents an error when exchanging authorization code for tokens fails.
	ErrCodeExchangeFailed = &AuthenticationError{
		Type:    "code_exchange_failed",
		Message: "Failed to exchange authorization code for tokens",
		Code:    http.StatusBadRequest,
	}

	// ErrTokenRefreshFailed represents an error when a refresh token is rejected or the refresh call fails.
	ErrTokenRefreshFailed = &AuthenticationError{
		Type:    "token_refresh_failed",
		Message: "Failed to refresh access token",
		Code:    http.StatusUnauthorized,
	}

	// ErrServerStartFailed represents an error when starting the OAuth callback server fails.
	ErrServerStartFailed = &AuthenticationError{
		Type:    "server_start_failed",
		Message: "Failed to start OAuth callback server",
		Code:    http.StatusInternalServerError,
	}

	// ErrPortInUse represents an error when the OAuth callback port is already in use.
	ErrPortInUse = &AuthenticationError{
		Type:    "port_in_use",
		Message: "OAuth callback port is already in use",
		Code:    13, // Special exit code for port-in-use
	}
)

// NewAuthenticationError creates a new authentication error with a cause based on a base error.
func NewAuthenticationError(baseErr *AuthenticationError, cause error) *AuthenticationError {
	return &AuthenticationError{
		Type:    baseErr.Type,
		Message: baseErr.Message,
		Code:    baseErr.Code,
		Cause:   cause,
	}
}

// IsAuthenticationError checks if an error is an authentication error.
func IsAuthenticationError(err error) bool {
	var authenticationError *AuthenticationError
	return errors.As(err, &authenticationError)
}

// GetUserFriendlyMessage returns a user-friendly error message based on the error type.
func GetUserFriendlyMessage(err error) string {
	var authErr *AuthenticationError
	var oauthErr *OAuthError
	var statusErr *StatusError
	switch {
	case errors.As(err, &authErr):
		switch authErr.Type {
		case "code_exchange_failed":
			return "MyAnimeList did not accept the authorization code. Please log in again."
		case "token_refresh_failed":
			return "Your MyAnimeList session has expired. Please log in again."
		case "port_in_use":
			return "The OAuth callback port is already in use. Close the application using it or change redirect-uri."
		case "server_start_failed":
			return "Could not start the local OAuth callback server."
		default:
			return "Authentication failed. Please try again."
		}
	case errors.As(err, &oauthErr):
		switch oauthErr.Code {
		case "access_denied":
			return "Authentication was cancelled or denied."
		case "invalid_request":
			return "Invalid authentication request. Please try again."
		case "server_error":
			return "Authentication server error. Please try again later."
		default:
			return fmt.Sprintf("Authentication failed: %s", oauthErr.Description)
		}
	case errors.As(err, &statusErr):
		if statusErr.StatusCode == http.StatusUnauthorized {
			return "MyAnimeList rejected the stored credential. Please log in again."
		}
		return fmt.Sprintf("MyAnimeList sync failed (status %d). Please try again later.", statusErr.StatusCode)
	default:
		return "An unexpected error occurred. Please try again."
	}
}
