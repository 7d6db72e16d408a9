package types

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCategory classifies an authentication or estimation failure
type ErrorCategory string

const (
	// CategoryUserRejection means the user explicitly cancelled or closed the ceremony
	CategoryUserRejection ErrorCategory = "user_rejection"
	// CategoryPopupBlocked means the environment prevented the ceremony from opening
	CategoryPopupBlocked ErrorCategory = "popup_blocked"
	// CategoryNetworkError means a transient network failure
	CategoryNetworkError ErrorCategory = "network_error"
	// CategoryConfigurationError means a programmer or deployment misconfiguration
	CategoryConfigurationError ErrorCategory = "configuration_error"
	// CategoryProviderError means a third-party service failed or returned an unexpected shape
	CategoryProviderError ErrorCategory = "provider_error"
	// CategoryUnknown is the catch-all for unclassified failures
	CategoryUnknown ErrorCategory = "unknown"
)

// AuthError is the shared failure taxonomy crossing the provider boundary.
// Providers and the fee estimator classify raw failures into an AuthError
// before returning control; the connection manager never re-interprets an
// already-classified error, it only attaches context.
type AuthError struct {
	Code                string
	Category            ErrorCategory
	Retryable           bool
	UserFriendlyMessage string
	cause               error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Code, e.Category, e.cause)
	}
	return fmt.Sprintf("%s (%s)", e.Code, e.Category)
}

// Unwrap exposes the underlying cause for errors.Is/As
func (e *AuthError) Unwrap() error {
	return e.cause
}

// IsUserRejection checks whether the failure is an explicit user cancellation
func (e *AuthError) IsUserRejection() bool {
	return e.Category == CategoryUserRejection
}

// NewAuthError creates a classified error wrapping a cause
func NewAuthError(code string, category ErrorCategory, retryable bool, message string, cause error) *AuthError {
	return &AuthError{
		Code:                code,
		Category:            category,
		Retryable:           retryable,
		UserFriendlyMessage: message,
		cause:               cause,
	}
}

// NewUserRejection creates a user_rejection error. It is surfaced neutrally
// and never logged as a failure.
func NewUserRejection(code string, cause error) *AuthError {
	return NewAuthError(code, CategoryUserRejection, false, "You cancelled the request.", cause)
}

// NewPopupBlocked creates a popup_blocked error
func NewPopupBlocked(code string, cause error) *AuthError {
	return NewAuthError(code, CategoryPopupBlocked, true, "Your browser blocked the login window. Please allow popups and try again.", cause)
}

// NewNetworkError creates a retryable network_error
func NewNetworkError(code string, cause error) *AuthError {
	return NewAuthError(code, CategoryNetworkError, true, "A network problem interrupted the request. Please try again.", cause)
}

// NewConfigurationError creates a fatal configuration_error
func NewConfigurationError(code string, cause error) *AuthError {
	return NewAuthError(code, CategoryConfigurationError, false, "This login method is not available. Please contact support.", cause)
}

// NewProviderError creates a provider_error
func NewProviderError(code string, cause error) *AuthError {
	return NewAuthError(code, CategoryProviderError, true, "The service returned an unexpected response. Please try again.", cause)
}

// AsAuthError extracts an AuthError from an error chain. If the error was
// never classified it is wrapped as unknown so that no raw failure crosses
// the provider boundary unclassified.
func AsAuthError(err error) *AuthError {
	if err == nil {
		return nil
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}

	// Context cancellation at this level means the caller aborted the
	// ceremony, which is a user action, not a provider failure.
	if errors.Is(err, context.Canceled) {
		return NewUserRejection("ceremony_cancelled", err)
	}

	return NewAuthError("unclassified", CategoryUnknown, false, "Something went wrong. Please try again later.", err)
}
