package httperrors

import (
	"fmt"
	"net/http"

	"github.com/vechain/walletkit/internal/types"
)

// HTTPError is the wire form of an API error. Type is a stable machine
// readable identifier; Title is for humans.
type HTTPError struct {
	Code   int    `json:"status"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`

	// Internal is never serialized
	Internal error `json:"-"`
}

func NewHTTPError(code int, errorType, title string) *HTTPError {
	return &HTTPError{
		Code:  code,
		Type:  errorType,
		Title: title,
	}
}

func NewHTTPErrorWithDetail(code int, errorType, title, detail string) *HTTPError {
	return &HTTPError{
		Code:   code,
		Type:   errorType,
		Title:  title,
		Detail: detail,
	}
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTPError %d (%s): %s - %s", e.Code, e.Type, e.Title, e.Detail)
	}
	return fmt.Sprintf("HTTPError %d (%s): %s", e.Code, e.Type, e.Title)
}

func (e *HTTPError) Unwrap() error {
	return e.Internal
}

var (
	ErrBadRequestInvalidBody = NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "The request body is malformed.")
	ErrNotFoundNoConnection  = NewHTTPError(http.StatusNotFound, "NO_CONNECTION", "No active connection.")
)

// statusByCategory maps the authentication error taxonomy onto HTTP
var statusByCategory = map[types.ErrorCategory]int{
	types.CategoryUserRejection:      http.StatusBadRequest,
	types.CategoryPopupBlocked:       http.StatusConflict,
	types.CategoryNetworkError:       http.StatusBadGateway,
	types.CategoryConfigurationError: http.StatusBadRequest,
	types.CategoryProviderError:      http.StatusBadGateway,
	types.CategoryUnknown:            http.StatusInternalServerError,
}

// FromAuthError converts a classified authentication error to its wire form
func FromAuthError(authErr *types.AuthError) *HTTPError {
	code, ok := statusByCategory[authErr.Category]
	if !ok {
		code = http.StatusInternalServerError
	}

	return &HTTPError{
		Code:     code,
		Type:     authErr.Code,
		Title:    authErr.UserFriendlyMessage,
		Internal: authErr,
	}
}
