// Package httperrors renders typed public error payloads at the API
// boundary. Internal error details never leak; handlers map domain errors
// onto one of the public types below.
package httperrors

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// Public error type discriminators.
const (
	TypeGeneric             = "generic"
	TypeInvalidChallenge    = "invalid_challenge"
	TypeSignatureInvalid    = "signature_invalid"
	TypeInsufficientFunds   = "insufficient_funds"
	TypeUpstreamUnavailable = "upstream_unavailable"
	TypeExpiredHandle       = "expired_handle"
)

// HTTPError is the public error payload.
type HTTPError struct {
	Code   int64  `json:"status"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

func NewHTTPError(code int, errorType, title string) *HTTPError {
	return &HTTPError{
		Code:  int64(code),
		Type:  errorType,
		Title: title,
	}
}

func NewHTTPErrorWithDetail(code int, errorType, title, detail string) *HTTPError {
	e := NewHTTPError(code, errorType, title)
	e.Detail = detail
	return e
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTPError %d (%s): %s", e.Code, e.Type, e.Title)
}

// NewFromEcho converts an echo.HTTPError into the public payload shape.
func NewFromEcho(e *echo.HTTPError) *HTTPError {
	title := ""
	if msg, ok := e.Message.(string); ok {
		title = msg
	}
	return NewHTTPError(e.Code, TypeGeneric, title)
}
