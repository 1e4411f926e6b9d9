package httperrors

import (
	"net/http"
)

var (
	ErrInvalidChallenge = NewHTTPError(http.StatusConflict, TypeInvalidChallenge, "Challenge is invalid, expired or superseded. Restart the login flow.")
	ErrSignatureInvalid = NewHTTPError(http.StatusUnauthorized, TypeSignatureInvalid, "Signature verification failed.")
	ErrUnauthorized     = NewHTTPError(http.StatusUnauthorized, TypeGeneric, "Missing or invalid session token.")
	ErrExpiredHandle    = NewHTTPError(http.StatusGone, TypeExpiredHandle, "Signing request expired. Publish a new one.")
	ErrUpstream         = NewHTTPError(http.StatusBadGateway, TypeUpstreamUnavailable, "Chain data source is unavailable. Retry later.")
)
