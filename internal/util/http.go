package util

import (
	"net/http"

	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"
)

var defaultBinder = &echo.DefaultBinder{}

// BindAndValidateBody binds the request body to v and runs its validation.
// Returns a 400 echo.HTTPError on any binding or validation failure.
func BindAndValidateBody(c echo.Context, v runtime.Validatable) error {
	if err := defaultBinder.BindBody(c, v); err != nil {
		return err
	}
	return validatePayload(c, v)
}

// BindAndValidatePathParams binds the request's path params to v and runs
// its validation.
func BindAndValidatePathParams(c echo.Context, v runtime.Validatable) error {
	if err := defaultBinder.BindPathParams(c, v); err != nil {
		return err
	}
	return validatePayload(c, v)
}

// BindAndValidateQueryParams binds the request's query params to v and runs
// its validation.
func BindAndValidateQueryParams(c echo.Context, v runtime.Validatable) error {
	if err := defaultBinder.BindQueryParams(c, v); err != nil {
		return err
	}
	return validatePayload(c, v)
}

// ValidateAndReturn validates the response payload before writing it out,
// guarding against emitting responses that violate our own contract.
func ValidateAndReturn(c echo.Context, code int, v runtime.Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Error().Err(err).Msg("Response payload validation failed")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return c.JSON(code, v)
}

func validatePayload(c echo.Context, v runtime.Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Payload validation failed")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
