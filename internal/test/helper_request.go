package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cruxfinance/crux-backend/internal/api"
	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/require"
)

// GenericPayload is an arbitrary JSON request body.
type GenericPayload map[string]interface{}

func (g GenericPayload) Reader(t *testing.T) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(g)
	require.NoError(t, err, "failed to serialize payload")
	return bytes.NewReader(raw)
}

// PerformRequest sends a JSON request through the server's echo instance
// and records the response.
func PerformRequest(t *testing.T, s *api.Server, method, path string, body GenericPayload, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		return PerformRequestWithRawBody(t, s, method, path, nil, headers)
	}
	return PerformRequestWithRawBody(t, s, method, path, body.Reader(t), headers)
}

func PerformRequestWithRawBody(t *testing.T, s *api.Server, method, path string, body io.Reader, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if headers != nil {
		req.Header = headers
	}
	if body != nil && req.Header.Get(echoHeaderContentType) == "" {
		req.Header.Set(echoHeaderContentType, "application/json")
	}

	res := httptest.NewRecorder()
	s.Echo.ServeHTTP(res, req)
	return res
}

const echoHeaderContentType = "Content-Type"

// ParseResponseBody decodes the recorded response body into v.
func ParseResponseBody(t *testing.T, res *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(res.Result().Body).Decode(v), "failed to parse response body")
}

// ParseResponseAndValidate decodes into a validatable payload type and runs
// its validation, failing the test on a contract violation.
func ParseResponseAndValidate(t *testing.T, res *httptest.ResponseRecorder, v runtime.Validatable) {
	t.Helper()
	ParseResponseBody(t, res, v)
	require.NoError(t, v.Validate(strfmt.Default), "response payload validation failed")
}

// HeadersWithAuth returns JSON headers carrying the given bearer token.
func HeadersWithAuth(t *testing.T, token string) http.Header {
	t.Helper()
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Authorization", "Bearer "+token)
	return headers
}
