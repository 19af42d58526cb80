package rest

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the API. StatusCode and Message come
// from the response; RequestID identifies the call for support escalation.
// The credential and no-data failures below unwrap to an APIError, so one
// errors.As against *APIError catches every API-originated failure.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("meridian: api status %d: %s (request id %s)", e.StatusCode, msg, e.RequestID)
	}
	return fmt.Sprintf("meridian: api status %d: %s", e.StatusCode, msg)
}

// InvalidCredentialsError reports a rejected or missing API key, the 401 and
// 403 responses.
type InvalidCredentialsError struct {
	*APIError
}

func (e *InvalidCredentialsError) Error() string {
	return fmt.Sprintf("meridian: invalid or missing api key (status %d)", e.StatusCode)
}

// Unwrap exposes the underlying APIError.
func (e *InvalidCredentialsError) Unwrap() error { return e.APIError }

// NoPreviousDataFoundError reports a previous-day lookup on a ticker the API
// holds no history for: a 404, or a success with an empty result set. Callers
// treat it as an expected outcome rather than a failure.
type NoPreviousDataFoundError struct {
	Ticker string

	cause *APIError
}

func (e *NoPreviousDataFoundError) Error() string {
	return fmt.Sprintf("meridian: no previous day data for %s", e.Ticker)
}

// Unwrap exposes the 404 that triggered the error. An empty result set has no
// underlying APIError.
func (e *NoPreviousDataFoundError) Unwrap() error {
	if e.cause == nil {
		return nil
	}
	return e.cause
}

// isStatus reports whether err is an APIError with the given HTTP status.
func isStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
