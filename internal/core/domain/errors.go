package domain

import "errors"

// Domain errors represent business logic failures.
// Adapters wrap them so callers can classify failures with errors.Is.
var (
	// ErrNotFound indicates a stop search produced no results.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedResponse indicates an upstream payload was missing an expected field.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrInvalidTimestamp indicates a departure time could not be read as a time of day.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// Configuration Errors.

	// ErrConfiguration indicates required configuration (client credentials) is missing.
	// Surfaced before any network activity.
	ErrConfiguration = errors.New("configuration error")

	// Authentication Errors.

	// ErrAuthorization indicates the client-credentials exchange was rejected or failed.
	ErrAuthorization = errors.New("authorization failed")

	// Transport Errors.

	// ErrTransport indicates a request failed at the network or HTTP level.
	// Never reported as an empty result.
	ErrTransport = errors.New("transport error")
)
