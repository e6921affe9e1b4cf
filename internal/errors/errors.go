package errors

import "errors"

// This package defines a centralized set of sentinel errors for the application.
// Services wrap these with context (fmt.Errorf("%w: ...")) and the API layer uses
// errors.Is() to map them to HTTP responses, so no service ever needs to know
// about status codes.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// This is typically mapped to a 404 Not Found HTTP status.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data provided by a client failed
	// business rule validation.
	// This is typically mapped to a 400 Bad Request HTTP status.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation could not be completed because
	// it conflicts with the current state of a resource (e.g. a taken username).
	// This is typically mapped to a 409 Conflict HTTP status.
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized signifies that the caller could not be authenticated
	// (missing, expired or invalid credentials).
	// This is typically mapped to a 401 Unauthorized HTTP status.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPermission signifies that the authenticated user is not authorized
	// to perform the requested action, e.g. touching another user's request.
	// This is typically mapped to a 403 Forbidden HTTP status.
	ErrPermission = errors.New("permission denied")

	// ErrUnsupportedMediaType signifies that an uploaded file is not one of the
	// accepted image types.
	// This is typically mapped to a 415 Unsupported Media Type HTTP status.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrTooLarge signifies that an upload exceeded the configured size bound.
	// This is typically mapped to a 413 Request Entity Too Large HTTP status.
	ErrTooLarge = errors.New("payload too large")

	// ErrUpstream signifies that an external provider (inference, speech)
	// rejected or failed the call.
	// This is typically mapped to a 502 Bad Gateway HTTP status.
	ErrUpstream = errors.New("upstream provider error")

	// ErrUpstreamUnavailable signifies that an external provider could not be
	// reached within the timeout and retry budget.
	// This is typically mapped to a 504 Gateway Timeout HTTP status.
	ErrUpstreamUnavailable = errors.New("upstream provider unavailable")

	// ErrInvalidUpstreamResponse signifies that an external provider answered,
	// but the payload could not be parsed into the expected shape.
	// This is typically mapped to a 502 Bad Gateway HTTP status.
	ErrInvalidUpstreamResponse = errors.New("invalid upstream response")

	// ErrInternal signifies an unexpected error on the server. This is a generic
	// error used to prevent leaking sensitive implementation details to the client.
	// This is typically mapped to a 500 Internal Server Error HTTP status.
	ErrInternal = errors.New("internal server error")
)
