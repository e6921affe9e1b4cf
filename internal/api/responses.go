package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"spareeye/backend/internal/auth"
	app_errors "spareeye/backend/internal/errors"
)

// This file contains shared DTOs (Data Transfer Objects) for API responses
// and helper functions for sending consistent HTTP responses.

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse defines a generic success response, typically for operations
// like PUT or DELETE that don't need to return a full resource.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// AuthErrorResponse is returned by the bearer-token middleware.
type AuthErrorResponse struct {
	Status  string `json:"status" example:"fail"`
	Message string `json:"message"`
	Code    string `json:"code" example:"TOKEN_MISSING"`
}

// respondWithError is the centralized error handling function for the API layer.
// It maps custom business-layer errors to appropriate HTTP status codes and formats
// a standard JSON error response.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		// Validation messages from the service layer are already user-facing.
		message = clientMessage(err, app_errors.ErrValidation)
	case errors.Is(err, app_errors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		message = clientMessage(err, app_errors.ErrUnauthorized)
	case errors.Is(err, app_errors.ErrConflict):
		statusCode = http.StatusConflict
		message = "A conflict occurred with the current state of the resource."
	case errors.Is(err, app_errors.ErrPermission):
		statusCode = http.StatusForbidden
		message = "You do not have permission to perform this action."
	case errors.Is(err, app_errors.ErrTooLarge):
		statusCode = http.StatusRequestEntityTooLarge
		message = clientMessage(err, app_errors.ErrTooLarge)
	case errors.Is(err, app_errors.ErrUnsupportedMediaType):
		statusCode = http.StatusUnsupportedMediaType
		message = clientMessage(err, app_errors.ErrUnsupportedMediaType)
	case errors.Is(err, app_errors.ErrUpstreamUnavailable):
		statusCode = http.StatusGatewayTimeout
		message = "The AI provider did not respond in time. Please try again."
	case errors.Is(err, app_errors.ErrUpstream), errors.Is(err, app_errors.ErrInvalidUpstreamResponse):
		statusCode = http.StatusBadGateway
		message = "The AI provider failed to process the request."
	default:
		// Any unhandled error is considered an internal server error.
		// This prevents leaking implementation details to the client.
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	// The original, more detailed error is logged for debugging purposes,
	// while a generic message is sent to the client.
	if statusCode >= http.StatusInternalServerError {
		slog.Error("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)
	} else {
		slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)
	}

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// clientMessage strips the sentinel prefix from a wrapped error, leaving the
// descriptive part the service layer wrote for the client.
func clientMessage(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()+": "); i >= 0 {
		return msg[i+len(sentinel.Error())+2:]
	}
	return msg
}

// respondWithJSON is a low-level helper for marshaling a payload to JSON
// and writing it to the http.ResponseWriter with a given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// maxJSONBody caps every JSON request body.
const maxJSONBody = 1 << 20

// decodeAndValidate reads a JSON body of at most maxJSONBody bytes into dst and
// runs its validate tags.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", app_errors.ErrValidation)
		}
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return fmt.Errorf("%w: request body exceeds %d bytes", app_errors.ErrTooLarge, maxJSONBody)
		}
		return fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation)
	}
	return validateRequest(dst)
}

// callerFrom returns the identity the auth middleware attached to r.
func callerFrom(r *http.Request) (auth.Identity, error) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		return auth.Identity{}, fmt.Errorf("%w: authentication required", app_errors.ErrUnauthorized)
	}
	return id, nil
}
