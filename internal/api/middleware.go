package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"spareeye/backend/internal/auth"
)

// Codes carried by AuthErrorResponse.
const (
	CodeTokenMissing = "TOKEN_MISSING"
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
)

// Authenticate rejects requests without a valid bearer token and attaches the
// caller's identity to the request context.
func Authenticate(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, raw, _ := strings.Cut(r.Header.Get("Authorization"), " ")
			raw = strings.TrimSpace(raw)
			if !strings.EqualFold(scheme, "Bearer") || raw == "" {
				respondWithJSON(w, http.StatusUnauthorized, AuthErrorResponse{
					Status:  "fail",
					Message: "Access token is missing.",
					Code:    CodeTokenMissing,
				})
				return
			}

			id, err := tokens.Verify(raw)
			if err != nil {
				resp := AuthErrorResponse{Status: "fail", Message: "Access token is invalid.", Code: CodeTokenInvalid}
				if errors.Is(err, auth.ErrTokenExpired) {
					resp.Message = "Access token has expired."
					resp.Code = CodeTokenExpired
				}
				slog.Warn("Rejected bearer token", "code", resp.Code, "error", err)
				respondWithJSON(w, http.StatusUnauthorized, resp)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}
