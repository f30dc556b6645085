package http

import (
	"context"
	"net/http"
	"strings"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/identity"
	"splitbill-backend/internal/logger"
)

type contextKey string

const userIDKey contextKey = "user-id"

// UserIDFromContext returns the authenticated user id set by AuthMiddleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// AuthMiddleware verifies the bearer token of every request it wraps.
func AuthMiddleware(provider identity.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeError(w, &domain.AuthError{Reason: "authorization token is not provided"})
				return
			}
			userID, err := provider.VerifyToken(r.Context(), token)
			if err != nil {
				logger.Warn("Rejected credential", "path", r.URL.Path, "error", err)
				writeError(w, &domain.AuthError{Reason: "invalid token"})
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// loggingMiddleware logs each request at debug level.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("HTTP request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
