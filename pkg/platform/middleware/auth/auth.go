// Package auth enforces Bearer token authentication on API routes.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"veridoc/pkg/requestcontext"
)

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims is the subset of token claims the middleware exposes to handlers.
type Claims struct {
	Subject  string
	ClientID string
}

type contextKeySubject struct{}

// Subject retrieves the authenticated subject from the context.
func Subject(ctx context.Context) string {
	if sub, ok := ctx.Value(contextKeySubject{}).(string); ok {
		return sub
	}
	return ""
}

// WithSubject injects an authenticated subject into a context. Useful for
// handler tests that skip the middleware chain.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, contextKeySubject{}, subject)
}

// RequireAuth rejects requests without a valid Bearer token.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				writeUnauthorized(w, "missing bearer token")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			ctx = WithSubject(ctx, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
