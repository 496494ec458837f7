package auth

import (
	"log/slog"
	"net/http"

	"veridoc/pkg/platform/secrets"
	"veridoc/pkg/requestcontext"
)

// APISecretHeader carries the shared API secret for machine clients that
// don't go through token issuance.
const APISecretHeader = "X-API-Key"

// RequireAPISecret rejects requests whose X-API-Key does not verify against
// the stored bcrypt hash.
func RequireAPISecret(secretHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			key := r.Header.Get(APISecretHeader)
			if key == "" {
				writeUnauthorized(w, "missing api key")
				return
			}

			if err := secrets.Verify(key, secretHash); err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid api key",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				writeUnauthorized(w, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
